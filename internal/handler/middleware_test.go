package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	container := newTestContainer(newMockBookmarkService(), &mockContentService{})
	middleware := AuthMiddleware(container)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not run without credentials")
	})

	rec := httptest.NewRecorder()
	middleware(next).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/bookmarks", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	container := newTestContainer(newMockBookmarkService(), &mockContentService{})
	middleware := AuthMiddleware(container)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not run with a malformed header")
	})

	req := httptest.NewRequest("GET", "/api/v1/bookmarks", nil)
	req.Header.Set("Authorization", "Token abc")

	rec := httptest.NewRecorder()
	middleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	container := newTestContainer(newMockBookmarkService(), &mockContentService{})
	container.SupabaseClient = &mockSupabaseClient{validateErr: errors.New("expired")}
	middleware := AuthMiddleware(container)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not run with an invalid token")
	})

	req := httptest.NewRequest("GET", "/api/v1/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer expired-token")

	rec := httptest.NewRecorder()
	middleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	container := newTestContainer(newMockBookmarkService(), &mockContentService{})
	middleware := AuthMiddleware(container)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true

		user, ok := GetUserFromContext(r)
		if !ok || user.ID != "user-1" {
			t.Fatalf("expected the user in context, got %+v", user)
		}
		token, ok := GetTokenFromContext(r)
		if !ok || token != "good-token" {
			t.Fatalf("expected the token in context, got %q", token)
		}
	})

	req := httptest.NewRequest("GET", "/api/v1/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	rec := httptest.NewRecorder()
	middleware(next).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected the next handler to run")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
