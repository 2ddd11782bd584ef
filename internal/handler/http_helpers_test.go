package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "bad input")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `"error":"bad input"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestWriteErrorCode(t *testing.T) {
	rec := httptest.NewRecorder()
	writeErrorCode(rec, http.StatusConflict, "DUPLICATE_BOOKMARK", "already exists")

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"DUPLICATE_BOOKMARK"`) {
		t.Fatalf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]int{"count": 3})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"count":3`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestContextHelpers_Absent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	if _, ok := GetUserFromContext(req); ok {
		t.Fatalf("expected no user in a bare request context")
	}
	if _, ok := GetTokenFromContext(req); ok {
		t.Fatalf("expected no token in a bare request context")
	}
}
