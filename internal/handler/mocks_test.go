package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"study-tracker/internal/config"
	"study-tracker/internal/domain"
	"study-tracker/internal/service"

	"github.com/supabase-community/supabase-go"
)

type mockBookmarkService struct {
	bookmarks map[string][]*domain.Bookmark
	byID      map[string]*domain.Bookmark

	createErr error
	listErr   error
	deleteErr error

	created []string
	deleted []string
	touched []string
	closed  []string
}

func newMockBookmarkService() *mockBookmarkService {
	return &mockBookmarkService{
		bookmarks: make(map[string][]*domain.Bookmark),
		byID:      make(map[string]*domain.Bookmark),
	}
}

func (m *mockBookmarkService) add(b *domain.Bookmark) {
	m.bookmarks[b.ContentID] = append(m.bookmarks[b.ContentID], b)
	m.byID[b.ID] = b
}

func (m *mockBookmarkService) Create(contentID string, location domain.Location, selectedText string, color domain.BookmarkColor, token string) (*domain.Bookmark, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	b := &domain.Bookmark{
		ID:        "bm-created",
		ContentID: contentID,
		Title:     selectedText,
		Location:  location,
		Color:     color,
	}
	m.add(b)
	m.created = append(m.created, b.ID)
	return b, nil
}

func (m *mockBookmarkService) Get(bookmarkID string, token string) (*domain.Bookmark, error) {
	if b, ok := m.byID[bookmarkID]; ok {
		return b, nil
	}
	return nil, domain.ErrBookmarkNotFound
}

func (m *mockBookmarkService) List(contentID string, token string) ([]*domain.Bookmark, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.bookmarks[contentID], nil
}

func (m *mockBookmarkService) Delete(bookmarkID string, token string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, bookmarkID)
	return nil
}

func (m *mockBookmarkService) Touch(bookmarkID string, token string) {
	m.touched = append(m.touched, bookmarkID)
}

func (m *mockBookmarkService) CloseContent(contentID string) {
	m.closed = append(m.closed, contentID)
}

type mockContentService struct {
	rendered *domain.RenderedContent
	model    *domain.DocumentTextModel
	files    []string
	err      error
}

func (m *mockContentService) RenderContent(id domain.ContentIdentifier) (*domain.RenderedContent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rendered, nil
}

func (m *mockContentService) BuildModel(id domain.ContentIdentifier, viewport domain.ViewportState) (*domain.DocumentTextModel, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.model, nil
}

func (m *mockContentService) ListFiles(topic string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.files, nil
}

type mockSupabaseClient struct {
	user        *domain.SupabaseUser
	validateErr error
}

func (m *mockSupabaseClient) Initialize() error { return nil }

func (m *mockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.user, nil
}

func (m *mockSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return nil, nil
}

func newTestContainer(bookmarks domain.BookmarkService, content domain.ContentService) *config.Container {
	logger := NewMockHandlerLogger()
	return &config.Container{
		Logger:            logger,
		SupabaseClient:    &mockSupabaseClient{user: &domain.SupabaseUser{ID: "user-1"}},
		BookmarkService:   bookmarks,
		ContentService:    content,
		PositionEncoder:   service.NewPositionEncoder(),
		PositionResolver:  service.NewPositionResolver(),
		HighlightRenderer: service.NewHighlightRenderer(logger),
	}
}

// authedRequest builds a request carrying the context values the auth
// middleware would have attached.
func authedRequest(method, target string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(r.Context(), userContextKey, &domain.SupabaseUser{ID: "user-1"})
	ctx = context.WithValue(ctx, tokenContextKey, "token")
	return r.WithContext(ctx)
}
