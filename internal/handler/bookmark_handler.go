package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"study-tracker/internal/config"
	"study-tracker/internal/domain"
	apperrors "study-tracker/pkg/errors"

	"github.com/gorilla/mux"
)

// BookmarkHandler handles bookmark-related HTTP requests.
type BookmarkHandler struct {
	container *config.Container
	logger    domain.Logger
	bookmarks domain.BookmarkService
	content   domain.ContentService
}

func NewBookmarkHandler(container *config.Container) *BookmarkHandler {
	return &BookmarkHandler{
		container: container,
		logger:    container.Logger,
		bookmarks: container.BookmarkService,
		content:   container.ContentService,
	}
}

type createBookmarkRequest struct {
	ContentPath  string          `json:"content_path"`
	Location     domain.Location `json:"location"`
	SelectedText string          `json:"selected_text,omitempty"`
	Color        string          `json:"color,omitempty"`
}

type resolveRequest struct {
	Viewport domain.ViewportState `json:"viewport"`
}

type resolveResponse struct {
	ScrollTop float64          `json:"scroll_top"`
	Span      *domain.TextSpan `json:"span,omitempty"`
	HTML      string           `json:"html,omitempty"`
}

// CreateBookmark handles POST /bookmarks
func (h *BookmarkHandler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	var req createBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ContentPath == "" {
		writeError(w, http.StatusBadRequest, "content_path is required")
		return
	}
	if req.Color != "" && !domain.ValidColor(domain.BookmarkColor(req.Color)) {
		writeError(w, http.StatusBadRequest, "Unknown bookmark color")
		return
	}

	created, err := h.bookmarks.Create(req.ContentPath, req.Location, req.SelectedText, domain.BookmarkColor(req.Color), token)
	if err != nil {
		h.respondError(w, err, "Failed to create bookmark")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"bookmark": created})
}

// ListBookmarks handles GET /bookmarks/content/{contentId}
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	contentID := mux.Vars(r)["contentId"]
	bookmarks, err := h.bookmarks.List(contentID, token)
	if err != nil {
		h.respondError(w, err, "Failed to retrieve bookmarks")
		return
	}
	if bookmarks == nil {
		bookmarks = make([]*domain.Bookmark, 0)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookmarks": bookmarks})
}

// DeleteBookmark handles DELETE /bookmarks/{id}
func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	bookmarkID := mux.Vars(r)["id"]
	if err := h.bookmarks.Delete(bookmarkID, token); err != nil {
		h.respondError(w, err, "Failed to delete bookmark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TouchBookmark handles POST /bookmarks/{id}/access. The refresh is
// fire-and-forget; the response never waits on the store.
func (h *BookmarkHandler) TouchBookmark(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	h.bookmarks.Touch(mux.Vars(r)["id"], token)
	w.WriteHeader(http.StatusAccepted)
}

// ResolveBookmark handles POST /bookmarks/{id}/resolve. It maps the stored
// location onto a fresh render of the content and, when an exact span
// resolves, returns the content markup with the flash marker applied.
func (h *BookmarkHandler) ResolveBookmark(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	bookmarkID := mux.Vars(r)["id"]
	bookmark, err := h.bookmarks.Get(bookmarkID, token)
	if err != nil {
		h.respondError(w, err, "Failed to load bookmark")
		return
	}

	contentID := domain.ContentIdentifier(bookmark.ContentID)
	model, err := h.content.BuildModel(contentID, req.Viewport)
	if err != nil {
		h.respondError(w, err, "Failed to load content")
		return
	}

	target := h.container.PositionResolver.Resolve(bookmark.Location, model)
	resp := resolveResponse{ScrollTop: target.ScrollTop, Span: target.Span}

	if target.Span != nil {
		rendered, err := h.content.RenderContent(contentID)
		if err == nil {
			if marked, ok := h.container.HighlightRenderer.FlashHTML(rendered.HTML, *target.Span); ok {
				resp.HTML = marked
			}
		}
	}

	// Activation refreshes the access timestamp without blocking the response.
	h.bookmarks.Touch(bookmarkID, token)

	writeJSON(w, http.StatusOK, resp)
}

// ListIndicators handles GET /bookmarks/content/{contentId}/indicators
func (h *BookmarkHandler) ListIndicators(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	contentID := mux.Vars(r)["contentId"]
	bookmarks, err := h.bookmarks.List(contentID, token)
	if err != nil {
		h.respondError(w, err, "Failed to retrieve bookmarks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"indicators": h.container.HighlightRenderer.Indicators(bookmarks),
	})
}

// RenderBookmarkList handles GET /bookmarks/content/{contentId}/list
func (h *BookmarkHandler) RenderBookmarkList(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	contentID := mux.Vars(r)["contentId"]
	bookmarks, err := h.bookmarks.List(contentID, token)
	if err != nil {
		h.respondError(w, err, "Failed to retrieve bookmarks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"html": h.container.HighlightRenderer.RenderList(bookmarks),
	})
}

// CloseSession handles DELETE /bookmarks/content/{contentId}/session. The
// in-memory view state is discarded; the next list reloads from the store.
func (h *BookmarkHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.bookmarks.CloseContent(mux.Vars(r)["contentId"])
	w.WriteHeader(http.StatusNoContent)
}

// respondError maps domain errors onto the application error taxonomy and
// writes the matching HTTP response.
func (h *BookmarkHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperrors.AppError
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrDuplicateBookmark):
		appErr = apperrors.NewDuplicateError("A bookmark already exists at this location")
	case errors.Is(err, domain.ErrBookmarkNotFound):
		appErr = apperrors.NewNotFoundError("Bookmark not found")
	case errors.Is(err, domain.ErrContentNotFound):
		appErr = apperrors.NewNotFoundError("Content not found")
	case errors.Is(err, domain.ErrInvalidContentID):
		appErr = apperrors.NewValidationError("Invalid content identifier")
	case errors.As(err, &validationErr):
		appErr = apperrors.NewValidationError(validationErr.Error())
	default:
		h.logger.Error(fallback, err)
		appErr = apperrors.NewInternalError(fallback, err)
	}

	if appErr.Type == apperrors.ErrorTypeDuplicate {
		writeErrorCode(w, apperrors.GetStatusCode(appErr), "DUPLICATE_BOOKMARK", appErr.Message)
		return
	}
	writeError(w, apperrors.GetStatusCode(appErr), appErr.Message)
}
