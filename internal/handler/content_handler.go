package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"study-tracker/internal/config"
	"study-tracker/internal/domain"

	"github.com/gorilla/mux"
)

// ContentHandler handles learning-content HTTP requests.
type ContentHandler struct {
	container *config.Container
	logger    domain.Logger
	content   domain.ContentService
}

func NewContentHandler(container *config.Container) *ContentHandler {
	return &ContentHandler{
		container: container,
		logger:    container.Logger,
		content:   container.ContentService,
	}
}

type encodeRequest struct {
	Viewport     domain.ViewportState `json:"viewport"`
	SelectedText string               `json:"selected_text,omitempty"`
}

// ListContent handles GET /content/{topic}
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	files, err := h.content.ListFiles(topic)
	if err != nil {
		h.respondError(w, err, "Failed to list content")
		return
	}
	if files == nil {
		files = make([]string, 0)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"topic": topic, "files": files})
}

// GetContent handles GET /content/{topic}/{path}
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := domain.NewContentIdentifier(vars["topic"], vars["path"])

	rendered, err := h.content.RenderContent(id)
	if err != nil {
		h.respondError(w, err, "Failed to render content")
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

// EncodePosition handles POST /content/{topic}/{path}/encode. It applies the
// position encoder to the current render and the client's viewport snapshot
// and returns the resulting location record.
func (h *ContentHandler) EncodePosition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := domain.NewContentIdentifier(vars["topic"], vars["path"])

	var req encodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	model, err := h.content.BuildModel(id, req.Viewport)
	if err != nil {
		h.respondError(w, err, "Failed to load content")
		return
	}

	location := h.container.PositionEncoder.Encode(model, req.Viewport, req.SelectedText)
	writeJSON(w, http.StatusOK, map[string]interface{}{"location": location})
}

func (h *ContentHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrContentNotFound):
		writeError(w, http.StatusNotFound, "Content not found")
	case errors.Is(err, domain.ErrInvalidContentID):
		writeError(w, http.StatusBadRequest, "Invalid content identifier")
	default:
		h.logger.Error(fallback, err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
