package handler

import (
	"net/http"

	"study-tracker/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"study-tracker"}`))
	}).Methods("GET")

	// Initialize handlers
	bookmarkHandler := NewBookmarkHandler(container)
	contentHandler := NewContentHandler(container)

	// Auth middleware for protected routes
	authMiddleware := AuthMiddleware(container)

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	// Bookmark routes. The more specific content-scoped routes are
	// registered before the catch-all content id pattern.
	protected.HandleFunc("/bookmarks/content/{contentId:.+}/indicators", bookmarkHandler.ListIndicators).Methods("GET")
	protected.HandleFunc("/bookmarks/content/{contentId:.+}/list", bookmarkHandler.RenderBookmarkList).Methods("GET")
	protected.HandleFunc("/bookmarks/content/{contentId:.+}/session", bookmarkHandler.CloseSession).Methods("DELETE")
	protected.HandleFunc("/bookmarks/content/{contentId:.+}", bookmarkHandler.ListBookmarks).Methods("GET")
	protected.HandleFunc("/bookmarks", bookmarkHandler.CreateBookmark).Methods("POST")
	protected.HandleFunc("/bookmarks/{id}", bookmarkHandler.DeleteBookmark).Methods("DELETE")
	protected.HandleFunc("/bookmarks/{id}/access", bookmarkHandler.TouchBookmark).Methods("POST")
	protected.HandleFunc("/bookmarks/{id}/resolve", bookmarkHandler.ResolveBookmark).Methods("POST")

	// Content routes
	protected.HandleFunc("/content/{topic}/{path:.+}/encode", contentHandler.EncodePosition).Methods("POST")
	protected.HandleFunc("/content/{topic}/{path:.+}", contentHandler.GetContent).Methods("GET")
	protected.HandleFunc("/content/{topic}", contentHandler.ListContent).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
			"http://localhost:4173", // SvelteKit preview
			"http://localhost:3000", // Alternative dev port
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
