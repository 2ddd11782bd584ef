package config

import (
	"study-tracker/internal/domain"
	"study-tracker/internal/repository"
	"study-tracker/internal/service"
	"study-tracker/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	SupabaseClient domain.SupabaseClient

	BookmarkRepository domain.BookmarkRepository
	ContentRepository  domain.ContentRepository

	BookmarkService   domain.BookmarkService
	ContentService    domain.ContentService
	PositionEncoder   *service.PositionEncoder
	PositionResolver  *service.PositionResolver
	HighlightRenderer *service.HighlightRenderer
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Initialize Supabase client
	supabaseClient := repository.NewSupabaseClient(config, appLogger)

	// Initialize repositories
	bookmarkRepo := repository.NewBookmarkRepository(supabaseClient, config, appLogger)
	contentRepo := repository.NewFileContentRepository(config, appLogger)

	// Initialize services
	bookmarkService := service.NewBookmarkManager(bookmarkRepo, appLogger)
	contentService := service.NewContentManager(contentRepo, appLogger)

	return &Container{
		Config:             config,
		Logger:             appLogger,
		SupabaseClient:     supabaseClient,
		BookmarkRepository: bookmarkRepo,
		ContentRepository:  contentRepo,
		BookmarkService:    bookmarkService,
		ContentService:     contentService,
		PositionEncoder:    service.NewPositionEncoder(),
		PositionResolver:   service.NewPositionResolver(),
		HighlightRenderer:  service.NewHighlightRenderer(appLogger),
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}
