package service

import (
	"strings"

	"study-tracker/internal/domain"
)

// ContentManager implements domain.ContentService: it reads markdown sources,
// renders them to HTML and builds the document text model the position engine
// operates on.
type ContentManager struct {
	repo     domain.ContentRepository
	renderer *MarkdownRenderer
	builder  *DocumentModelBuilder
	logger   domain.Logger
}

func NewContentManager(repo domain.ContentRepository, logger domain.Logger) domain.ContentService {
	return &ContentManager{
		repo:     repo,
		renderer: NewMarkdownRenderer(),
		builder:  NewDocumentModelBuilder(),
		logger:   logger,
	}
}

func (s *ContentManager) RenderContent(id domain.ContentIdentifier) (*domain.RenderedContent, error) {
	source, err := s.repo.Read(id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.renderer.Render(source)
	if err != nil {
		return nil, err
	}

	// Stats come from the text content of the render, the same view the
	// encoder's line and character estimates are computed against.
	model, err := s.builder.Build(id, rendered, domain.ViewportState{})
	if err != nil {
		return nil, err
	}

	return &domain.RenderedContent{
		ContentID: id,
		HTML:      string(rendered),
		LineCount: strings.Count(model.FullText, "\n") + 1,
		CharCount: len(model.FullText),
	}, nil
}

func (s *ContentManager) BuildModel(id domain.ContentIdentifier, viewport domain.ViewportState) (*domain.DocumentTextModel, error) {
	source, err := s.repo.Read(id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.renderer.Render(source)
	if err != nil {
		return nil, err
	}
	return s.builder.Build(id, rendered, viewport)
}

func (s *ContentManager) ListFiles(topic string) ([]string, error) {
	return s.repo.List(topic)
}
