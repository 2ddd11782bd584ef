package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"study-tracker/internal/domain"
)

const (
	titleMaxLen       = 50
	descriptionMaxLen = 200
)

// BookmarkManager implements domain.BookmarkService. It owns one
// ViewerSession per open content and serializes all session mutations behind
// a mutex, so callers always observe a consistent snapshot after each
// completed create or delete, never a mix of pre and post states.
type BookmarkManager struct {
	repo   domain.BookmarkRepository
	logger domain.Logger

	mu       sync.Mutex
	sessions map[string]*domain.ViewerSession
	nextGen  uint64
}

func NewBookmarkManager(repo domain.BookmarkRepository, logger domain.Logger) domain.BookmarkService {
	return &BookmarkManager{
		repo:     repo,
		logger:   logger,
		sessions: make(map[string]*domain.ViewerSession),
	}
}

// Create derives the bookmark title and description from the anchor text and
// submits it to the store. The store is the authority for duplicate
// detection; on ErrDuplicateBookmark no local state changes.
func (s *BookmarkManager) Create(contentID string, location domain.Location, selectedText string, color domain.BookmarkColor, token string) (*domain.Bookmark, error) {
	if contentID == "" {
		return nil, &domain.ValidationError{Field: "content_id", Message: "is required"}
	}
	if !domain.ValidColor(color) {
		color = domain.ColorYellow
	}

	title, description := deriveTitle(selectedText, location)

	created, err := s.repo.Create(&domain.Bookmark{
		ContentID:   contentID,
		Title:       title,
		Description: description,
		Location:    location,
		Color:       color,
	}, token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if sess, ok := s.sessions[contentID]; ok {
		sess.Add(created)
	}
	s.mu.Unlock()

	s.logger.Info("Bookmark created", "content_id", contentID, "bookmark_id", created.ID, "scroll_percentage", created.Location.ScrollPercentage)
	return created, nil
}

// Get returns a bookmark by id, serving the in-memory session when it holds
// the bookmark and falling back to the store otherwise.
func (s *BookmarkManager) Get(bookmarkID string, token string) (*domain.Bookmark, error) {
	s.mu.Lock()
	for _, sess := range s.sessions {
		if b := sess.Find(bookmarkID); b != nil {
			s.mu.Unlock()
			return b, nil
		}
	}
	s.mu.Unlock()

	return s.repo.GetByID(bookmarkID, token)
}

// List returns the bookmarks for a piece of content, loading from the store
// on first access and serving the in-memory session afterwards.
func (s *BookmarkManager) List(contentID string, token string) ([]*domain.Bookmark, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[contentID]; ok {
		snapshot := sess.Bookmarks()
		s.mu.Unlock()
		return snapshot, nil
	}
	s.mu.Unlock()

	bookmarks, err := s.repo.ListByContent(contentID, token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[contentID]; ok {
		// Another request opened the session while we were fetching.
		return sess.Bookmarks(), nil
	}
	s.nextGen++
	sess := domain.NewViewerSession(uuid.NewString(), contentID, s.nextGen, bookmarks)
	s.sessions[contentID] = sess
	return sess.Bookmarks(), nil
}

// Delete removes a bookmark from the store and from the in-memory session.
// Deleting an id that is already absent is a no-op success: the store's
// not-found signal is logged and swallowed.
func (s *BookmarkManager) Delete(bookmarkID string, token string) error {
	if bookmarkID == "" {
		return &domain.ValidationError{Field: "bookmark_id", Message: "is required"}
	}

	if err := s.repo.Delete(bookmarkID, token); err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			s.logger.Warn("Bookmark already absent on delete", "bookmark_id", bookmarkID)
		} else {
			return err
		}
	}

	s.mu.Lock()
	for _, sess := range s.sessions {
		if sess.Remove(bookmarkID) {
			break
		}
	}
	s.mu.Unlock()

	s.logger.Info("Bookmark deleted", "bookmark_id", bookmarkID)
	return nil
}

// Touch refreshes a bookmark's last-accessed timestamp in a detached
// goroutine. Failures are logged and otherwise dropped; a completion that
// arrives after the owning session was discarded is ignored.
func (s *BookmarkManager) Touch(bookmarkID string, token string) {
	s.mu.Lock()
	var owner *domain.ViewerSession
	for _, sess := range s.sessions {
		if sess.Find(bookmarkID) != nil {
			owner = sess
			break
		}
	}
	s.mu.Unlock()

	go func() {
		now := time.Now()
		if err := s.repo.Touch(bookmarkID, now, token); err != nil {
			s.logger.Debug("Bookmark access refresh failed", "bookmark_id", bookmarkID, "error", err)
			return
		}
		if owner == nil {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		current, ok := s.sessions[owner.ContentID]
		if !ok || current.Generation != owner.Generation {
			// The viewer switched content; the result is discarded.
			return
		}
		current.SetLastAccessed(bookmarkID, now)
	}()
}

// CloseContent discards the in-memory session for a piece of content. The
// next List reloads from the store.
func (s *BookmarkManager) CloseContent(contentID string) {
	s.mu.Lock()
	delete(s.sessions, contentID)
	s.mu.Unlock()
}

// deriveTitle builds the bookmark title and description from the anchor
// text. The title comes from the selection, falling back to the stored
// snippet, then the nearest heading, then the raw position. The description
// is populated only when the anchor text is longer than the title.
func deriveTitle(selectedText string, location domain.Location) (string, string) {
	anchor := strings.TrimSpace(selectedText)
	if anchor == "" {
		anchor = strings.TrimSpace(location.TextSnippet)
	}

	source := anchor
	if source == "" {
		source = strings.TrimSpace(location.SectionHeading)
	}

	title := truncateWithEllipsis(source, titleMaxLen)
	if title == "" {
		title = fmt.Sprintf("Position %.0f%%", location.ScrollPercentage)
	}

	description := ""
	if utf8.RuneCountInString(anchor) > utf8.RuneCountInString(title) {
		description = truncateWithEllipsis(anchor, descriptionMaxLen)
	}
	return title, description
}

func truncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
