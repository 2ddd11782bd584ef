package domain

import "time"

// ViewerSession is the in-memory bookmark state for one open piece of
// content. It is created when the content is first listed, mutated only by
// the bookmark manager, and discarded when the viewer closes or switches
// content. Generation increments on every discard so that late completions of
// fire-and-forget calls can be recognized and dropped.
//
// The session owns its bookmark structs outright: every bookmark is copied on
// the way in and on the way out, so callers never hold a pointer into session
// storage and later write-backs cannot alter a snapshot already handed out.
type ViewerSession struct {
	ID         string
	ContentID  string
	Generation uint64
	OpenedAt   time.Time

	bookmarks []*Bookmark
}

// NewViewerSession creates a session holding a copy of the given bookmarks.
func NewViewerSession(id, contentID string, generation uint64, bookmarks []*Bookmark) *ViewerSession {
	owned := make([]*Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		copied := *b
		owned = append(owned, &copied)
	}
	return &ViewerSession{
		ID:         id,
		ContentID:  contentID,
		Generation: generation,
		OpenedAt:   time.Now(),
		bookmarks:  owned,
	}
}

// Bookmarks returns copies of the session's bookmarks so callers always
// observe a consistent snapshot, never a mix of pre and post mutation states.
func (s *ViewerSession) Bookmarks() []*Bookmark {
	out := make([]*Bookmark, 0, len(s.bookmarks))
	for _, b := range s.bookmarks {
		copied := *b
		out = append(out, &copied)
	}
	return out
}

// Add appends a copy of the bookmark to the session.
func (s *ViewerSession) Add(b *Bookmark) {
	copied := *b
	s.bookmarks = append(s.bookmarks, &copied)
}

// Remove deletes the bookmark with the given id if present and reports
// whether anything changed.
func (s *ViewerSession) Remove(bookmarkID string) bool {
	for i, b := range s.bookmarks {
		if b.ID == bookmarkID {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns a copy of the bookmark with the given id, or nil.
func (s *ViewerSession) Find(bookmarkID string) *Bookmark {
	for _, b := range s.bookmarks {
		if b.ID == bookmarkID {
			copied := *b
			return &copied
		}
	}
	return nil
}

// SetLastAccessed updates the stored bookmark's access timestamp and reports
// whether the bookmark was present. Snapshots handed out earlier keep their
// original timestamp.
func (s *ViewerSession) SetLastAccessed(bookmarkID string, at time.Time) bool {
	for _, b := range s.bookmarks {
		if b.ID == bookmarkID {
			b.LastAccessedAt = at
			return true
		}
	}
	return false
}
