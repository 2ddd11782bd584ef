package domain

import "time"

// BookmarkColor is a presentation tag carried on a bookmark. It is not
// load-bearing for resolution.
type BookmarkColor string

const (
	ColorYellow BookmarkColor = "yellow"
	ColorGreen  BookmarkColor = "green"
	ColorBlue   BookmarkColor = "blue"
	ColorPink   BookmarkColor = "pink"
)

// ValidColor reports whether c is one of the allowed palette values.
func ValidColor(c BookmarkColor) bool {
	switch c {
	case ColorYellow, ColorGreen, ColorBlue, ColorPink:
		return true
	}
	return false
}

// Location is the multi-signal position encoding produced by the encoder.
// ScrollPercentage is always present and is the primary signal; the other
// fields are best-effort and may be empty or stale, but each is computed
// independently from the same snapshot, never derived from another field
// after the fact.
type Location struct {
	ScrollPercentage float64 `json:"scroll_percentage"`
	SectionHeading   string  `json:"section_heading,omitempty"`
	LineNumber       int     `json:"line_number"`
	TextSnippet      string  `json:"text_snippet,omitempty"`
	CharacterOffset  int     `json:"character_offset"`
}

// Bookmark is a persisted reading position inside a piece of content.
type Bookmark struct {
	ID          string        `json:"id"`
	ContentID   string        `json:"content_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Location    Location      `json:"location"`
	Color       BookmarkColor `json:"color"`

	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// BookmarkRepository defines persistence operations for bookmarks. The
// repository is the authority for duplicate detection: Create returns
// ErrDuplicateBookmark when an existing bookmark for the same content has a
// scroll percentage within the configured tolerance.
type BookmarkRepository interface {
	Create(bookmark *Bookmark, token string) (*Bookmark, error)
	GetByID(bookmarkID string, token string) (*Bookmark, error)
	ListByContent(contentID string, token string) ([]*Bookmark, error)
	Delete(bookmarkID string, token string) error
	Touch(bookmarkID string, accessedAt time.Time, token string) error
}

// BookmarkService defines the use-case operations for bookmarks. The service
// owns one ViewerSession per open content and serializes mutations to it.
type BookmarkService interface {
	Create(contentID string, location Location, selectedText string, color BookmarkColor, token string) (*Bookmark, error)
	Get(bookmarkID string, token string) (*Bookmark, error)
	List(contentID string, token string) ([]*Bookmark, error)
	Delete(bookmarkID string, token string) error
	Touch(bookmarkID string, token string)
	CloseContent(contentID string)
}
