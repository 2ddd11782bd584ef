package domain

import "strings"

// ContentIdentifier uniquely names a piece of learning content as
// "topic/relative/path.md". It is stable across sessions and is the join key
// between bookmarks and content.
type ContentIdentifier string

// NewContentIdentifier joins a topic and a file path into an identifier.
func NewContentIdentifier(topic, path string) ContentIdentifier {
	return ContentIdentifier(topic + "/" + strings.TrimPrefix(path, "/"))
}

// Topic returns the topic component of the identifier.
func (c ContentIdentifier) Topic() string {
	if i := strings.Index(string(c), "/"); i >= 0 {
		return string(c)[:i]
	}
	return string(c)
}

// Path returns the file path component of the identifier.
func (c ContentIdentifier) Path() string {
	if i := strings.Index(string(c), "/"); i >= 0 {
		return string(c)[i+1:]
	}
	return ""
}

// Heading is a rendered heading element in document order.
type Heading struct {
	Text           string  `json:"text"`
	Level          int     `json:"level"`
	VerticalOffset float64 `json:"vertical_offset"`
}

// TextSegment is one contiguous run of text content in document order.
// Segments are the unit the resolver walks when mapping a character offset
// back onto a renderable region.
type TextSegment struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TextSpan is a [Start, End) character range within a document's full text,
// together with the segment that contains it. Spans never straddle a segment
// boundary; the resolver clips instead.
type TextSpan struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	SegmentID string `json:"segment_id"`
}

// Len returns the number of characters the span covers.
func (s TextSpan) Len() int {
	return s.End - s.Start
}

// ViewportState is the client viewport geometry at encoding time.
type ViewportState struct {
	ScrollTop    float64 `json:"scroll_top"`
	ScrollHeight float64 `json:"scroll_height"`
	ClientHeight float64 `json:"client_height"`
}

// ScrollableHeight returns the scrollable distance, never negative.
func (v ViewportState) ScrollableHeight() float64 {
	if v.ScrollHeight <= v.ClientHeight {
		return 0
	}
	return v.ScrollHeight - v.ClientHeight
}

// DocumentTextModel is a read-only view over one render pass of a piece of
// content: its full text, headings and text segments in document order, and
// the viewport geometry the render was measured against. Both the encoder and
// the resolver read it; neither mutates it.
type DocumentTextModel struct {
	ContentID ContentIdentifier
	FullText  string
	Headings  []Heading
	Segments  []TextSegment

	ScrollHeight float64
	ClientHeight float64
}

// ScrollableHeight returns the scrollable distance of the rendered view.
func (d *DocumentTextModel) ScrollableHeight() float64 {
	if d.ScrollHeight <= d.ClientHeight {
		return 0
	}
	return d.ScrollHeight - d.ClientHeight
}

// ResolvedTarget is the outcome of mapping a stored Location onto the current
// render. ScrollTop is always defined; Span is nil when no snippet was stored
// or no match was found, which is reduced fidelity, not an error.
type ResolvedTarget struct {
	ScrollTop float64   `json:"scroll_top"`
	Span      *TextSpan `json:"span,omitempty"`
}

// RenderedContent is a rendered piece of content together with basic stats.
type RenderedContent struct {
	ContentID ContentIdentifier `json:"content_id"`
	HTML      string            `json:"html"`
	LineCount int               `json:"line_count"`
	CharCount int               `json:"char_count"`
}

// ContentRepository defines read operations over the content source.
type ContentRepository interface {
	Read(id ContentIdentifier) ([]byte, error)
	List(topic string) ([]string, error)
}

// ContentService defines the use-case operations for learning content.
type ContentService interface {
	RenderContent(id ContentIdentifier) (*RenderedContent, error)
	BuildModel(id ContentIdentifier, viewport ViewportState) (*DocumentTextModel, error)
	ListFiles(topic string) ([]string, error)
}
