package service

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"study-tracker/internal/domain"
)

const flashMarkClass = "bookmark-flash"

// DocumentView is a mutable handle over one parsed render of a piece of
// content. MarkSpan and UnmarkSpan are inverse operations over it: unmarking
// restores the original text structure exactly, with no residual wrapper
// nodes.
type DocumentView struct {
	root *html.Node
}

// ParseDocumentView parses rendered HTML into a mutable view.
func ParseDocumentView(renderedHTML string) (*DocumentView, error) {
	root, err := html.Parse(strings.NewReader(renderedHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered content: %w", err)
	}
	return &DocumentView{root: root}, nil
}

// HTML renders the view's body content back to markup.
func (v *DocumentView) HTML() (string, error) {
	body := findBody(v.root)
	if body == nil {
		return "", fmt.Errorf("rendered content has no body")
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("failed to render content: %w", err)
		}
	}
	return buf.String(), nil
}

// Indicator is one marker on the scrollbar-adjacent track.
type Indicator struct {
	BookmarkID string               `json:"bookmark_id"`
	Fraction   float64              `json:"fraction"`
	Color      domain.BookmarkColor `json:"color"`
	Title      string               `json:"title"`
}

// HighlightRenderer paints transient span highlights, persistent scrollbar
// indicators and the bookmark list. It mutates only the document view it is
// handed, and only for the duration of a flash.
type HighlightRenderer struct {
	logger domain.Logger
}

func NewHighlightRenderer(logger domain.Logger) *HighlightRenderer {
	return &HighlightRenderer{logger: logger}
}

// MarkSpan wraps the span's text in a flash marker. The walk over text nodes
// mirrors the document model builder's segment walk, so span offsets computed
// by the resolver land on the same text.
func (r *HighlightRenderer) MarkSpan(view *DocumentView, span domain.TextSpan) error {
	if span.Len() <= 0 {
		return fmt.Errorf("empty span")
	}

	var target *html.Node
	nodeStart := 0
	offset := 0

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if target != nil || skipSubtree(n) {
			return
		}
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) == "" {
				return
			}
			end := offset + len(n.Data)
			if span.Start < end {
				target = n
				nodeStart = offset
			}
			offset = end
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(view.root)

	if target == nil || target.Parent == nil {
		return fmt.Errorf("span start %d is outside the document text", span.Start)
	}

	local := span.Start - nodeStart
	localEnd := span.End - nodeStart
	if local < 0 || localEnd > len(target.Data) || local >= localEnd {
		return fmt.Errorf("span [%d,%d) does not fit its segment", span.Start, span.End)
	}

	parent := target.Parent
	before := target.Data[:local]
	marked := target.Data[local:localEnd]
	after := target.Data[localEnd:]

	mark := &html.Node{
		Type: html.ElementNode,
		Data: "mark",
		Attr: []html.Attribute{{Key: "class", Val: flashMarkClass}},
	}
	mark.AppendChild(&html.Node{Type: html.TextNode, Data: marked})

	if before != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: before}, target)
	}
	parent.InsertBefore(mark, target)
	if after != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: after}, target)
	}
	parent.RemoveChild(target)
	return nil
}

// UnmarkSpan removes every flash marker from the view and merges the split
// text nodes back together, restoring the pre-mark structure exactly.
func (r *HighlightRenderer) UnmarkSpan(view *DocumentView) {
	var marks []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isFlashMark(n) {
			marks = append(marks, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(view.root)

	for _, mark := range marks {
		parent := mark.Parent
		if parent == nil {
			continue
		}
		for c := mark.FirstChild; c != nil; {
			next := c.NextSibling
			mark.RemoveChild(c)
			parent.InsertBefore(c, mark)
			c = next
		}
		parent.RemoveChild(mark)
		mergeTextChildren(parent)
	}
}

// FlashHTML applies the flash marker to a copy of the rendered content and
// returns the marked markup. A wrapping failure degrades silently to the
// original markup; the reduced fidelity is logged for diagnostics only.
func (r *HighlightRenderer) FlashHTML(renderedHTML string, span domain.TextSpan) (string, bool) {
	view, err := ParseDocumentView(renderedHTML)
	if err != nil {
		r.logger.Debug("Flash highlight degraded to scroll-only", "error", err)
		return renderedHTML, false
	}
	if err := r.MarkSpan(view, span); err != nil {
		r.logger.Debug("Flash highlight degraded to scroll-only", "error", err)
		return renderedHTML, false
	}
	out, err := view.HTML()
	if err != nil {
		r.logger.Debug("Flash highlight degraded to scroll-only", "error", err)
		return renderedHTML, false
	}
	return out, true
}

// Indicators places one marker per bookmark along the scrollbar track at its
// stored scroll fraction.
func (r *HighlightRenderer) Indicators(bookmarks []*domain.Bookmark) []Indicator {
	out := make([]Indicator, 0, len(bookmarks))
	for _, b := range bookmarks {
		fraction := b.Location.ScrollPercentage / 100
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		out = append(out, Indicator{
			BookmarkID: b.ID,
			Fraction:   fraction,
			Color:      b.Color,
			Title:      b.Title,
		})
	}
	return out
}

// RenderList renders the bookmark list fragment with jump and delete
// affordances. Pure presentation: the buttons carry the bookmark id, acting
// on them is the caller's concern.
func (r *HighlightRenderer) RenderList(bookmarks []*domain.Bookmark) string {
	var sb strings.Builder
	sb.WriteString(`<ul class="bookmark-list">`)
	for _, b := range bookmarks {
		sb.WriteString(`<li class="bookmark-item" data-color="`)
		sb.WriteString(html.EscapeString(string(b.Color)))
		sb.WriteString(`">`)
		sb.WriteString(`<span class="bookmark-title">`)
		sb.WriteString(html.EscapeString(b.Title))
		sb.WriteString(`</span>`)
		if b.Description != "" {
			sb.WriteString(`<span class="bookmark-description">`)
			sb.WriteString(html.EscapeString(b.Description))
			sb.WriteString(`</span>`)
		}
		sb.WriteString(fmt.Sprintf(`<button class="bookmark-jump" data-bookmark-id="%s">Jump</button>`, html.EscapeString(b.ID)))
		sb.WriteString(fmt.Sprintf(`<button class="bookmark-delete" data-bookmark-id="%s">Delete</button>`, html.EscapeString(b.ID)))
		sb.WriteString(`</li>`)
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}

func isFlashMark(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "mark" {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" && attr.Val == flashMarkClass {
			return true
		}
	}
	return false
}

func mergeTextChildren(parent *html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if next != nil && c.Type == html.TextNode && next.Type == html.TextNode {
			c.Data += next.Data
			parent.RemoveChild(next)
			continue
		}
		c = next
	}
}

func findBody(root *html.Node) *html.Node {
	var body *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return body
}
