package service

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"study-tracker/internal/domain"
)

// DocumentModelBuilder turns one render pass of a piece of content into a
// read-only DocumentTextModel: full text, text segments and headings in
// document order, plus the viewport geometry the client measured.
//
// The rendered view has no real layout server-side, so heading vertical
// offsets are estimated from each heading's character position as a fraction
// of the full text, scaled to the reported scroll height. The estimate is
// deterministic for a fixed (source, viewport) pair.
type DocumentModelBuilder struct{}

func NewDocumentModelBuilder() *DocumentModelBuilder {
	return &DocumentModelBuilder{}
}

type headingMark struct {
	level     int
	charStart int
	text      string
}

// Build parses rendered HTML and assembles the document text model.
func (b *DocumentModelBuilder) Build(id domain.ContentIdentifier, renderedHTML []byte, viewport domain.ViewportState) (*domain.DocumentTextModel, error) {
	root, err := html.Parse(strings.NewReader(string(renderedHTML)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered content: %w", err)
	}

	var (
		fullText strings.Builder
		segments []domain.TextSegment
		headings []headingMark
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if skipSubtree(n) {
			return
		}
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) != "" {
				segments = append(segments, domain.TextSegment{
					ID:   fmt.Sprintf("seg-%d", len(segments)),
					Text: n.Data,
				})
				fullText.WriteString(n.Data)
			}
			return
		}
		if level := headingLevel(n); level > 0 {
			headings = append(headings, headingMark{
				level:     level,
				charStart: fullText.Len(),
				text:      strings.TrimSpace(textContent(n)),
			})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	text := fullText.Len()
	model := &domain.DocumentTextModel{
		ContentID:    id,
		FullText:     fullText.String(),
		Segments:     segments,
		ScrollHeight: viewport.ScrollHeight,
		ClientHeight: viewport.ClientHeight,
	}
	for _, h := range headings {
		offset := 0.0
		if text > 0 {
			offset = float64(h.charStart) / float64(text) * viewport.ScrollHeight
		}
		model.Headings = append(model.Headings, domain.Heading{
			Text:           h.text,
			Level:          h.level,
			VerticalOffset: offset,
		})
	}
	return model, nil
}

// skipSubtree reports whether a node and everything under it carries no
// user-visible text.
func skipSubtree(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "script", "style", "head", "noscript":
		return true
	}
	return false
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.Data {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// textContent returns the concatenated text of a subtree, in document order.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if skipSubtree(n) {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
