package service

import (
	"math"
	"strings"

	"study-tracker/internal/domain"
)

const (
	// A heading slightly below the viewport top still counts as the current
	// section.
	headingLookAhead = 100.0

	snippetMaxLen = 100
)

// PositionEncoder produces a Location from the live document model and the
// client's viewport snapshot. Encode is pure and never fails: a missing
// heading or selection degrades the corresponding field to empty, not to an
// error.
type PositionEncoder struct{}

func NewPositionEncoder() *PositionEncoder {
	return &PositionEncoder{}
}

func (e *PositionEncoder) Encode(doc *domain.DocumentTextModel, viewport domain.ViewportState, selectedText string) domain.Location {
	pct := 0.0
	if scrollable := viewport.ScrollableHeight(); scrollable > 0 {
		pct = viewport.ScrollTop / scrollable * 100
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
	}

	heading := ""
	for _, h := range doc.Headings {
		if h.VerticalOffset <= viewport.ScrollTop+headingLookAhead {
			heading = h.Text
		}
	}

	totalLines := strings.Count(doc.FullText, "\n") + 1
	lineNumber := int(math.Round(pct / 100 * float64(totalLines)))
	if lineNumber < 1 {
		lineNumber = 1
	}

	charOffset := int(math.Round(pct / 100 * float64(len(doc.FullText))))

	return domain.Location{
		ScrollPercentage: pct,
		SectionHeading:   heading,
		LineNumber:       lineNumber,
		TextSnippet:      truncateRunes(selectedText, snippetMaxLen),
		CharacterOffset:  charOffset,
	}
}

// truncateRunes cuts s to at most max runes without splitting a multi-byte
// character.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
