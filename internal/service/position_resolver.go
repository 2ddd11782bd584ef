package service

import (
	"strings"

	"study-tracker/internal/domain"
)

// PositionResolver maps a stored Location onto the current render of the same
// content. Resolution is a priority chain: the stored scroll fraction always
// yields a target, an exact heading match overrides it, and the estimated
// line number stands in only when both stronger signals are missing. The
// snippet search is independent of the scroll target and populates the span.
type PositionResolver struct{}

func NewPositionResolver() *PositionResolver {
	return &PositionResolver{}
}

func (r *PositionResolver) Resolve(location domain.Location, doc *domain.DocumentTextModel) domain.ResolvedTarget {
	scrollTop := location.ScrollPercentage / 100 * doc.ScrollableHeight()

	headingMatched := false
	if location.SectionHeading != "" {
		// First match in document order wins on duplicate headings.
		for _, h := range doc.Headings {
			if h.Text == location.SectionHeading {
				scrollTop = h.VerticalOffset
				headingMatched = true
				break
			}
		}
	}

	// Line-count drift across re-renders is more likely than viewport drift,
	// so the line estimate is used only when the stored fraction is
	// degenerate and no heading matched.
	if !headingMatched && location.ScrollPercentage == 0 && location.LineNumber > 1 {
		totalLines := strings.Count(doc.FullText, "\n") + 1
		if totalLines > 0 {
			fraction := float64(location.LineNumber) / float64(totalLines)
			if fraction > 1 {
				fraction = 1
			}
			scrollTop = fraction * doc.ScrollableHeight()
		}
	}

	return domain.ResolvedTarget{
		ScrollTop: scrollTop,
		Span:      r.findSpan(location.TextSnippet, doc),
	}
}

// findSpan performs a literal substring search for the snippet and maps the
// first match back onto a text segment. When the snippet straddles a segment
// boundary the span is clipped to the containing segment; a partial highlight
// is acceptable degraded behavior, absence of a match is not an error.
func (r *PositionResolver) findSpan(snippet string, doc *domain.DocumentTextModel) *domain.TextSpan {
	if snippet == "" {
		return nil
	}
	start := strings.Index(doc.FullText, snippet)
	if start < 0 {
		return nil
	}
	return locateSpan(doc.Segments, start, len(snippet))
}

// locateSpan walks the ordered text segments accumulating lengths until the
// target offset falls inside one, then clips the span to that segment's
// bounds.
func locateSpan(segments []domain.TextSegment, start, length int) *domain.TextSpan {
	offset := 0
	for _, seg := range segments {
		segEnd := offset + len(seg.Text)
		if start < segEnd {
			end := start + length
			if end > segEnd {
				end = segEnd
			}
			return &domain.TextSpan{
				Start:     start,
				End:       end,
				SegmentID: seg.ID,
			}
		}
		offset = segEnd
	}
	return nil
}
