package classifier

import (
	"html"
	"strings"

	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/rating"
)

// Marker renders one matched grade. Plain is applied to the text between
// matches.
type Marker interface {
	Mark(symbol string, verdict domain.Verdict) string
	Plain(text string) string
}

// HTMLMarker wraps grades in bold spans coloured by verdict and escapes the
// rest of the title.
type HTMLMarker struct{}

// Mark implements Marker.
func (HTMLMarker) Mark(symbol string, verdict domain.Verdict) string {
	escaped := html.EscapeString(symbol)
	switch verdict {
	case domain.VerdictUpgrade:
		return `<b style="color: green">` + escaped + `</b>`
	case domain.VerdictDowngrade:
		return `<b style="color: red">` + escaped + `</b>`
	default:
		return `<b>` + escaped + `</b>`
	}
}

// Plain implements Marker.
func (HTMLMarker) Plain(text string) string {
	return html.EscapeString(text)
}

// Annotate returns title as HTML with every grade marked for verdict.
func Annotate(title string, verdict domain.Verdict) string {
	return AnnotateWith(title, verdict, HTMLMarker{})
}

// AnnotateWith marks exactly the spans rating.FindAll reports, so the display
// never drifts from what was classified.
func AnnotateWith(title string, verdict domain.Verdict, m Marker) string {
	matches := rating.FindAll(title)
	if len(matches) == 0 {
		return m.Plain(title)
	}

	var b strings.Builder
	last := 0
	for _, match := range matches {
		b.WriteString(m.Plain(title[last:match.Start]))
		b.WriteString(m.Mark(title[match.Start:match.End], verdict))
		last = match.End
	}
	b.WriteString(m.Plain(title[last:]))

	return b.String()
}
