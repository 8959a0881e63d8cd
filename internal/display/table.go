package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"RatingActionTracker/internal/classifier"
	"RatingActionTracker/internal/domain"
)

var (
	upStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	downStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

const titleWidth = 72

// TerminalMarker colours grades with ANSI styles; the colour profile of the
// output decides whether escapes are emitted at all.
type TerminalMarker struct{}

// Mark implements classifier.Marker.
func (TerminalMarker) Mark(symbol string, verdict domain.Verdict) string {
	return verdictStyle(verdict).Render(symbol)
}

// Plain implements classifier.Marker.
func (TerminalMarker) Plain(text string) string {
	return text
}

func verdictStyle(verdict domain.Verdict) lipgloss.Style {
	switch verdict {
	case domain.VerdictUpgrade:
		return upStyle
	case domain.VerdictDowngrade:
		return downStyle
	default:
		return boldStyle
	}
}

// RenderTable prints records as a bordered table with annotated titles.
func RenderTable(w io.Writer, records []domain.ClassifiedRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found. Try again later.")
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		date := "-"
		if rec.Dated() {
			date = rec.PublishedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{
			date,
			rec.Agency,
			verdictStyle(rec.Action).Render(string(rec.Action)),
			domain.GradeString(rec.OldRating),
			domain.GradeString(rec.NewRating),
			classifier.AnnotateWith(truncate(rec.Title, titleWidth), rec.Action, TerminalMarker{}),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Date", "Agency", "Action", "Old", "New", "Title").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderResult prints a single classification for the classify command.
func RenderResult(w io.Writer, text string, res classifier.Result) error {
	_, err := fmt.Fprintf(w, "%s\nverdict:  %s\nold:      %s\nnew:      %s\nevidence: %s\n",
		classifier.AnnotateWith(text, res.Verdict, TerminalMarker{}),
		verdictStyle(res.Verdict).Render(string(res.Verdict)),
		orDash(domain.GradeString(res.Old)),
		orDash(domain.GradeString(res.New)),
		res.Evidence,
	)
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to n runes. Cutting through a grade symbol only drops
// it from the marked output, never mislabels it.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
