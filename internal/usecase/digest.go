package usecase

import (
	"fmt"
	"strings"

	"RatingActionTracker/internal/classifier"
	"RatingActionTracker/internal/domain"
)

// BuildDigest formats the directional moves among records, one per line.
// It returns "" when there is nothing to report.
func BuildDigest(records []domain.ClassifiedRecord, marker classifier.Marker) string {
	var b strings.Builder
	for _, rec := range records {
		if rec.Action != domain.VerdictUpgrade && rec.Action != domain.VerdictDowngrade {
			continue
		}

		fmt.Fprintf(&b, "%s %s: %s", arrow(rec.Action), marker.Plain(rec.Agency),
			classifier.AnnotateWith(rec.Title, rec.Action, marker))
		if move := ratingMove(rec); move != "" {
			fmt.Fprintf(&b, " (%s)", marker.Plain(move))
		}
		if rec.Link != "" {
			fmt.Fprintf(&b, "\n%s", marker.Plain(rec.Link))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

func ratingMove(rec domain.ClassifiedRecord) string {
	from, to := domain.GradeString(rec.OldRating), domain.GradeString(rec.NewRating)
	switch {
	case from != "" && to != "":
		return from + " → " + to
	case to != "":
		return to
	default:
		return ""
	}
}

func arrow(verdict domain.Verdict) string {
	switch verdict {
	case domain.VerdictUpgrade:
		return "▲"
	case domain.VerdictDowngrade:
		return "▼"
	default:
		return "•"
	}
}
