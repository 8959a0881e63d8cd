package domain

import (
	"time"

	"RatingActionTracker/internal/rating"
)

// RawRecord is one press release as handed over by a scanner.
type RawRecord struct {
	Agency   string
	Title    string
	Summary  string
	DateText string
	Link     string
}

// Text joins title and summary in the order the classifier expects.
func (r RawRecord) Text() string {
	if r.Summary == "" {
		return r.Title
	}
	return r.Title + " " + r.Summary
}

// Verdict is the final judgement about a press release.
type Verdict string

const (
	VerdictUpgrade    Verdict = "Upgrade"
	VerdictDowngrade  Verdict = "Downgrade"
	VerdictReaffirmed Verdict = "Reaffirmed"
	VerdictUnchanged  Verdict = "Unchanged"
	VerdictUnknown    Verdict = "Unknown"
)

// Verdicts lists every verdict in display order.
func Verdicts() []Verdict {
	return []Verdict{VerdictUpgrade, VerdictDowngrade, VerdictReaffirmed, VerdictUnchanged, VerdictUnknown}
}

// ParseVerdict maps a case-insensitive name to a Verdict.
func ParseVerdict(s string) (Verdict, bool) {
	for _, v := range Verdicts() {
		if equalFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

// Evidence describes how the keyword and rating-pair signals related.
type Evidence string

const (
	NoEvidence          Evidence = "none"
	PartialEvidence     Evidence = "partial"
	ConflictingEvidence Evidence = "conflicting"
	FullAgreement       Evidence = "agreement"
)

// ClassifiedRecord is a RawRecord with the classifier's output attached.
type ClassifiedRecord struct {
	RawRecord

	Action    Verdict
	OldRating *rating.Grade
	NewRating *rating.Grade
	Evidence  Evidence

	AnnotatedTitle string
	PublishedAt    time.Time
}

// Dated reports whether the date collaborator managed to parse DateText.
func (c ClassifiedRecord) Dated() bool {
	return !c.PublishedAt.IsZero()
}

// GradeString renders an optional grade, empty when absent.
func GradeString(g *rating.Grade) string {
	if g == nil {
		return ""
	}
	return string(*g)
}

// Key identifies a press release across refreshes: the link when present,
// otherwise agency and title.
func (r RawRecord) Key() string {
	if r.Link != "" {
		return r.Link
	}
	return r.Agency + ":" + r.Title
}
