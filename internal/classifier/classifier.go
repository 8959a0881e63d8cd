package classifier

import (
	"log/slog"
	"strings"

	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/rating"
)

// keyword is a lexical trigger; the list order is the priority.
type keyword struct {
	phrase  string
	verdict domain.Verdict
}

var keywords = []keyword{
	{"downgrade", domain.VerdictDowngrade},
	{"revised downwards", domain.VerdictDowngrade},
	{"revised downward", domain.VerdictDowngrade},
	{"upgrade", domain.VerdictUpgrade},
	{"revised upwards", domain.VerdictUpgrade},
	{"revised upward", domain.VerdictUpgrade},
	{"reaffirm", domain.VerdictReaffirmed},
}

// Result is the outcome of classifying one text.
type Result struct {
	Verdict  domain.Verdict
	Old      *rating.Grade
	New      *rating.Grade
	Evidence domain.Evidence

	// Keyword is the lexical signal, empty when no trigger matched.
	Keyword domain.Verdict
}

// Conflicting reports whether the keyword and the rating pair disagreed.
func (r Result) Conflicting() bool {
	return r.Evidence == domain.ConflictingEvidence
}

// Classifier turns press-release text into a verdict. The zero value is
// usable and silent; set a logger to surface conflicting evidence.
type Classifier struct {
	logger *slog.Logger
}

// New builds a classifier that reports conflicts to log (may be nil).
func New(log *slog.Logger) *Classifier {
	return &Classifier{logger: log}
}

// Classify never fails: empty or unrelated text yields Unknown with no grades.
func (c *Classifier) Classify(text string) Result {
	kw := detectKeyword(text)
	from, to := ratingPair(rating.FindAll(text))

	res := Result{Old: from, New: to, Keyword: kw}
	res.Verdict, res.Evidence = reconcile(kw, from, to)

	if res.Evidence == domain.ConflictingEvidence {
		c.warn("conflicting rating evidence",
			"text", text,
			"keyword", string(kw),
			"ratings_verdict", string(pairVerdict(from, to)),
			"verdict", string(res.Verdict),
		)
	}

	return res
}

// Classify runs a silent classifier over text.
func Classify(text string) Result {
	var c Classifier
	return c.Classify(text)
}

// Record derives a ClassifiedRecord from raw; raw itself is not modified.
func (c *Classifier) Record(raw domain.RawRecord) domain.ClassifiedRecord {
	res := c.Classify(raw.Text())
	return domain.ClassifiedRecord{
		RawRecord:      raw,
		Action:         res.Verdict,
		OldRating:      res.Old,
		NewRating:      res.New,
		Evidence:       res.Evidence,
		AnnotatedTitle: Annotate(raw.Title, res.Verdict),
	}
}

func detectKeyword(text string) domain.Verdict {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw.phrase) {
			return kw.verdict
		}
	}
	return ""
}

func ratingPair(matches []rating.Match) (from, to *rating.Grade) {
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		g := matches[0].Grade
		return nil, &g
	default:
		o, n := matches[0].Grade, matches[1].Grade
		return &o, &n
	}
}

// pairVerdict maps the structural signal; empty when there is no pair.
func pairVerdict(from, to *rating.Grade) domain.Verdict {
	if from == nil || to == nil {
		return ""
	}
	switch rating.Compare(*from, *to) {
	case rating.Upgrade:
		return domain.VerdictUpgrade
	case rating.Downgrade:
		return domain.VerdictDowngrade
	case rating.Unchanged:
		return domain.VerdictUnchanged
	default:
		return domain.VerdictUnknown
	}
}

// reconcile applies the rules in priority order: an explicit reaffirmation,
// then a rating pair (which overrides the keyword), then a directional
// keyword, else Unknown.
func reconcile(kw domain.Verdict, from, to *rating.Grade) (domain.Verdict, domain.Evidence) {
	pv := pairVerdict(from, to)
	hasRating := to != nil

	switch {
	case kw == domain.VerdictReaffirmed:
		switch pv {
		case domain.VerdictUpgrade, domain.VerdictDowngrade:
			return domain.VerdictReaffirmed, domain.ConflictingEvidence
		case domain.VerdictUnchanged:
			return domain.VerdictReaffirmed, domain.FullAgreement
		}
		return domain.VerdictReaffirmed, domain.PartialEvidence

	case pv != "":
		switch {
		case kw == "":
			return pv, domain.PartialEvidence
		case kw == pv:
			return pv, domain.FullAgreement
		default:
			return pv, domain.ConflictingEvidence
		}

	case kw == domain.VerdictUpgrade || kw == domain.VerdictDowngrade:
		return kw, domain.PartialEvidence

	case hasRating:
		return domain.VerdictUnknown, domain.PartialEvidence
	}

	return domain.VerdictUnknown, domain.NoEvidence
}

func (c *Classifier) warn(msg string, args ...any) {
	if c != nil && c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
