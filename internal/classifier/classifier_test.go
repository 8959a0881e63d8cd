package classifier

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/rating"
)

func grade(g rating.Grade) *rating.Grade { return &g }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		verdict  domain.Verdict
		from     *rating.Grade
		to       *rating.Grade
		evidence domain.Evidence
	}{
		{
			name:     "empty",
			text:     "",
			verdict:  domain.VerdictUnknown,
			evidence: domain.NoEvidence,
		},
		{
			name:     "downgrade with pair",
			text:     "CRISIL downgrades XYZ Ltd from BBB to BB",
			verdict:  domain.VerdictDowngrade,
			from:     grade(rating.BBB),
			to:       grade(rating.BB),
			evidence: domain.FullAgreement,
		},
		{
			name:     "upgrade with pair",
			text:     "ICRA upgrades ABC from BB- to BBB+",
			verdict:  domain.VerdictUpgrade,
			from:     grade(rating.BBMinus),
			to:       grade(rating.BBBPlus),
			evidence: domain.FullAgreement,
		},
		{
			name:     "reaffirmed single rating",
			text:     "CARE reaffirms rating at BB+",
			verdict:  domain.VerdictReaffirmed,
			to:       grade(rating.BBPlus),
			evidence: domain.PartialEvidence,
		},
		{
			name:     "pair without keyword",
			text:     "rating moved from BB to BBB",
			verdict:  domain.VerdictUpgrade,
			from:     grade(rating.BB),
			to:       grade(rating.BBB),
			evidence: domain.PartialEvidence,
		},
		{
			name:     "equal pair overrides keyword",
			text:     "XYZ upgraded; rating revised from BBB to BBB",
			verdict:  domain.VerdictUnchanged,
			from:     grade(rating.BBB),
			to:       grade(rating.BBB),
			evidence: domain.ConflictingEvidence,
		},
		{
			name:     "pair direction overrides keyword",
			text:     "Outlook upgraded, rating moved from BBB to BB-",
			verdict:  domain.VerdictDowngrade,
			from:     grade(rating.BBB),
			to:       grade(rating.BBMinus),
			evidence: domain.ConflictingEvidence,
		},
		{
			name:     "keyword only",
			text:     "Rating on DEF Ltd revised downwards on weak liquidity",
			verdict:  domain.VerdictDowngrade,
			evidence: domain.PartialEvidence,
		},
		{
			name:     "keyword with single rating",
			text:     "PQR Ltd upgraded to BBB-",
			verdict:  domain.VerdictUpgrade,
			to:       grade(rating.BBBMinus),
			evidence: domain.PartialEvidence,
		},
		{
			name:     "downgrade keyword wins over upgrade keyword",
			text:     "Upgrade hopes fade as agency downgrades MNO",
			verdict:  domain.VerdictDowngrade,
			evidence: domain.PartialEvidence,
		},
		{
			name:     "single rating without keyword",
			text:     "CARE assigns BB to new bank facilities",
			verdict:  domain.VerdictUnknown,
			to:       grade(rating.BB),
			evidence: domain.PartialEvidence,
		},
		{
			name:     "ratings outside band",
			text:     "Agency affirms AAA and AA+ ratings",
			verdict:  domain.VerdictUnknown,
			evidence: domain.NoEvidence,
		},
		{
			name:     "outside band with keyword",
			text:     "Agency upgrades STU to AAA from AA+",
			verdict:  domain.VerdictUpgrade,
			evidence: domain.PartialEvidence,
		},
		{
			name:     "third rating ignored",
			text:     "Downgrade from BBB+ to BBB; BB watch",
			verdict:  domain.VerdictDowngrade,
			from:     grade(rating.BBBPlus),
			to:       grade(rating.BBB),
			evidence: domain.FullAgreement,
		},
		{
			name:     "reaffirm with equal pair",
			text:     "Rating reaffirmed at BB; earlier BB",
			verdict:  domain.VerdictReaffirmed,
			from:     grade(rating.BB),
			to:       grade(rating.BB),
			evidence: domain.FullAgreement,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.text)
			assert.Equal(t, tt.verdict, got.Verdict)
			assert.Equal(t, tt.from, got.Old)
			assert.Equal(t, tt.to, got.New)
			assert.Equal(t, tt.evidence, got.Evidence)
		})
	}
}

func TestClassifyLogsConflicts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := New(slog.New(slog.NewTextHandler(&buf, nil)))

	res := c.Classify("XYZ upgraded; rating revised from BBB to BBB")
	require.True(t, res.Conflicting())
	assert.Equal(t, domain.VerdictUpgrade, res.Keyword)
	assert.Contains(t, buf.String(), "conflicting rating evidence")
	assert.Contains(t, buf.String(), "ratings_verdict=Unchanged")

	buf.Reset()
	c.Classify("CRISIL downgrades XYZ Ltd from BBB to BB")
	assert.Empty(t, buf.String())
}

func TestRecordKeepsRawInput(t *testing.T) {
	t.Parallel()

	raw := domain.RawRecord{
		Agency:   "CRISIL",
		Title:    "CRISIL downgrades XYZ Ltd",
		Summary:  "Rating revised from BBB to BB",
		DateText: "Mon, 06 Oct 2025 10:00:00 +0530",
		Link:     "https://example.org/pr/1",
	}

	rec := New(nil).Record(raw)
	assert.Equal(t, raw, rec.RawRecord)
	assert.Equal(t, domain.VerdictDowngrade, rec.Action)
	assert.Equal(t, "BBB", domain.GradeString(rec.OldRating))
	assert.Equal(t, "BB", domain.GradeString(rec.NewRating))
	assert.Equal(t, "CRISIL downgrades XYZ Ltd", rec.AnnotatedTitle)
}
