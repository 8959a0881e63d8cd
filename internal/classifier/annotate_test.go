package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/rating"
)

// spanRecorder tracks the byte offsets of every marked span.
type spanRecorder struct {
	offset int
	spans  [][2]int
}

func (r *spanRecorder) Mark(symbol string, _ domain.Verdict) string {
	r.spans = append(r.spans, [2]int{r.offset, r.offset + len(symbol)})
	r.offset += len(symbol)
	return symbol
}

func (r *spanRecorder) Plain(text string) string {
	r.offset += len(text)
	return text
}

func TestAnnotateMarksSameSpansAsClassification(t *testing.T) {
	t.Parallel()

	titles := []string{
		"",
		"rating moved from BB to BBB",
		"CRISIL BBB-/Stable downgraded to CRISIL BB+/Negative; B facilities",
		"ABB Ltd rated (BBB+) after Bank review",
		"BBBB and B+B and BB",
		"BB-rated notes, B+ABC and BB+/Stable",
	}

	for _, title := range titles {
		rec := &spanRecorder{}
		out := AnnotateWith(title, domain.VerdictUnknown, rec)
		assert.Equal(t, title, out)

		var want [][2]int
		for _, m := range rating.FindAll(title) {
			want = append(want, [2]int{m.Start, m.End})
		}
		assert.Equal(t, want, rec.spans, "title %q", title)
	}
}

func TestAnnotateHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`Cut from <b style="color: red">BBB</b> to <b style="color: red">BB</b>`,
		Annotate("Cut from BBB to BB", domain.VerdictDowngrade),
	)
	assert.Equal(t,
		`Upgrade from <b style="color: green">BB-</b> to <b style="color: green">BBB+</b>`,
		Annotate("Upgrade from BB- to BBB+", domain.VerdictUpgrade),
	)
	assert.Equal(t,
		`Held at <b>BB+</b> &amp; stable`,
		Annotate("Held at BB+ & stable", domain.VerdictReaffirmed),
	)
	assert.Equal(t, "no grades &lt;here&gt;", Annotate("no grades <here>", domain.VerdictUnknown))
}
