package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"RatingActionTracker/internal/classifier"
	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/rating"
)

func TestBuildDigest(t *testing.T) {
	t.Parallel()

	bb := rating.BB
	recs := []domain.ClassifiedRecord{
		{
			RawRecord: domain.RawRecord{Agency: "CARE", Title: "CARE upgrades PQR to BB", Link: "https://x/1"},
			Action:    domain.VerdictUpgrade,
			NewRating: &bb,
		},
		{
			RawRecord: domain.RawRecord{Agency: "CARE", Title: "CARE reaffirms BB"},
			Action:    domain.VerdictReaffirmed,
		},
	}

	got := BuildDigest(recs, classifier.HTMLMarker{})
	assert.Equal(t, "▲ CARE: CARE upgrades PQR to <b style=\"color: green\">BB</b> (BB)\nhttps://x/1", got)
	assert.Empty(t, BuildDigest(recs[1:], classifier.HTMLMarker{}))
}
