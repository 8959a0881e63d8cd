package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexOf(t *testing.T) {
	t.Parallel()

	for want, g := range Grades() {
		got, ok := IndexOf(string(g))
		require.True(t, ok, "grade %s", g)
		assert.Equal(t, want, got)
	}

	for _, symbol := range []string{"AAA", "bbb", "BBBB", "", "B ", "CCC"} {
		_, ok := IndexOf(symbol)
		assert.False(t, ok, "symbol %q", symbol)
	}
}

func TestCompareIsAntisymmetric(t *testing.T) {
	t.Parallel()

	grades := Grades()
	for _, a := range grades {
		assert.Equal(t, Unchanged, Compare(a, a), "grade %s", a)
		for _, b := range grades {
			if a == b {
				continue
			}
			ab, ba := Compare(a, b), Compare(b, a)
			assert.Equal(t, ab == Upgrade, ba == Downgrade, "%s -> %s", a, b)
			assert.Equal(t, ab == Downgrade, ba == Upgrade, "%s -> %s", a, b)
		}
	}
}

func TestCompareDirection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Upgrade, Compare(BBMinus, BBBPlus))
	assert.Equal(t, Downgrade, Compare(BBB, BB))
	assert.Equal(t, Incomparable, Compare("AAA", BB))
	assert.Equal(t, Incomparable, Compare(BB, "D"))
}

func TestFindAllLongestMatch(t *testing.T) {
	t.Parallel()

	text := "rating moved from BB to BBB"
	matches := FindAll(text)
	require.Len(t, matches, 2)
	assert.Equal(t, BB, matches[0].Grade)
	assert.Equal(t, BBB, matches[1].Grade)
	assert.Equal(t, "BBB", text[matches[1].Start:matches[1].End])
}

func TestFindAllTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Grade
	}{
		{name: "empty", text: "", want: nil},
		{name: "modifiers", text: "CRISIL BBB-/Stable to CRISIL BB+/Negative", want: []Grade{BBBMinus, BBPlus}},
		{name: "inside words", text: "Bank of BBBX and ABB Ltd", want: nil},
		{name: "outside band", text: "AAA to AA+", want: nil},
		{name: "lowercase ignored", text: "bbb to bb", want: nil},
		{name: "single B", text: "Category B bonds rated B+", want: []Grade{B, BPlus}},
		{name: "parenthesised", text: "(BBB+) and [B-]", want: []Grade{BBBPlus, BMinus}},
		{name: "modifier glued to word", text: "BB+Stable", want: nil},
		{name: "hyphenated word", text: "BB-rated bonds, B+ABC and BBB-", want: []Grade{BBBMinus}},
		{name: "modifier then punctuation", text: "BB+, B-.", want: []Grade{BBPlus, BMinus}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []Grade
			for _, m := range FindAll(tt.text) {
				got = append(got, m.Grade)
				assert.Equal(t, string(m.Grade), tt.text[m.Start:m.End])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
