package rating

// Match is one grade occurrence in a text, as a byte span [Start, End).
type Match struct {
	Grade Grade
	Start int
	End   int
}

// longestFirst is the try order at each position so that "BBB" is never
// consumed as "BB" followed by "B".
var longestFirst = [...]Grade{BBBPlus, BBBMinus, BBB, BBPlus, BBMinus, BB, BPlus, BMinus, B}

// FindAll scans text left to right and returns every non-overlapping grade
// that stands as a whole token. Classification and annotation both use it.
func FindAll(text string) []Match {
	var matches []Match

	for i := 0; i < len(text); {
		if text[i] != 'B' || (i > 0 && isWordByte(text[i-1])) {
			i++
			continue
		}

		m, ok := matchAt(text, i)
		if !ok {
			i++
			continue
		}
		matches = append(matches, m)
		i = m.End
	}

	return matches
}

// matchAt takes the longest grade spelled at pos. If a word character follows
// it the position yields nothing: "BB-rated" is not a shorter "BB".
func matchAt(text string, pos int) (Match, bool) {
	for _, g := range longestFirst {
		end := pos + len(g)
		if end > len(text) || text[pos:end] != string(g) {
			continue
		}
		if end < len(text) && isWordByte(text[end]) {
			return Match{}, false
		}
		return Match{Grade: g, Start: pos, End: end}, true
	}
	return Match{}, false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
