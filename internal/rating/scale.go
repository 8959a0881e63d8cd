package rating

// Grade is one of the tracked letter grades.
type Grade string

const (
	BMinus   Grade = "B-"
	B        Grade = "B"
	BPlus    Grade = "B+"
	BBMinus  Grade = "BB-"
	BB       Grade = "BB"
	BBPlus   Grade = "BB+"
	BBBMinus Grade = "BBB-"
	BBB      Grade = "BBB"
	BBBPlus  Grade = "BBB+"
)

const noIndex = -1

// scale is ordered weakest first; the index is the ordinal.
var scale = [...]Grade{BMinus, B, BPlus, BBMinus, BB, BBPlus, BBBMinus, BBB, BBBPlus}

// Movement is the direction between two grades.
type Movement int

const (
	Incomparable Movement = iota
	Unchanged
	Upgrade
	Downgrade
)

func (m Movement) String() string {
	switch m {
	case Unchanged:
		return "Unchanged"
	case Upgrade:
		return "Upgrade"
	case Downgrade:
		return "Downgrade"
	default:
		return "Incomparable"
	}
}

// Grades returns the scale, weakest first.
func Grades() []Grade {
	out := make([]Grade, len(scale))
	copy(out, scale[:])
	return out
}

// IndexOf returns the ordinal of symbol. Matching is exact and case-sensitive.
func IndexOf(symbol string) (int, bool) {
	for i, g := range scale {
		if string(g) == symbol {
			return i, true
		}
	}
	return noIndex, false
}

// Valid reports whether g belongs to the scale.
func (g Grade) Valid() bool {
	_, ok := IndexOf(string(g))
	return ok
}

// Compare classifies the move from one grade to another.
func Compare(from, to Grade) Movement {
	oi, ok := IndexOf(string(from))
	if !ok {
		return Incomparable
	}
	ni, ok := IndexOf(string(to))
	if !ok {
		return Incomparable
	}

	switch {
	case ni == oi:
		return Unchanged
	case ni > oi:
		return Upgrade
	default:
		return Downgrade
	}
}
