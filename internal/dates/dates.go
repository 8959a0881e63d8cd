package dates

import (
	"regexp"
	"strings"
	"time"
)

// layouts covers RSS, Atom and the agency pages' own formats.
var layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02 Jan 2006 15:04",
	"2 Jan 2006",
	"02-01-2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 02, 2006",
}

var spaces = regexp.MustCompile(`\s+`)

// Parse normalises free-form date text. It reports false for empty or
// unrecognised input and never panics.
func Parse(text string) (time.Time, bool) {
	text = spaces.ReplaceAllString(strings.TrimSpace(text), " ")
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Day truncates t to the calendar day in its own location.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
