package domain

import "strings"

// Filter narrows a list of classified records. Zero values match everything.
type Filter struct {
	Action Verdict
	Agency string
}

// Match reports whether rec passes the filter.
func (f Filter) Match(rec ClassifiedRecord) bool {
	if f.Action != "" && rec.Action != f.Action {
		return false
	}
	if f.Agency != "" && !equalFold(f.Agency, rec.Agency) {
		return false
	}
	return true
}

// Apply returns the records that pass the filter, preserving order.
func (f Filter) Apply(records []ClassifiedRecord) []ClassifiedRecord {
	out := make([]ClassifiedRecord, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// ParseFilter builds a Filter from user input. "All" and "" mean no action
// filter; the plural forms used by the dashboard ("Upgrades") are accepted.
func ParseFilter(action, agency string) Filter {
	f := Filter{Agency: strings.TrimSpace(agency)}
	action = strings.TrimSpace(action)
	if action == "" || equalFold(action, "all") {
		return f
	}
	if v, ok := ParseVerdict(strings.TrimSuffix(action, "s")); ok {
		f.Action = v
		return f
	}
	if v, ok := ParseVerdict(action); ok {
		f.Action = v
	}
	return f
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
