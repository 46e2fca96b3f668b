package dashboard

// MaxHistory is how many recent searches are kept.
const MaxHistory = 5

// History is the recent-search list, most recent first, without duplicates.
type History []string

// Record returns h with city prepended when it is not already present,
// truncated to MaxHistory, and whether anything changed. A city already in
// the list keeps its position.
func (h History) Record(city string) (History, bool) {
	for _, existing := range h {
		if existing == city {
			return h, false
		}
	}

	out := make(History, 0, MaxHistory)
	out = append(out, city)
	for _, existing := range h {
		if len(out) == MaxHistory {
			break
		}
		out = append(out, existing)
	}
	return out, true
}

// normalize drops blanks and duplicates from a persisted list and enforces
// MaxHistory. A hand-edited state file is the only way these appear.
func (h History) normalize() History {
	out := make(History, 0, len(h))
	seen := make(map[string]struct{}, len(h))
	for _, city := range h {
		if city == "" {
			continue
		}
		if _, dup := seen[city]; dup {
			continue
		}
		seen[city] = struct{}{}
		out = append(out, city)
		if len(out) == MaxHistory {
			break
		}
	}
	return out
}
