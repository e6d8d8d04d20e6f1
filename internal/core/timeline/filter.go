package timeline

import (
	"strings"
	"unicode"
)

// Filter derives the visible subset of groups for the given criteria. It is
// a pure function of its inputs: the source groups are never mutated and
// the result is rebuilt on every call.
//
// Predicates narrow sequentially: date range first (whole groups), then
// free-text match on descriptions, then category membership. Each step
// drops groups left with no entries. The order only affects how much work
// later steps see, not the result.
func Filter(groups []Group, criteria Criteria) []Group {
	result := groups

	if criteria.Range != nil {
		result = filterByDateRange(result, *criteria.Range)
	}
	if criteria.Query != "" {
		result = filterByQuery(result, criteria.Query)
	}
	if len(criteria.Categories) > 0 {
		result = filterByCategories(result, criteria.Categories)
	}

	if result == nil {
		result = []Group{}
	}
	return result
}

// filterByDateRange keeps groups whose bucket date falls within the
// inclusive bounds. This is a group-level cut: a group outside the range
// is dropped with all its entries.
func filterByDateRange(groups []Group, r DateRange) []Group {
	filtered := make([]Group, 0, len(groups))
	for _, group := range groups {
		if group.Date >= r.From && group.Date <= r.To {
			filtered = append(filtered, group)
		}
	}
	return filtered
}

// filterByQuery keeps entries whose description contains the query as a
// case-insensitive substring, dropping groups left empty.
func filterByQuery(groups []Group, query string) []Group {
	needle := strings.ToLower(query)
	filtered := make([]Group, 0, len(groups))

	for _, group := range groups {
		var kept []Entry
		for _, entry := range group.Entries {
			if strings.Contains(strings.ToLower(entry.Description), needle) {
				kept = append(kept, entry)
			}
		}
		if len(kept) > 0 {
			filtered = append(filtered, Group{Date: group.Date, Entries: kept})
		}
	}
	return filtered
}

// filterByCategories keeps entries whose normalized category is a member
// of the given set, dropping groups left empty.
func filterByCategories(groups []Group, categories map[string]struct{}) []Group {
	filtered := make([]Group, 0, len(groups))

	for _, group := range groups {
		var kept []Entry
		for _, entry := range group.Entries {
			if _, ok := categories[NormalizeCategory(entry.Category)]; ok {
				kept = append(kept, entry)
			}
		}
		if len(kept) > 0 {
			filtered = append(filtered, Group{Date: group.Date, Entries: kept})
		}
	}
	return filtered
}

// NormalizeCategory lowercases a category name and collapses internal
// whitespace runs to single underscores, so "Security  Alert" and
// "security alert" compare equal.
func NormalizeCategory(category string) string {
	var b strings.Builder
	b.Grow(len(category))

	inSpace := false
	for _, r := range strings.TrimSpace(category) {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte('_')
			inSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
