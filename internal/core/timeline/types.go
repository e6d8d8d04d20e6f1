package timeline

// Entry is a single activity event as returned by the backend. Entries are
// immutable once loaded; filtering derives new slices and never rewrites
// the source.
type Entry struct {
	Date        int64  `json:"date"` // Unix milliseconds
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Group is a collection of entries sharing a display date bucket. The
// backend emits groups already ordered by date.
type Group struct {
	Date    int64   `json:"date"` // Unix milliseconds of the bucket
	Entries []Entry `json:"entries"`
}

// DateRange is an inclusive [From, To] bound in Unix milliseconds.
type DateRange struct {
	From int64
	To   int64
}

// Criteria holds the active filter inputs. Zero values mean "not filtering
// on this dimension": empty query, nil range, empty category set.
type Criteria struct {
	Query      string
	Range      *DateRange
	Categories map[string]struct{} // Keys must already be normalized
}

// CategorySet builds a Criteria category set from raw category names,
// normalizing each one.
func CategorySet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[NormalizeCategory(name)] = struct{}{}
	}
	return set
}
