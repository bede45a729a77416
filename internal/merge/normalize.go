package merge

import "strings"

// Keyed is a source record joined on its unit name.
type Keyed[T any] interface {
	UnitKey() string
	WithUnitKey(key string) T
}

// Combinable is a Keyed record whose duplicates can be summed.
type Combinable[T any] interface {
	Keyed[T]
	Combine(other T) T
}

// NormalizeKey strips leading and trailing whitespace from a unit name.
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// Normalize returns a copy of rows with every unit key trimmed.
func Normalize[T Keyed[T]](rows []T) []T {
	if rows == nil {
		return nil
	}
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.WithUnitKey(NormalizeKey(r.UnitKey()))
	}
	return out
}

// Aggregate normalizes rows and collapses rows sharing a key into one,
// preserving first-seen order.
func Aggregate[T Combinable[T]](rows []T) []T {
	rows = Normalize(rows)
	index := make(map[string]int, len(rows))
	var out []T
	for _, r := range rows {
		if i, ok := index[r.UnitKey()]; ok {
			out[i] = out[i].Combine(r)
			continue
		}
		index[r.UnitKey()] = len(out)
		out = append(out, r)
	}
	return out
}
