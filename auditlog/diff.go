// Package auditlog records field-level change history for mutated entities.
package auditlog

import (
	"sort"

	"github.com/google/go-cmp/cmp"
)

// Changes holds the per-field before/after values of one mutation. A field
// appears in both maps or in neither.
type Changes struct {
	Old map[string]interface{} `json:"old"`
	New map[string]interface{} `json:"new"`
}

// IsEmpty reports whether no tracked field changed.
func (c Changes) IsEmpty() bool {
	return len(c.New) == 0
}

// Snapshot is an entity's tracked fields captured before or after a
// mutation. Scalar fields hold plain values; tag-like relation fields hold
// the collection's member names as a []string.
type Snapshot map[string]interface{}

// Diff compares two snapshots field by field. Scalar fields are compared by
// value equality. Relation fields are tag-like, name-bearing and order
// insensitive: they are compared as sorted name sets, and recorded as sorted
// slices when they differ.
func Diff(oldSnapshot, newSnapshot Snapshot, scalarFields, relationFields []string) Changes {
	changes := Changes{
		Old: map[string]interface{}{},
		New: map[string]interface{}{},
	}

	for _, field := range scalarFields {
		if oldSnapshot[field] != newSnapshot[field] {
			changes.Old[field] = oldSnapshot[field]
			changes.New[field] = newSnapshot[field]
		}
	}

	for _, field := range relationFields {
		oldNames := sortedNames(oldSnapshot[field])
		newNames := sortedNames(newSnapshot[field])
		if !cmp.Equal(oldNames, newNames) {
			changes.Old[field] = oldNames
			changes.New[field] = newNames
		}
	}

	return changes
}

func sortedNames(value interface{}) []string {
	names, ok := value.([]string)
	if !ok {
		return []string{}
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return sorted
}
