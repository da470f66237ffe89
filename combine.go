package bitwise

import mapset "github.com/deckarep/golang-set/v2"

// Union returns every raw value that holds at least one of the given flags, broadened
// against each value of the mapping. Duplicates are removed, the first occurrence is kept.
//
//	mapping {slots: 1, credits: 2, empty: 0}
//	Union(1, 2) => [1, 3, 2]
func (c *Codec) Union(inputs ...any) ([]Raw, error) {
	values, err := c.flatten(inputs)
	if err != nil {
		return nil, err
	}
	table := newCandidateTable(len(values) * c.mapping.Len())
	for _, v := range values {
		for _, entry := range c.mapping.entries {
			table.add(v | entry.Value)
		}
	}
	return table.values, nil
}

// Intersection returns the raw values that hold all of the given flags together. The inputs are
// collapsed into a single mask first, then broadened against each value of the mapping.
// It is not a set intersection of the inputs.
//
//	mapping {slots: 1, credits: 2, empty: 0}
//	Intersection(1, 2) => [3]
func (c *Codec) Intersection(inputs ...any) ([]Raw, error) {
	reduced, err := c.Encode(inputs...)
	if err != nil {
		return nil, err
	}
	table := newCandidateTable(c.mapping.Len())
	for _, entry := range c.mapping.entries {
		table.add(reduced | entry.Value)
	}
	return table.values, nil
}

// ordered list of unique raw values
type candidateTable struct {
	seen   mapset.Set[Raw]
	values []Raw
}

func newCandidateTable(capacity int) *candidateTable {
	return &candidateTable{
		seen:   mapset.NewThreadUnsafeSetWithSize[Raw](capacity),
		values: make([]Raw, 0, capacity),
	}
}

func (t *candidateTable) add(v Raw) {
	if t.seen.Add(v) {
		t.values = append(t.values, v)
	}
}
