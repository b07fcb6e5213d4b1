package core

import "math/rand/v2"

// FilterAll is the filter sentinel that selects every category.
const FilterAll = "all"

// MergeResult reports the outcome of a BulkMerge.
type MergeResult struct {
	Added int
}

// Collection is the in-memory, insertion-ordered list of records.
//
// It is not safe for concurrent use. The engine event loop is the only
// goroutine expected to touch it.
type Collection struct {
	records []Record
	intn    func(n int) int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{intn: rand.IntN}
}

// Initialize replaces the in-memory list wholesale.
func (c *Collection) Initialize(seed []Record) {
	c.records = append(make([]Record, 0, len(seed)), seed...)
}

// Add appends a record that the caller has already validated.
// It deliberately does not check for structural duplicates; only BulkMerge does.
func (c *Collection) Add(r Record) {
	c.records = append(c.records, r)
}

// truncate drops every record past the first n. It undoes appends that
// could not be persisted.
func (c *Collection) truncate(n int) {
	if n < len(c.records) {
		clear(c.records[n:])
		c.records = c.records[:n]
	}
}

// BulkMerge appends every candidate that has no structural equal in the
// collection at call time, including candidates appended earlier in the same call.
func (c *Collection) BulkMerge(candidates []Record) MergeResult {
	var res MergeResult
	for _, cand := range candidates {
		if c.Contains(cand) {
			continue
		}
		c.records = append(c.records, cand)
		res.Added++
	}
	return res
}

// Contains reports whether a structurally equal record is present.
func (c *Collection) Contains(r Record) bool {
	for _, existing := range c.records {
		if existing.SameAs(r) {
			return true
		}
	}
	return false
}

// CategoriesInOrder returns the distinct categories in order of first appearance.
func (c *Collection) CategoriesInOrder() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range c.records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// PickRandom draws uniformly from the records matching filter.
// An empty filter or FilterAll selects from the whole collection.
// The boolean is false when nothing matches.
func (c *Collection) PickRandom(filter string) (Record, bool) {
	pool := c.Filter(filter)
	if len(pool) == 0 {
		return Record{}, false
	}
	return pool[c.intn(len(pool))], true
}

// Filter returns a copy of the records in the given category.
// An empty filter or FilterAll returns every record.
func (c *Collection) Filter(filter string) []Record {
	if filter == "" || filter == FilterAll {
		return c.Records()
	}
	var out []Record
	for _, r := range c.records {
		if r.Category == filter {
			out = append(out, r)
		}
	}
	return out
}

// Records returns a copy of the current list.
func (c *Collection) Records() []Record {
	return append([]Record(nil), c.records...)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}
