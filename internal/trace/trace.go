// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package trace applies the override policy to the assignments a document
// makes: for every (object path, property) pair the write with the greatest
// source position wins, and earlier writes are kept as overridden so tooling
// can point at dead assignments.
package trace

import (
	"sort"

	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/specialistvlad/dclfront/internal/resolution"
	"github.com/specialistvlad/dclfront/internal/schema"
)

// Key identifies a property of one object of the graph.
type Key struct {
	Owner    string
	Property string
}

// Entry is the assignment history of one property.
type Entry struct {
	Owner     objpath.Path
	OwnerType *schema.Type
	Property  *schema.Property
	// Candidates holds every write in source order; the last one is Effective.
	Candidates []resolution.Assignment
	Effective  resolution.Assignment
}

// Key returns the entry's key.
func (e *Entry) Key() Key {
	return Key{Owner: e.Owner.String(), Property: e.Property.Name}
}

// Overridden returns the candidates that lost to the effective assignment.
func (e *Entry) Overridden() []resolution.Assignment {
	return e.Candidates[:len(e.Candidates)-1]
}

// Trace is the override-applied assignment history of a document.
type Trace struct {
	entries []*Entry
	index   map[Key]*Entry
}

// Build groups the successful assignments of res. Assignments whose target
// failed to resolve never reach res.Assignments, so they are not part of the
// trace.
func Build(res *resolution.Result) *Trace {
	t := &Trace{index: make(map[Key]*Entry)}
	for _, a := range res.Assignments {
		k := Key{Owner: a.Owner.String(), Property: a.Property.Name}
		e, ok := t.index[k]
		if !ok {
			e = &Entry{Owner: a.Owner, OwnerType: a.OwnerType, Property: a.Property}
			t.index[k] = e
			t.entries = append(t.entries, e)
		}
		e.Candidates = append(e.Candidates, a)
	}

	for _, e := range t.entries {
		sort.SliceStable(e.Candidates, func(i, j int) bool {
			return before(e.Candidates[i], e.Candidates[j])
		})
		e.Effective = e.Candidates[len(e.Candidates)-1]
	}
	return t
}

// before orders writes by source position. Ties, which only happen for
// synthetic ranges, fall back to node order.
func before(a, b resolution.Assignment) bool {
	if a.Range.Start.Byte != b.Range.Start.Byte {
		return a.Range.Start.Byte < b.Range.Start.Byte
	}
	return a.Node < b.Node
}

// Entries returns every entry in order of first appearance.
func (t *Trace) Entries() []*Entry {
	return append([]*Entry(nil), t.entries...)
}

// Len returns the number of entries.
func (t *Trace) Len() int {
	return len(t.entries)
}

// Lookup returns the entry for a property of the object at owner.
func (t *Trace) Lookup(owner objpath.Path, property string) (*Entry, bool) {
	e, ok := t.index[Key{Owner: owner.String(), Property: property}]
	return e, ok
}

// Overridden returns every overridden write of the document in source order.
func (t *Trace) Overridden() []resolution.Assignment {
	var out []resolution.Assignment
	for _, e := range t.entries {
		out = append(out, e.Overridden()...)
	}
	sort.SliceStable(out, func(i, j int) bool { return before(out[i], out[j]) })
	return out
}
