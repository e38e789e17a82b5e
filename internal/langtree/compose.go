// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package langtree

import "github.com/hashicorp/hcl/v2"

// Compose merges independently built fragments into one logical tree. The
// top-level statements of every fragment become statements of a new root
// block, in argument order. Each element keeps the SourceID it was built
// with, so provenance survives the merge. Fragments are expected to have
// been built with non-overlapping offsets.
func Compose(source SourceID, fragments ...*Result) *Result {
	total := 1
	for _, f := range fragments {
		if f != nil && f.Tree != nil {
			total += f.Tree.Len()
		}
	}

	elements := make([]Element, 1, total)
	elements[0] = Element{
		Kind:     KindBlock,
		Source:   source,
		Receiver: NoNode,
		Target:   NoNode,
		Value:    NoNode,
		Body:     NoNode,
	}

	var (
		statements []NodeID
		failures   hcl.Diagnostics
		span       hcl.Range
		haveSpan   bool
	)
	for _, f := range fragments {
		if f == nil || f.Tree == nil {
			continue
		}
		root := f.Tree.Get(f.Root)
		// A fragment's root block is replaced by the composed root, so it is
		// not copied and the IDs after it close the gap.
		dropRoot := root.Kind == KindBlock

		remap := make([]NodeID, f.Tree.Len())
		next := NodeID(len(elements))
		for i := range remap {
			if dropRoot && NodeID(i) == f.Root {
				remap[i] = NoNode
				continue
			}
			remap[i] = next
			next++
		}
		shift := func(id NodeID) NodeID {
			if id == NoNode {
				return NoNode
			}
			return remap[id]
		}
		shiftAll := func(ids []NodeID) []NodeID {
			if ids == nil {
				return nil
			}
			out := make([]NodeID, len(ids))
			for i, id := range ids {
				out[i] = shift(id)
			}
			return out
		}

		for i, e := range f.Tree.elements {
			if remap[i] == NoNode {
				continue
			}
			e.Receiver = shift(e.Receiver)
			e.Target = shift(e.Target)
			e.Value = shift(e.Value)
			e.Body = shift(e.Body)
			e.Statements = shiftAll(e.Statements)
			e.Arguments = shiftAll(e.Arguments)
			elements = append(elements, e)
		}

		if dropRoot {
			statements = append(statements, shiftAll(root.Statements)...)
		} else {
			statements = append(statements, shift(f.Root))
		}
		failures = append(failures, f.Failures...)

		if !haveSpan {
			span, haveSpan = root.Range, true
		} else if root.Range.Filename == span.Filename {
			span = hcl.RangeOver(span, root.Range)
		}
	}

	elements[0].Statements = statements
	elements[0].Range = span
	return &Result{
		Tree:     &Tree{elements: elements},
		Root:     0,
		Failures: failures,
	}
}
