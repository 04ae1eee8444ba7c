// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package treediff

import (
	"fmt"
	"iter"
)

// Span is the location of a node in the text it was parsed from. It's only used for diagnostics.
type Span struct {
	Start, Length int
}

// End returns the end offset of the span.
func (s Span) End() int { return s.Start + s.Length }

// TreeComparer provides access to a tree representation.
//
// A TreeComparer is used to compare two trees, the old tree and the new tree. Nodes are opaque
// handles and only compared for identity. All methods must be pure and total for nodes of the two
// trees, a TreeComparer that violates this contract (for example, by returning a label out of
// range) results in a panic.
type TreeComparer[N comparable] interface {
	// LabelCount returns the number of distinct labels.
	LabelCount() int

	// Label classifies node. The label must be in [0, LabelCount()) and only nodes of the same
	// label are ever matched.
	Label(node N) int

	// TiedToAncestor returns N > 0 if nodes with the given label can only be matched if their Nth
	// ancestors (1 = parent, 2 = grandparent, ...) are matched to each other. It returns 0 if the
	// label isn't tied to an ancestor.
	//
	// Labels tied to an ancestor are matched after all other labels, in rounds until no new
	// partners are found. A tied label may be tied to an ancestor with another tied label.
	TiedToAncestor(label int) int

	// Children returns the children of node in order, or nil if node is a leaf.
	Children(node N) []N

	// Descendants enumerates all proper descendants of node in depth-first pre-order.
	Descendants(node N) iter.Seq[N]

	// Parent returns the parent of node, or false if node is a root.
	Parent(node N) (N, bool)

	// TreesEqual reports whether a and b belong to the same tree.
	TreesEqual(a, b N) bool

	// Distance returns the distance of two nodes of the same label in [0, 1]. 0 means that the
	// nodes are identical and 1 that they're unrelated.
	Distance(oldNode, newNode N) float64

	// ValuesEqual reports whether the values of two matched nodes are equal. If they are not, the
	// edit script contains an Update edit.
	ValuesEqual(oldNode, newNode N) bool

	// Span returns the location of node. It's only used for diagnostics.
	Span(node N) Span
}

// Ancestor returns the ancestor of node that is level levels above it (1 = parent).
//
// Ancestor panics if the tree doesn't have the requested depth.
func Ancestor[N comparable](c TreeComparer[N], node N, level int) N {
	for level > 0 {
		p, ok := c.Parent(node)
		if !ok {
			panic(fmt.Sprintf("node %v has no ancestor %d levels up", node, level))
		}
		node = p
		level--
	}
	return node
}

// parent returns the parent of node and panics if node is a root.
func parent[N comparable](c TreeComparer[N], node N) N {
	p, ok := c.Parent(node)
	if !ok {
		panic(fmt.Sprintf("node %v has no parent", node))
	}
	return p
}
