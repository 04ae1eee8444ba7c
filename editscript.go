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
	"slices"

	"znkr.io/treediff/internal/lcs"
)

// EditScript is the sequence of edits that transforms the old tree of a match into the new tree.
//
// The implementation follows the edit script algorithm from "Change Detection in Hierarchically
// Structured Information" (Chawathe et al.), with the following differences:
//   - The match isn't extended and the old tree isn't transformed while edits are generated, the
//     edit script is derived from the match alone.
//   - Insert and Move edits don't carry the position of the node relative to its new parent, so
//     there's no FindPos and no in-order marks.
//   - Reorder is a separate edit kind for nodes that stay with their parent but change their
//     position among their siblings.
type EditScript[N comparable] struct {
	match *Match[N]
	edits []Edit[N]
}

// NewEditScript computes the edit script for a match.
//
// The edits are ordered as follows: First, all Insert, Update, Move, and Reorder edits in
// breadth-first order of the new tree; a node's Update and Move edits precede the Reorder edits of
// its children. Then, all Delete edits in depth-first post-order of the old tree.
//
// Matched nodes with equal values, matched parents, and preserved sibling order don't produce an
// edit.
func NewEditScript[N comparable](m *Match[N]) *EditScript[N] {
	s := &EditScript[N]{match: m}
	s.addUpdatesInsertsMoves()
	s.addDeletes()
	return s
}

// Diff computes the edit script that transforms the tree rooted at oldRoot into the tree rooted at
// newRoot.
//
// The following options are supported: [MaxDistance], [CheckInvariants]
func Diff[N comparable](oldRoot, newRoot N, c TreeComparer[N], opts ...Option) []Edit[N] {
	return NewMatch(oldRoot, newRoot, c, nil, opts...).EditScript().edits
}

// Match returns the match the edit script was derived from.
func (s *EditScript[N]) Match() *Match[N] { return s.match }

// Edits returns the edits.
func (s *EditScript[N]) Edits() []Edit[N] { return slices.Clone(s.edits) }

func (s *EditScript[N]) addUpdatesInsertsMoves() {
	c := s.match.comparer

	// Breadth-first traversal of the new tree.
	queue := []N{s.match.newRoot}
	for i := 0; i < len(queue); i++ {
		x := queue[i]
		s.processNode(x)
		queue = append(queue, c.Children(x)...)
	}
}

func (s *EditScript[N]) processNode(x N) {
	m, c := s.match, s.match.comparer

	// Let x be the current node in the breadth-first traversal of the new tree, and y its parent.
	w, hasPartner := m.PartnerInTree1(x)
	y, hasParent := c.Parent(x)

	if !hasPartner {
		// x has no partner: it's inserted. An inserted node has no children in the old tree, so
		// there's nothing to align.
		s.edits = append(s.edits, Edit[N]{Kind: Insert, NewNode: x})
		return
	}

	if hasParent {
		// Let w be the partner of x and v the parent of w.
		v := parent(c, w)

		// The comparer decides which differences in node values are relevant.
		if !c.ValuesEqual(w, x) {
			s.edits = append(s.edits, Edit[N]{Kind: Update, OldNode: w, NewNode: x})
		}

		// If the parents of w and x don't match, w was moved.
		if !m.Contains(v, y) {
			s.edits = append(s.edits, Edit[N]{Kind: Move, OldNode: w, NewNode: x})
		}
	}

	s.alignChildren(w, x)
}

// alignChildren emits Reorder edits for the children of w that stay children of its partner x but
// aren't part of the longest common subsequence of the matched children.
func (s *EditScript[N]) alignChildren(w, x N) {
	m, c := s.match, s.match.comparer

	wChildren := c.Children(w)
	xChildren := c.Children(x)
	if len(wChildren) == 0 || len(xChildren) == 0 {
		return
	}

	// Let s1 be the children of w whose partners are children of x, and s2 the children of x
	// whose partners are children of w.
	var s1 []N
	for _, a := range wChildren {
		if b, ok := m.PartnerInTree2(a); ok && parent(c, b) == x {
			s1 = append(s1, a)
		}
	}
	if len(s1) == 0 {
		return
	}
	var s2 []N
	for _, b := range xChildren {
		if a, ok := m.PartnerInTree1(b); ok && parent(c, a) == w {
			s2 = append(s2, b)
		}
	}

	// s1 and s2 contain the same pairs, the longest common subsequence of partners is the largest
	// set of children that kept their relative order. Every other child is reordered.
	inOrder := make([]bool, len(s1))
	for _, p := range lcs.Pairs(len(s1), len(s2), func(i, j int) bool { return m.Contains(s1[i], s2[j]) }) {
		inOrder[p.S] = true
	}
	for i, a := range s1 {
		if !inOrder[i] {
			s.edits = append(s.edits, Edit[N]{Kind: Reorder, OldNode: a, NewNode: m.oneToTwo[a]})
		}
	}
}

func (s *EditScript[N]) addDeletes() {
	m, c := s.match, s.match.comparer

	// Depth-first post-order traversal of the old tree.
	type frame struct {
		node     N
		children []N
		next     int
	}
	stack := []frame{{node: m.oldRoot, children: c.Children(m.oldRoot)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.children) {
			child := top.children[top.next]
			top.next++
			stack = append(stack, frame{node: child, children: c.Children(child)})
			continue
		}
		w := top.node
		stack = stack[:len(stack)-1]
		if !m.HasPartnerInTree2(w) {
			s.edits = append(s.edits, Edit[N]{Kind: Delete, OldNode: w})
		}
	}
}
