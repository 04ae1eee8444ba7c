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
	"math"

	"znkr.io/treediff/internal/config"
	"znkr.io/treediff/internal/lcs"
)

// Match is a partial one-to-one mapping between the nodes of an old tree and the nodes of a new
// tree. A node matched to a node of the other tree is called its partner.
//
// A Match is computed once by [NewMatch] and never changes afterwards. It's safe for concurrent
// use as long as the trees aren't modified.
type Match[N comparable] struct {
	comparer         TreeComparer[N]
	oldRoot, newRoot N
	oneToTwo         map[N]N
	twoToOne         map[N]N
	known            map[N]struct{} // old nodes of known matches
}

// NewMatch computes the match between the trees rooted at oldRoot and newRoot.
//
// The roots are always partners, regardless of their labels. All pairs in knownMatches are
// partners too; a pair is skipped if one of its nodes already has a partner (e.g. the roots).
// NewMatch panics if a known pair consists of nodes with different labels or if its nodes are not
// from the old and new tree respectively.
//
// The remaining nodes are matched label by label, labels tied to an ancestor last. Tied labels
// are processed in rounds until no new partners are found, so that a node is only left unmatched
// if its ancestor has no partner. For each label the candidates are searched in multiple passes
// with increasing distance thresholds (0.00001, 0.5, 1, 1.5, 2; capped by [MaxDistance]), so that
// close partners are found before partners that are further away. Within a pass, old nodes are
// visited in depth-first pre-order and each takes the unmatched new node of the same label with
// the smallest distance. Ties are broken in favor of a candidate whose parent is the partner of the
// old node's parent and then in favor of the candidate first in pre-order of the new tree.
//
// The following options are supported: [MaxDistance], [CheckInvariants]
func NewMatch[N comparable](oldRoot, newRoot N, c TreeComparer[N], knownMatches []Pair[N], opts ...Option) *Match[N] {
	cfg := config.FromOptions(opts, config.MaxDistanceFlag|config.CheckInvariantsFlag)

	labelCount := c.LabelCount()
	nodes1, count1 := categorize(c, oldRoot, labelCount)
	nodes2, count2 := categorize(c, newRoot, labelCount)

	m := &Match[N]{
		comparer: c,
		oldRoot:  oldRoot,
		newRoot:  newRoot,
		oneToTwo: make(map[N]N, min(count1, count2)+1),
		twoToOne: make(map[N]N, min(count1, count2)+1),
	}

	// Roots always match. They are added before the known matches to make sure the root mapping
	// can't be overridden.
	m.add(oldRoot, newRoot)

	for _, km := range knownMatches {
		if !c.TreesEqual(km.Old, oldRoot) {
			panic(fmt.Sprintf("known match: node %v must be contained in the old tree", km.Old))
		}
		if !c.TreesEqual(km.New, newRoot) {
			panic(fmt.Sprintf("known match: node %v must be contained in the new tree", km.New))
		}
		if m.HasPartnerInTree2(km.Old) || m.HasPartnerInTree1(km.New) {
			continue
		}
		if c.Label(km.Old) != c.Label(km.New) {
			panic(fmt.Sprintf("known match: nodes %v and %v must have the same label", km.Old, km.New))
		}
		if m.known == nil {
			m.known = make(map[N]struct{})
		}
		m.known[km.Old] = struct{}{}
		m.add(km.Old, km.New)
	}

	m.compute(nodes1, nodes2, cfg.Thresholds())

	if cfg.CheckInvariants {
		m.check()
	}
	return m
}

// categorize groups all proper descendants of root by label. The nodes of every group are in
// depth-first pre-order, which guarantees that a node is visited after its ancestors of the same
// label.
func categorize[N comparable](c TreeComparer[N], root N, labelCount int) (nodes [][]N, count int) {
	nodes = make([][]N, labelCount)
	for node := range c.Descendants(root) {
		label := c.Label(node)
		if label < 0 || label >= labelCount {
			panic(fmt.Sprintf("label %d of node %v is invalid, it must be within [0, %d)", label, node, labelCount))
		}
		nodes[label] = append(nodes[label], node)
		count++
	}
	return nodes, count
}

func (m *Match[N]) compute(nodes1, nodes2 [][]N, thresholds []float64) {
	for label := range nodes1 {
		if m.comparer.TiedToAncestor(label) == 0 {
			m.matchPasses(nodes1[label], nodes2[label], 0, thresholds)
		}
	}

	// Labels tied to an ancestor depend on the matches of their ancestors, and an ancestor may
	// have a tied label with a higher number. Repeat until a round finds no new partners.
	for {
		matched := m.Len()
		for label := range nodes1 {
			if tiedToAncestor := m.comparer.TiedToAncestor(label); tiedToAncestor > 0 {
				m.matchPasses(nodes1[label], nodes2[label], tiedToAncestor, thresholds)
			}
		}
		if m.Len() == matched {
			return
		}
	}
}

// matchPasses matches the nodes s1 and s2 of the same label with increasing thresholds.
func (m *Match[N]) matchPasses(s1, s2 []N, tiedToAncestor int, thresholds []float64) {
	if len(s1) == 0 || len(s2) == 0 {
		return
	}
	for _, maxAcceptable := range thresholds {
		if !m.matchLabel(s1, s2, tiedToAncestor, maxAcceptable) {
			return
		}
	}
}

// matchLabel runs one matching pass for the nodes s1 and s2 of the same label. It returns false if
// there's nothing left to match for this label.
func (m *Match[N]) matchLabel(s1, s2 []N, tiedToAncestor int, maxAcceptable float64) bool {
	c := m.comparer

	// All nodes in s2[:first2] have a partner. In the common case where both lists are almost
	// identical, first2 advances together with the nodes in s1 and the pass takes linear time.
	first2 := 0
	unmatched1 := false
	for _, node1 := range s1 {
		if m.HasPartnerInTree2(node1) {
			continue
		}
		for first2 < len(s2) && m.HasPartnerInTree1(s2[first2]) {
			first2++
		}
		if first2 == len(s2) {
			return false
		}

		var ancestor1 N
		if tiedToAncestor > 0 {
			var ok bool
			ancestor1, ok = ancestor(c, node1, tiedToAncestor)
			if !ok || !m.HasPartnerInTree2(ancestor1) {
				continue
			}
		}
		context1, hasContext1 := m.PartnerInTree2(parent(c, node1))

		best := -1
		bestDistance := math.Inf(1)
		bestContext := false
		for i2 := first2; i2 < len(s2); i2++ {
			node2 := s2[i2]
			if m.HasPartnerInTree1(node2) {
				continue
			}

			// Nodes tied to their ancestors can only be matched if the ancestors are matched. This
			// requires ancestors to be processed first: they either have a label that isn't tied
			// or they appear earlier in pre-order.
			if tiedToAncestor > 0 {
				ancestor2, ok := ancestor(c, node2, tiedToAncestor)
				if !ok || !m.Contains(ancestor1, ancestor2) {
					continue
				}
			}

			distance := c.Distance(node1, node2)
			if !(distance >= 0 && distance <= 1) {
				panic(fmt.Sprintf("distance %v between %v and %v is invalid, it must be within [0, 1]", distance, node1, node2))
			}
			context := hasContext1 && parent(c, node2) == context1
			if distance < bestDistance || distance == bestDistance && context && !bestContext {
				best, bestDistance, bestContext = i2, distance, context

				// An exact match in the same context can't be improved upon. Other exact matches
				// keep looking, two nodes can have the same value but a different context (e.g.
				// two locals with the same name in different blocks).
				if distance == config.ExactMatchDistance && context {
					break
				}
			}
		}

		if best >= 0 && bestDistance <= maxAcceptable {
			m.add(node1, s2[best])
		} else {
			unmatched1 = true
		}
	}
	return unmatched1
}

func (m *Match[N]) add(node1, node2 N) {
	m.oneToTwo[node1] = node2
	m.twoToOne[node2] = node1
}

// ancestor is like [Ancestor] but returns false instead of panicking.
func ancestor[N comparable](c TreeComparer[N], node N, level int) (N, bool) {
	for ; level > 0; level-- {
		p, ok := c.Parent(node)
		if !ok {
			return p, false
		}
		node = p
	}
	return node, true
}

// Comparer returns the comparer used to compute the match.
func (m *Match[N]) Comparer() TreeComparer[N] { return m.comparer }

// OldRoot returns the root of the old tree.
func (m *Match[N]) OldRoot() N { return m.oldRoot }

// NewRoot returns the root of the new tree.
func (m *Match[N]) NewRoot() N { return m.newRoot }

// Len returns the number of matched pairs, including the roots.
func (m *Match[N]) Len() int { return len(m.oneToTwo) }

// PartnerInTree1 returns the partner of a node of the new tree.
func (m *Match[N]) PartnerInTree1(newNode N) (N, bool) {
	n, ok := m.twoToOne[newNode]
	return n, ok
}

// PartnerInTree2 returns the partner of a node of the old tree.
func (m *Match[N]) PartnerInTree2(oldNode N) (N, bool) {
	n, ok := m.oneToTwo[oldNode]
	return n, ok
}

// HasPartnerInTree1 reports whether a node of the new tree has a partner.
func (m *Match[N]) HasPartnerInTree1(newNode N) bool {
	_, ok := m.twoToOne[newNode]
	return ok
}

// HasPartnerInTree2 reports whether a node of the old tree has a partner.
func (m *Match[N]) HasPartnerInTree2(oldNode N) bool {
	_, ok := m.oneToTwo[oldNode]
	return ok
}

// Contains reports whether oldNode and newNode are partners.
func (m *Match[N]) Contains(oldNode, newNode N) bool {
	n, ok := m.oneToTwo[oldNode]
	return ok && n == newNode
}

// Pairs returns all matched pairs ordered by the old node in depth-first pre-order.
func (m *Match[N]) Pairs() iter.Seq2[N, N] {
	return func(yield func(N, N) bool) {
		if !yield(m.oldRoot, m.oneToTwo[m.oldRoot]) {
			return
		}
		for node := range m.comparer.Descendants(m.oldRoot) {
			if partner, ok := m.oneToTwo[node]; ok {
				if !yield(node, partner) {
					return
				}
			}
		}
	}
}

// EditScript computes the edit script that transforms the old tree into the new tree.
func (m *Match[N]) EditScript() *EditScript[N] {
	return NewEditScript(m)
}

// SequenceEdits aligns two ordered lists of nodes, oldNodes from the old tree and newNodes from the
// new tree. Two nodes are aligned if they are partners.
//
// Aligned nodes are reported as Update, regardless of their values, all others as Insert or
// Delete. The edits are ordered like the input lists.
func (m *Match[N]) SequenceEdits(oldNodes, newNodes []N) []Edit[N] {
	steps := lcs.Steps(len(oldNodes), len(newNodes), func(s, t int) bool {
		return m.Contains(oldNodes[s], newNodes[t])
	})
	if steps == nil {
		return nil
	}
	out := make([]Edit[N], len(steps))
	for i, st := range steps {
		switch {
		case st.S < 0:
			out[i] = Edit[N]{Kind: Insert, NewNode: newNodes[st.T]}
		case st.T < 0:
			out[i] = Edit[N]{Kind: Delete, OldNode: oldNodes[st.S]}
		default:
			out[i] = Edit[N]{Kind: Update, OldNode: oldNodes[st.S], NewNode: newNodes[st.T]}
		}
	}
	return out
}

// check verifies the structural invariants of the match and panics if one is violated.
func (m *Match[N]) check() {
	c := m.comparer
	checkTree(c, m.oldRoot)
	checkTree(c, m.newRoot)

	if len(m.oneToTwo) != len(m.twoToOne) {
		panic(fmt.Sprintf("match is not one-to-one: %d old nodes map to %d new nodes", len(m.oneToTwo), len(m.twoToOne)))
	}
	for node1, node2 := range m.oneToTwo {
		if back, ok := m.twoToOne[node2]; !ok || back != node1 {
			panic(fmt.Sprintf("match is not one-to-one: %v -> %v -> %v", node1, node2, back))
		}
		if !c.TreesEqual(node1, m.oldRoot) || !c.TreesEqual(node2, m.newRoot) {
			panic(fmt.Sprintf("matched nodes %v and %v are not from the old and new tree", node1, node2))
		}
		if node1 == m.oldRoot {
			continue
		}
		label := c.Label(node1)
		if label != c.Label(node2) {
			panic(fmt.Sprintf("matched nodes %v and %v have different labels", node1, node2))
		}
		if _, ok := m.known[node1]; ok {
			continue
		}
		if n := c.TiedToAncestor(label); n > 0 {
			a1, ok1 := ancestor(c, node1, n)
			a2, ok2 := ancestor(c, node2, n)
			if !ok1 || !ok2 || !m.Contains(a1, a2) {
				panic(fmt.Sprintf("matched nodes %v and %v are tied to ancestors that don't match", node1, node2))
			}
		}
	}
}

// checkTree verifies that Children, Parent and Descendants are consistent for the tree rooted at
// root.
func checkTree[N comparable](c TreeComparer[N], root N) {
	visited := 0
	stack := []N{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range c.Children(node) {
			if p, ok := c.Parent(child); !ok || p != node {
				panic(fmt.Sprintf("parent of %v is %v, want %v", child, p, node))
			}
			if !c.TreesEqual(child, root) {
				panic(fmt.Sprintf("child %v is not in the same tree as %v", child, root))
			}
			stack = append(stack, child)
			visited++
		}
	}
	descendants := 0
	for range c.Descendants(root) {
		descendants++
	}
	if descendants != visited {
		panic(fmt.Sprintf("%v has %d descendants but %d nodes are reachable through children", root, descendants, visited))
	}
}
