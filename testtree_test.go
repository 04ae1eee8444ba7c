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
	"iter"
	"slices"
	"strings"
	"testing"
)

// testNode is a node of a test tree. Test trees are written as
//
//	Label=value(Child Child=value(...))
//
// where the value and the children are optional.
type testNode struct {
	label    string
	value    string
	parent   *testNode
	children []*testNode
	tree     int
	pos      int // position in pre-order
}

func (n *testNode) String() string {
	if n.value == "" {
		return n.label
	}
	return n.label + "=" + n.value
}

// parseTree parses a test tree, tree identifies the tree for TreesEqual.
func parseTree(t testing.TB, tree int, s string) *testNode {
	t.Helper()
	p := &treeParser{s: s, tree: tree}
	n := p.node(nil)
	p.skipSpace()
	if p.err != "" || p.i != len(p.s) {
		t.Fatalf("invalid test tree %q at offset %d: %s", s, p.i, p.err)
	}
	return n
}

type treeParser struct {
	s    string
	i    int
	tree int
	pos  int
	err  string
}

func (p *treeParser) skipSpace() {
	for p.i < len(p.s) && p.s[p.i] == ' ' {
		p.i++
	}
}

func (p *treeParser) ident() string {
	start := p.i
	for p.i < len(p.s) && !strings.ContainsRune(" =()", rune(p.s[p.i])) {
		p.i++
	}
	return p.s[start:p.i]
}

func (p *treeParser) node(parent *testNode) *testNode {
	p.skipSpace()
	n := &testNode{parent: parent, tree: p.tree, pos: p.pos}
	p.pos++
	if n.label = p.ident(); n.label == "" {
		p.err = "missing label"
		return n
	}
	if p.i < len(p.s) && p.s[p.i] == '=' {
		p.i++
		n.value = p.ident()
	}
	if p.i < len(p.s) && p.s[p.i] == '(' {
		p.i++
		for {
			p.skipSpace()
			if p.i >= len(p.s) {
				p.err = "missing )"
				return n
			}
			if p.s[p.i] == ')' {
				p.i++
				break
			}
			n.children = append(n.children, p.node(n))
			if p.err != "" {
				return n
			}
		}
	}
	return n
}

// preorder returns all nodes of the tree rooted at n in pre-order, including n.
func preorder(n *testNode) []*testNode {
	out := []*testNode{n}
	for _, c := range n.children {
		out = append(out, preorder(c)...)
	}
	return out
}

// testComparer compares test trees. Labels are numbered in the order of the labels slice.
type testComparer struct {
	labels []string
	tied   map[string]int
}

var _ TreeComparer[*testNode] = (*testComparer)(nil)

func (c *testComparer) LabelCount() int { return len(c.labels) }

func (c *testComparer) Label(n *testNode) int { return slices.Index(c.labels, n.label) }

func (c *testComparer) TiedToAncestor(label int) int { return c.tied[c.labels[label]] }

func (c *testComparer) Children(n *testNode) []*testNode { return n.children }

func (c *testComparer) Descendants(n *testNode) iter.Seq[*testNode] {
	return func(yield func(*testNode) bool) {
		for _, d := range preorder(n)[1:] {
			if !yield(d) {
				return
			}
		}
	}
}

func (c *testComparer) Parent(n *testNode) (*testNode, bool) { return n.parent, n.parent != nil }

func (c *testComparer) TreesEqual(a, b *testNode) bool { return a.tree == b.tree }

// Distance is the average of the value distance (0 or 1) and the distance of the children, where
// two children are equal if they have the same label and value. Leaves only use the value distance.
func (c *testComparer) Distance(a, b *testNode) float64 {
	var valueDistance float64
	if a.value != b.value {
		valueDistance = 1
	}
	if len(a.children) == 0 && len(b.children) == 0 {
		return valueDistance
	}
	l := LongestCommonSubsequence[[]*testNode]{
		ItemsEqual: func(x []*testNode, i int, y []*testNode, j int) bool {
			return x[i].label == y[j].label && x[i].value == y[j].value
		},
	}
	childDistance := l.Distance(a.children, len(a.children), b.children, len(b.children))
	return (valueDistance + childDistance) / 2
}

func (c *testComparer) ValuesEqual(a, b *testNode) bool { return a.value == b.value }

func (c *testComparer) Span(n *testNode) Span { return Span{n.pos, 1} }

// defaultLabels are the labels used by most tests.
var defaultLabels = []string{"Root", "Block", "Outer", "Inner", "Try", "Using", "P", "Q", "Stmt", "Catch", "X", "If", "Else", "Elsif"}

func render[N comparable](edits []Edit[N]) []string {
	var out []string
	for _, e := range edits {
		out = append(out, e.String())
	}
	return out
}
