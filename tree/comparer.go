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

package tree

import (
	"fmt"
	"iter"
	"sync"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/treediff"
)

const (
	defaultValueWeight = 0.5
	defaultMaxLeaves   = 512
)

// Comparer implements [treediff.TreeComparer] for trees that share a [Schema].
//
// The distance of two leaves is the normalized Levenshtein distance of their values. The distance
// of two inner nodes combines the distance of their values with the distance of the sequences of
// leaves below them (by kind and value), weighted by [ValueWeight]. Inner nodes without values
// only use the leaf distance.
//
// A Comparer caches the leaves of inner nodes and is safe for concurrent use. [Comparer.Diff]
// drops the cache when it's done; callers using the comparer with [treediff.NewMatch] directly
// call [Comparer.Reset] once they're done with the trees.
type Comparer struct {
	schema      *Schema
	valueWeight float64
	maxLeaves   int
	dmp         *diffmatchpatch.DiffMatchPatch

	mu     sync.Mutex
	leaves map[Node][]Node
}

var _ treediff.TreeComparer[Node] = (*Comparer)(nil)

// ComparerOption configures a [Comparer].
type ComparerOption func(*Comparer)

// ValueWeight sets the weight of the value distance for inner nodes, w must be in [0, 1]. The
// leaf distance is weighted with 1-w. The default is 0.5.
func ValueWeight(w float64) ComparerOption {
	if !(w >= 0 && w <= 1) {
		panic(fmt.Sprintf("tree.ValueWeight must be within [0, 1], got %v", w))
	}
	return func(c *Comparer) { c.valueWeight = w }
}

// MaxLeaves limits the number of leaves of an inner node that take part in the leaf distance.
// Leaves beyond the limit are ignored. The default is 512.
func MaxLeaves(n int) ComparerOption {
	if n <= 0 {
		panic(fmt.Sprintf("tree.MaxLeaves must be positive, got %d", n))
	}
	return func(c *Comparer) { c.maxLeaves = n }
}

// NewComparer returns a comparer for trees built with schema. All kinds must be registered with
// the schema before the comparer is used.
func NewComparer(schema *Schema, opts ...ComparerOption) *Comparer {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // deterministic results
	c := &Comparer{
		schema:      schema,
		valueWeight: defaultValueWeight,
		maxLeaves:   defaultMaxLeaves,
		dmp:         dmp,
		leaves:      make(map[Node][]Node),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Diff computes the edit script between two trees that share the comparer's schema.
func (c *Comparer) Diff(oldTree, newTree *Tree, opts ...treediff.Option) []treediff.Edit[Node] {
	if oldTree.schema != c.schema || newTree.schema != c.schema {
		panic("trees must be built with the comparer's schema")
	}
	defer c.Reset()
	return treediff.Diff(oldTree.Root(), newTree.Root(), c, opts...)
}

// Reset drops all cached leaves.
func (c *Comparer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.leaves)
}

func (c *Comparer) LabelCount() int { return c.schema.Len() }

func (c *Comparer) Label(n Node) int { return n.Label() }

func (c *Comparer) TiedToAncestor(label int) int { return c.schema.TiedToAncestor(label) }

func (c *Comparer) Children(n Node) []Node { return n.Children() }

func (c *Comparer) Descendants(n Node) iter.Seq[Node] { return n.Descendants() }

func (c *Comparer) Parent(n Node) (Node, bool) { return n.Parent() }

func (c *Comparer) TreesEqual(a, b Node) bool { return a.t == b.t }

func (c *Comparer) ValuesEqual(a, b Node) bool { return a.Value() == b.Value() }

func (c *Comparer) Span(n Node) treediff.Span { return n.Span() }

func (c *Comparer) Distance(a, b Node) float64 {
	if a.IsLeaf() && b.IsLeaf() {
		return c.ValueDistance(a.Value(), b.Value())
	}
	leafDistance := c.leafDistance(a, b)
	if a.Value() == "" && b.Value() == "" {
		return leafDistance
	}
	return c.valueWeight*c.ValueDistance(a.Value(), b.Value()) + (1-c.valueWeight)*leafDistance
}

// ValueDistance returns the Levenshtein distance of x and y in runes, divided by the length of
// the longer string. The distance of two empty strings is 0.
func (c *Comparer) ValueDistance(x, y string) float64 {
	if x == y {
		return 0
	}
	n := max(utf8.RuneCountInString(x), utf8.RuneCountInString(y))
	d := c.dmp.DiffLevenshtein(c.dmp.DiffMain(x, y, false))
	return min(1, float64(d)/float64(n))
}

var leafLCS = treediff.LongestCommonSubsequence[[]Node]{
	ItemsEqual: func(x []Node, i int, y []Node, j int) bool {
		return x[i].Label() == y[j].Label() && x[i].Value() == y[j].Value()
	},
}

func (c *Comparer) leafDistance(a, b Node) float64 {
	la, lb := c.leavesOf(a), c.leavesOf(b)
	return leafLCS.Distance(la, len(la), lb, len(lb))
}

func (c *Comparer) leavesOf(n Node) []Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.leaves[n]; ok {
		return l
	}
	var l []Node
	for leaf := range n.Leaves() {
		if len(l) == c.maxLeaves {
			break
		}
		l = append(l, leaf)
	}
	c.leaves[n] = l
	return l
}
