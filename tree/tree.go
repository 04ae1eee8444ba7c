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

// Package tree provides a labeled, ordered tree that can be compared with [treediff].
//
// Nodes are stored in an arena in depth-first pre-order and referenced by [Node] handles. A Node
// is a small comparable value, it can be used as a map key and as the node type of
// [treediff.TreeComparer].
package tree

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"znkr.io/treediff"
)

// ErrMalformed is returned when a tree can't be built because the builder calls are unbalanced
// or the tree notation is invalid.
var ErrMalformed = errors.New("malformed tree")

type node struct {
	label    int
	value    string
	span     treediff.Span
	parent   int32 // -1 for the root
	end      int32 // descendants are in (id, end)
	children []Node
}

// Tree is an immutable labeled, ordered tree.
type Tree struct {
	schema *Schema
	nodes  []node
}

// Node is a handle to a node in a [Tree]. The zero Node is invalid.
type Node struct {
	t  *Tree
	id int32
}

// Schema returns the schema the tree was built with.
func (t *Tree) Schema() *Schema { return t.schema }

// Root returns the root node.
func (t *Tree) Root() Node { return Node{t, 0} }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// All returns all nodes of the tree in depth-first pre-order.
func (t *Tree) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for id := range t.nodes {
			if !yield(Node{t, int32(id)}) {
				return
			}
		}
	}
}

// Dump writes an indented representation of the tree to w, one node per line.
func (t *Tree) Dump(w io.Writer) error {
	var sb strings.Builder
	depth := make([]int, len(t.nodes))
	for id, n := range t.nodes {
		if n.parent >= 0 {
			depth[id] = depth[n.parent] + 1
		}
		sb.WriteString(strings.Repeat("  ", depth[id]))
		sb.WriteString(t.schema.Kind(n.label))
		if n.value != "" {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Quote(n.value))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Tree) String() string {
	var sb strings.Builder
	_ = t.Dump(&sb)
	return sb.String()
}

func (n Node) node() *node {
	if n.t == nil {
		panic("invalid node")
	}
	return &n.t.nodes[n.id]
}

// IsValid reports whether n refers to a node.
func (n Node) IsValid() bool { return n.t != nil }

// Tree returns the tree n belongs to.
func (n Node) Tree() *Tree { return n.t }

// ID returns the position of n in depth-first pre-order.
func (n Node) ID() int { return int(n.id) }

// Label returns the label of n.
func (n Node) Label() int { return n.node().label }

// Kind returns the kind of n.
func (n Node) Kind() string { return n.t.schema.Kind(n.node().label) }

// Value returns the value of n. Inner nodes usually have no value.
func (n Node) Value() string { return n.node().value }

// Span returns the location of n in its source.
func (n Node) Span() treediff.Span { return n.node().span }

// Children returns the children of n. The returned slice must not be modified.
func (n Node) Children() []Node { return n.node().children }

// IsLeaf reports whether n has no children.
func (n Node) IsLeaf() bool { return len(n.node().children) == 0 }

// Parent returns the parent of n, or false if n is the root.
func (n Node) Parent() (Node, bool) {
	p := n.node().parent
	if p < 0 {
		return Node{}, false
	}
	return Node{n.t, p}, true
}

// Descendants returns all proper descendants of n in depth-first pre-order.
func (n Node) Descendants() iter.Seq[Node] {
	end := n.node().end
	return func(yield func(Node) bool) {
		for id := n.id + 1; id < end; id++ {
			if !yield(Node{n.t, id}) {
				return
			}
		}
	}
}

// Leaves returns all leaves below n in depth-first pre-order. A leaf returns itself.
func (n Node) Leaves() iter.Seq[Node] {
	end := n.node().end
	return func(yield func(Node) bool) {
		for id := n.id; id < end; id++ {
			if len(n.t.nodes[id].children) > 0 {
				continue
			}
			if !yield(Node{n.t, id}) {
				return
			}
		}
	}
}

// String formats n as kind "value" @start+length.
func (n Node) String() string {
	if n.t == nil {
		return "<nil>"
	}
	nd := n.node()
	var sb strings.Builder
	sb.WriteString(n.t.schema.Kind(nd.label))
	if nd.value != "" {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(nd.value))
	}
	fmt.Fprintf(&sb, " @%d+%d", nd.span.Start, nd.span.Length)
	return sb.String()
}

// Builder builds a [Tree] in depth-first pre-order.
//
//	b := tree.NewBuilder(schema)
//	b.Open("list", "", span)
//	b.Leaf("item", "a", span)
//	b.Close()
//	t, err := b.Build()
type Builder struct {
	t     *Tree
	stack []int32
	err   error
}

// NewBuilder returns a builder for a tree with the given schema.
func NewBuilder(schema *Schema) *Builder {
	return &Builder{t: &Tree{schema: schema}}
}

// Open adds an inner node as the last child of the currently open node and opens it. The first
// call adds the root.
func (b *Builder) Open(kind, value string, span treediff.Span) {
	id := b.add(kind, value, span)
	if id >= 0 {
		b.stack = append(b.stack, id)
	}
}

// Leaf adds a leaf as the last child of the currently open node.
func (b *Builder) Leaf(kind, value string, span treediff.Span) {
	if id := b.add(kind, value, span); id >= 0 {
		b.t.nodes[id].end = id + 1
	}
}

// Close closes the currently open node.
func (b *Builder) Close() {
	if len(b.stack) == 0 {
		b.fail("Close without Open")
		return
	}
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.t.nodes[id].end = int32(len(b.t.nodes))
}

// Depth returns the number of open nodes.
func (b *Builder) Depth() int { return len(b.stack) }

// Build returns the tree. The builder must not be used afterwards.
func (b *Builder) Build() (*Tree, error) {
	switch {
	case b.err != nil:
		return nil, b.err
	case len(b.t.nodes) == 0:
		return nil, fmt.Errorf("%w: empty tree", ErrMalformed)
	case len(b.stack) > 0:
		return nil, fmt.Errorf("%w: %d nodes not closed", ErrMalformed, len(b.stack))
	}
	t := b.t
	b.t = nil
	return t, nil
}

func (b *Builder) add(kind, value string, span treediff.Span) int32 {
	if b.err != nil {
		return -1
	}
	id := int32(len(b.t.nodes))
	parent := int32(-1)
	switch {
	case len(b.stack) > 0:
		parent = b.stack[len(b.stack)-1]
	case id > 0:
		b.fail("more than one root")
		return -1
	}
	b.t.nodes = append(b.t.nodes, node{
		label:  b.t.schema.Label(kind),
		value:  value,
		span:   span,
		parent: parent,
		end:    id + 1,
	})
	if parent >= 0 {
		b.t.nodes[parent].children = append(b.t.nodes[parent].children, Node{b.t, id})
	}
	return id
}

func (b *Builder) fail(msg string) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s", ErrMalformed, msg)
	}
}
