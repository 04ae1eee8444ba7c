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

// Package yamltree builds trees from YAML and JSON documents.
//
// A stream of documents becomes a tree rooted at a "stream" node with one "document" child per
// document. Mappings become "mapping" nodes with one "pair" child per entry. A pair's value is
// the key (if it is a scalar) and its child is the entry's value. Scalars use their resolved tag
// as kind ("str", "int", "float", "bool", "null", ...).
package yamltree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
	"znkr.io/treediff"
	"znkr.io/treediff/tree"
)

// Kinds in the order in which they're registered with a new schema. Containers come first so that
// they're matched before their contents.
var kinds = []string{
	"stream", "document", "mapping", "sequence", "pair",
	"str", "int", "float", "bool", "null", "timestamp", "binary", "scalar", "alias",
}

// NewSchema returns a schema with all YAML kinds registered.
func NewSchema() *tree.Schema {
	return tree.NewSchema(kinds...)
}

// Parse parses a stream of YAML (or JSON) documents.
func Parse(schema *tree.Schema, src []byte) (*tree.Tree, error) {
	b := &builder{b: tree.NewBuilder(schema), lines: lineStarts(src), src: src}
	b.b.Open("stream", "", treediff.Span{Start: 0, Length: len(src)})
	dec := yaml.NewDecoder(bytes.NewReader(src))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
		b.node(&doc)
	}
	b.b.Close()
	return b.b.Build()
}

type builder struct {
	b     *tree.Builder
	src   []byte
	lines []int
}

func (b *builder) node(n *yaml.Node) {
	span := b.span(n)
	switch n.Kind {
	case yaml.DocumentNode:
		b.b.Open("document", "", span)
		for _, c := range n.Content {
			b.node(c)
		}
		b.b.Close()
	case yaml.SequenceNode:
		b.b.Open("sequence", "", span)
		for _, c := range n.Content {
			b.node(c)
		}
		b.b.Close()
	case yaml.MappingNode:
		b.b.Open("mapping", "", span)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.Kind == yaml.ScalarNode {
				b.b.Open("pair", key.Value, b.span(key))
				b.node(value)
			} else {
				b.b.Open("pair", "", b.span(key))
				b.node(key)
				b.node(value)
			}
			b.b.Close()
		}
		b.b.Close()
	case yaml.AliasNode:
		b.b.Leaf("alias", n.Value, span)
	case yaml.ScalarNode:
		b.b.Leaf(scalarKind(n), n.Value, span)
	default:
		panic(fmt.Sprintf("unknown yaml node kind %v", n.Kind))
	}
}

func scalarKind(n *yaml.Node) string {
	switch tag := n.ShortTag(); tag {
	case "!!str", "!!int", "!!float", "!!bool", "!!null", "!!timestamp", "!!binary":
		return strings.TrimPrefix(tag, "!!")
	default:
		return "scalar"
	}
}

// span converts the 1-based line and column of n into a byte offset. The length of a scalar is
// the length of its value, other nodes have length 0.
func (b *builder) span(n *yaml.Node) treediff.Span {
	var length int
	if n.Kind == yaml.ScalarNode {
		length = len(n.Value)
	}
	if n.Line < 1 || n.Line > len(b.lines) {
		return treediff.Span{Start: 0, Length: length}
	}
	off := b.lines[n.Line-1]
	for col := 1; col < n.Column && off < len(b.src) && b.src[off] != '\n'; col++ {
		_, size := utf8.DecodeRune(b.src[off:])
		off += size
	}
	return treediff.Span{Start: off, Length: length}
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
