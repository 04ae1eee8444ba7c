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

// Package tomltree builds trees from TOML documents.
//
// A document becomes a tree rooted at a "document" node. Every key of a table becomes a "key" node
// whose value is the key name and whose only child is the key's value: a "table", an "array", or
// a scalar ("string", "integer", "float", "boolean", "datetime"). Keys are ordered by their first
// appearance in the document.
//
// The TOML decoder doesn't report positions, all spans are empty.
package tomltree

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"znkr.io/treediff"
	"znkr.io/treediff/tree"
)

var kinds = []string{
	"document", "table", "array", "key",
	"string", "integer", "float", "boolean", "datetime",
}

// NewSchema returns a schema with all TOML kinds registered.
func NewSchema() *tree.Schema {
	return tree.NewSchema(kinds...)
}

// Parse parses a TOML document.
func Parse(schema *tree.Schema, src []byte) (*tree.Tree, error) {
	var doc map[string]any
	md, err := toml.Decode(string(src), &doc)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("parsing toml: line %d: %w", perr.Position.Line, err)
		}
		return nil, fmt.Errorf("parsing toml: %w", err)
	}

	b := &builder{b: tree.NewBuilder(schema), order: make(map[string]int)}
	for i, k := range md.Keys() {
		if _, ok := b.order[k.String()]; !ok {
			b.order[k.String()] = i
		}
	}
	b.b.Open("document", "", treediff.Span{})
	b.keys(nil, doc)
	b.b.Close()
	return b.b.Build()
}

type builder struct {
	b     *tree.Builder
	order map[string]int // first appearance of a key path
}

func (b *builder) keys(path toml.Key, table map[string]any) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	pos := func(name string) int {
		if i, ok := b.order[append(path[:len(path):len(path)], name).String()]; ok {
			return i
		}
		return len(b.order)
	}
	slices.SortFunc(names, func(x, y string) int {
		if c := cmp.Compare(pos(x), pos(y)); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})

	for _, name := range names {
		b.b.Open("key", name, treediff.Span{})
		b.value(append(path[:len(path):len(path)], name), table[name])
		b.b.Close()
	}
}

func (b *builder) value(path toml.Key, v any) {
	switch v := v.(type) {
	case map[string]any:
		b.b.Open("table", "", treediff.Span{})
		b.keys(path, v)
		b.b.Close()
	case []map[string]any:
		b.b.Open("array", "", treediff.Span{})
		for _, t := range v {
			b.value(path, t)
		}
		b.b.Close()
	case []any:
		b.b.Open("array", "", treediff.Span{})
		for _, e := range v {
			b.value(path, e)
		}
		b.b.Close()
	case string:
		b.b.Leaf("string", v, treediff.Span{})
	case int64:
		b.b.Leaf("integer", strconv.FormatInt(v, 10), treediff.Span{})
	case float64:
		b.b.Leaf("float", strconv.FormatFloat(v, 'g', -1, 64), treediff.Span{})
	case bool:
		b.b.Leaf("boolean", strconv.FormatBool(v), treediff.Span{})
	case time.Time:
		b.b.Leaf("datetime", v.Format(time.RFC3339Nano), treediff.Span{})
	default:
		panic(fmt.Sprintf("unexpected toml value of type %T", v))
	}
}
