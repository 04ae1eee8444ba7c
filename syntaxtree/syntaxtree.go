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

// Package syntaxtree builds trees from source code using tree-sitter grammars.
//
// Only named syntax nodes become tree nodes, their kind is the grammar symbol. A node without named
// children is a leaf and its value is its source text. Inner nodes take the keywords and operators
// among their anonymous children as value (e.g. "+" for a binary expression), punctuation is
// dropped.
//
// Syntax errors don't fail parsing, they show up as "ERROR" nodes.
package syntaxtree

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"znkr.io/treediff"
	"znkr.io/treediff/tree"
)

// ErrUnsupportedLanguage is returned for languages without a grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// NewSchema returns a schema for a language. Declarations are registered first and kinds like
// catch or else clauses are tied to their parent statement.
func NewSchema(lang string) (*tree.Schema, error) {
	l, ok := lookup(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	s := tree.NewSchema(l.first...)
	for _, kind := range slices.Sorted(maps.Keys(l.ties)) {
		s.Tie(kind, l.ties[kind])
	}
	return s, nil
}

// Parse parses src as source code of the given language.
func Parse(ctx context.Context, schema *tree.Schema, lang string, src []byte) (*tree.Tree, error) {
	l, ok := lookup(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(l.grammar())
	st, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", lang, err)
	}
	defer st.Close()

	b := tree.NewBuilder(schema)
	add(b, st.RootNode(), src)
	return b.Build()
}

func add(b *tree.Builder, n *sitter.Node, src []byte) {
	span := treediff.Span{Start: int(n.StartByte()), Length: int(n.EndByte() - n.StartByte())}
	count := int(n.NamedChildCount())
	if count == 0 {
		b.Leaf(n.Type(), n.Content(src), span)
		return
	}

	b.Open(n.Type(), tokens(n, src), span)
	for i := range count {
		add(b, n.NamedChild(i), src)
	}
	b.Close()
}

// tokens returns the keywords and operators among the anonymous children of n.
func tokens(n *sitter.Node, src []byte) string {
	var out []string
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if c.IsNamed() || c.IsMissing() {
			continue
		}
		if tok := c.Content(src); !isPunctuation(tok) {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

func isPunctuation(tok string) bool {
	return strings.Trim(tok, "()[]{},;:.") == ""
}
