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
	"strconv"
	"strings"

	"znkr.io/treediff"
)

// Parse parses a tree written in a compact notation:
//
//	block(stmt=a stmt="hello world" call=f(arg=x))
//
// A node is a kind, optionally followed by = and a value, optionally followed by its children in
// parentheses. Values that contain spaces, parentheses, or quotes must be written as Go string
// literals. The span of a node covers its kind and value.
func Parse(schema *Schema, s string) (*Tree, error) {
	p := &parser{s: s, b: NewBuilder(schema)}
	if err := p.node(); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.i != len(p.s) {
		return nil, p.errorf("unexpected %q after root", p.s[p.i])
	}
	return p.b.Build()
}

type parser struct {
	s string
	i int
	b *Builder
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrMalformed, p.i, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.i < len(p.s) && strings.IndexByte(" \t\r\n", p.s[p.i]) >= 0 {
		p.i++
	}
}

func (p *parser) ident() string {
	start := p.i
	for p.i < len(p.s) && strings.IndexByte(" \t\r\n=()\"", p.s[p.i]) < 0 {
		p.i++
	}
	return p.s[start:p.i]
}

func (p *parser) value() (string, error) {
	if p.i >= len(p.s) || p.s[p.i] != '"' {
		return p.ident(), nil
	}
	lit, err := strconv.QuotedPrefix(p.s[p.i:])
	if err != nil {
		return "", p.errorf("invalid quoted value")
	}
	p.i += len(lit)
	return strconv.Unquote(lit)
}

func (p *parser) node() error {
	p.skipSpace()
	start := p.i
	kind := p.ident()
	if kind == "" {
		return p.errorf("missing kind")
	}
	var value string
	if p.i < len(p.s) && p.s[p.i] == '=' {
		p.i++
		v, err := p.value()
		if err != nil {
			return err
		}
		value = v
	}
	span := treediff.Span{Start: start, Length: p.i - start}
	if p.i >= len(p.s) || p.s[p.i] != '(' {
		p.b.Leaf(kind, value, span)
		return nil
	}
	p.i++
	p.b.Open(kind, value, span)
	for {
		p.skipSpace()
		if p.i >= len(p.s) {
			return p.errorf("missing )")
		}
		if p.s[p.i] == ')' {
			p.i++
			break
		}
		if err := p.node(); err != nil {
			return err
		}
	}
	p.b.Close()
	return nil
}

// MustParse is like [Parse] but panics on error.
func MustParse(schema *Schema, s string) *Tree {
	t, err := Parse(schema, s)
	if err != nil {
		panic(err)
	}
	return t
}
