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

// Package render formats edit scripts of [tree.Node] trees as text, JSON, or a summary table.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"znkr.io/treediff"
	"znkr.io/treediff/tree"
)

const (
	prefixInsert  = "+ "
	prefixDelete  = "- "
	prefixUpdate  = "~ "
	prefixMove    = "> "
	prefixReorder = "^ "
)

// Text formats the edits one per line:
//
//	+ inserted
//	- deleted
//	~ old -> new (updated)
//	> old -> new (moved)
//	^ old -> new (reordered)
//
// A node is written as its kind, its quoted value (if any), and its position.
//
// The following options are supported: [Color], [Sources]
//
// Important: The output is not guaranteed to be stable. DO NOT rely on the output being stable.
func Text(edits []treediff.Edit[tree.Node], opts ...Option) string {
	cfg := newConfig(opts)
	var b strings.Builder
	for _, e := range edits {
		var line string
		switch e.Kind {
		case treediff.Insert:
			line = prefixInsert + cfg.newPos.node(e.NewNode)
		case treediff.Delete:
			line = prefixDelete + cfg.oldPos.node(e.OldNode)
		case treediff.Update:
			line = prefixUpdate + cfg.pair(e)
		case treediff.Move:
			line = prefixMove + cfg.pair(e)
		case treediff.Reorder:
			line = prefixReorder + cfg.pair(e)
		default:
			panic("never reached")
		}
		if c, ok := cfg.colors[e.Kind]; ok {
			line = c.Sprint(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary formats a table with the number of nodes in both trees, the number of matched nodes,
// and the number of edits per kind.
func Summary(s *treediff.EditScript[tree.Node]) string {
	m := s.Match()
	counts := make(map[treediff.EditKind]int)
	edits := s.Edits()
	for _, e := range edits {
		counts[e.Kind]++
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"", "Count"})
	tbl.AppendRow(table.Row{"Old nodes", humanize.Comma(int64(m.OldRoot().Tree().Len()))})
	tbl.AppendRow(table.Row{"New nodes", humanize.Comma(int64(m.NewRoot().Tree().Len()))})
	tbl.AppendRow(table.Row{"Matched", humanize.Comma(int64(m.Len()))})
	tbl.AppendSeparator()
	for _, k := range []treediff.EditKind{treediff.Insert, treediff.Delete, treediff.Update, treediff.Move, treediff.Reorder} {
		tbl.AppendRow(table.Row{k.String(), humanize.Comma(int64(counts[k]))})
	}
	tbl.AppendFooter(table.Row{"Edits", humanize.Comma(int64(len(edits)))})
	return tbl.Render() + "\n"
}

type jsonNode struct {
	Kind   string `json:"kind"`
	Value  string `json:"value,omitempty"`
	Start  int    `json:"start"`
	Length int    `json:"length"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

type jsonEdit struct {
	Kind string    `json:"kind"`
	Old  *jsonNode `json:"old,omitempty"`
	New  *jsonNode `json:"new,omitempty"`
}

// JSON writes the edits as an indented JSON array to w. Each edit has a "kind" and the nodes
// "old" and "new", the absent node of an insert or delete is omitted.
//
// The following options are supported: [Sources]
func JSON(w io.Writer, edits []treediff.Edit[tree.Node], opts ...Option) error {
	cfg := newConfig(opts)
	out := make([]jsonEdit, 0, len(edits))
	for _, e := range edits {
		je := jsonEdit{Kind: strings.ToLower(e.Kind.String())}
		if e.Kind != treediff.Insert {
			je.Old = cfg.oldPos.json(e.OldNode)
		}
		if e.Kind != treediff.Delete {
			je.New = cfg.newPos.json(e.NewNode)
		}
		out = append(out, je)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding edits: %w", err)
	}
	return nil
}

func (cfg *config) pair(e treediff.Edit[tree.Node]) string {
	return cfg.oldPos.node(e.OldNode) + " -> " + cfg.newPos.node(e.NewNode)
}

func (p *positions) node(n tree.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind())
	if v := n.Value(); v != "" {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(v))
	}
	span := n.Span()
	if line, col, ok := p.lineCol(span.Start); ok {
		fmt.Fprintf(&sb, " @%d:%d", line, col)
	} else {
		fmt.Fprintf(&sb, " @%d+%d", span.Start, span.Length)
	}
	return sb.String()
}

func (p *positions) json(n tree.Node) *jsonNode {
	span := n.Span()
	jn := &jsonNode{
		Kind:   n.Kind(),
		Value:  n.Value(),
		Start:  span.Start,
		Length: span.Length,
	}
	if line, col, ok := p.lineCol(span.Start); ok {
		jn.Line, jn.Column = line, col
	}
	return jn
}

// Palette returns the default colors per edit kind.
func Palette() map[treediff.EditKind]*color.Color {
	return map[treediff.EditKind]*color.Color{
		treediff.Insert:  color.New(color.FgGreen),
		treediff.Delete:  color.New(color.FgRed),
		treediff.Update:  color.New(color.FgYellow),
		treediff.Move:    color.New(color.FgCyan),
		treediff.Reorder: color.New(color.FgBlue),
	}
}
