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
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
	"znkr.io/treediff"
)

var update = flag.Bool("update", false, "update golden files")

func TestValueDistance(t *testing.T) {
	c := NewComparer(NewSchema())
	tests := []struct {
		x, y string
		want float64
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"", "abc", 1},
		{"abcd", "abce", 0.25},
		{"banana", "cherry", 1},
		{"héllo", "hallo", 0.2},
	}
	for _, tt := range tests {
		if got := c.ValueDistance(tt.x, tt.y); got != tt.want {
			t.Errorf("ValueDistance(%q, %q) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	s := NewSchema()
	old := MustParse(s, "file(func=f(call=print call=log) func=g(call=exit) x(y=1 y=2))")
	new := MustParse(s, "file(func=g(call=exit call=log) func=f(call=print) x(y=1 y=3 y=4 y=5))")
	oldNodes, newNodes := old.Root().Children(), new.Root().Children()

	tests := []struct {
		name string
		opts []ComparerOption
		a, b Node
		want float64
	}{
		{"same-value", nil, oldNodes[0], newNodes[1], 0.25},
		{"different-value", nil, oldNodes[0], newNodes[0], 0.75},
		{"value-only", []ComparerOption{ValueWeight(1)}, oldNodes[0], newNodes[0], 1},
		{"leaves-only", []ComparerOption{ValueWeight(0)}, oldNodes[0], newNodes[0], 0.5},
		{"no-values", nil, oldNodes[2], newNodes[2], 0.75},
		{"max-leaves", []ComparerOption{MaxLeaves(2)}, oldNodes[2], newNodes[2], 0.5},
		{"leaf", nil, oldNodes[0].Children()[1], newNodes[0].Children()[1], 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComparer(s, tt.opts...)
			if got := c.Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestComparerOptionsPanic(t *testing.T) {
	tests := []struct {
		name string
		opt  func()
	}{
		{"negative-weight", func() { ValueWeight(-1) }},
		{"weight-too-large", func() { ValueWeight(1.5) }},
		{"zero-leaves", func() { MaxLeaves(0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("option didn't panic")
				}
			}()
			tt.opt()
		})
	}
}

func TestDiffSchemaMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Diff(...) didn't panic")
		}
	}()
	s := NewSchema()
	c := NewComparer(s)
	c.Diff(MustParse(s, "a"), MustParse(NewSchema(), "a"))
}

func label(n Node) string {
	if n.Value() == "" {
		return n.Kind()
	}
	return n.Kind() + " " + strconv.Quote(n.Value())
}

func renderEdits(edits []treediff.Edit[Node]) []byte {
	var b bytes.Buffer
	for _, e := range edits {
		switch e.Kind {
		case treediff.Insert:
			fmt.Fprintf(&b, "Insert %s\n", label(e.NewNode))
		case treediff.Delete:
			fmt.Fprintf(&b, "Delete %s\n", label(e.OldNode))
		default:
			fmt.Fprintf(&b, "%v %s -> %s\n", e.Kind, label(e.OldNode), label(e.NewNode))
		}
	}
	return b.Bytes()
}

// TestGolden runs the test cases in testdata/*.txtar. Each archive contains the files "old", "new"
// and "edits". The comment may contain directives, one per line:
//
//	tie <kind> <level>
//	max-distance <d>
func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatalf("Failed to read testdata: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no test files found")
	}
	for _, filename := range files {
		name := strings.TrimPrefix(filename, "testdata/")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(filename)
			if err != nil {
				t.Fatalf("failed to parse test case: %v", err)
			}

			schema := NewSchema()
			var opts []treediff.Option
			for line := range strings.Lines(string(ar.Comment)) {
				fields := strings.Fields(line)
				switch {
				case len(fields) == 0 || strings.HasPrefix(fields[0], "#"):
					// comment
				case fields[0] == "tie" && len(fields) == 3:
					level, err := strconv.Atoi(fields[2])
					if err != nil {
						t.Fatalf("invalid tie level: %v", err)
					}
					schema.Tie(fields[1], level)
				case fields[0] == "max-distance" && len(fields) == 2:
					d, err := strconv.ParseFloat(fields[1], 64)
					if err != nil {
						t.Fatalf("invalid max distance: %v", err)
					}
					opts = append(opts, treediff.MaxDistance(d))
				default:
					t.Fatalf("unknown directive: %q", line)
				}
			}

			var old, new *Tree
			var want []byte
			editsIndex := -1
			for i, f := range ar.Files {
				switch f.Name {
				case "old":
					old, err = Parse(schema, string(f.Data))
				case "new":
					new, err = Parse(schema, string(f.Data))
				case "edits":
					want = f.Data
					editsIndex = i
				default:
					t.Fatalf("unknown file in archive: %v", f.Name)
				}
				if err != nil {
					t.Fatalf("failed to parse %s: %v", f.Name, err)
				}
			}
			if old == nil || new == nil || editsIndex < 0 {
				t.Fatal("test case must contain old, new and edits")
			}

			opts = append(opts, treediff.CheckInvariants())
			got := renderEdits(NewComparer(schema).Diff(old, new, opts...))
			if *update {
				ar.Files[editsIndex].Data = got
				if err := os.WriteFile(filename, txtar.Format(ar), 0o644); err != nil {
					t.Fatalf("error writing golden file: %v", err)
				}
				return
			}
			if diff := cmp.Diff(string(want), string(got)); diff != "" {
				t.Errorf("edits differ [-want,+got]:\n%s", diff)
			}
		})
	}
}

func cachedLeaves(c *Comparer) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.leaves)
}

func TestComparerReset(t *testing.T) {
	s := NewSchema()
	oldTree := MustParse(s, "func=f(stmt=a stmt=b)")
	newTree := MustParse(s, "func=f(stmt=a stmt=c)")
	c := NewComparer(s)

	c.Distance(oldTree.Root(), newTree.Root())
	if got := cachedLeaves(c); got != 2 {
		t.Errorf("after Distance(...) %d nodes have cached leaves, want 2", got)
	}
	c.Reset()
	if got := cachedLeaves(c); got != 0 {
		t.Errorf("after Reset() %d nodes have cached leaves, want 0", got)
	}

	c.Diff(oldTree, newTree)
	if got := cachedLeaves(c); got != 0 {
		t.Errorf("after Diff(...) %d nodes have cached leaves, want 0", got)
	}
}
