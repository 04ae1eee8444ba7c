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

package yamltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"znkr.io/treediff"
	"znkr.io/treediff/tree"
)

const (
	oldDoc = `name: app
version: 1
tags:
  - a
  - b
`
	newDoc = `name: app
version: 2
tags:
  - b
  - a
  - c
`
)

func TestParseJSON(t *testing.T) {
	tr, err := Parse(NewSchema(), []byte(`{"a": [1, 2.5, "x", true, null]}`))
	require.NoError(t, err)
	want := `stream
  document
    mapping
      pair "a"
        sequence
          int "1"
          float "2.5"
          str "x"
          bool "true"
          null "null"
`
	assert.Equal(t, want, tr.String())
}

func TestParseStream(t *testing.T) {
	tr, err := Parse(NewSchema(), []byte("a: 1\n---\nb: &x 2\nc: *x\n"))
	require.NoError(t, err)
	want := `stream
  document
    mapping
      pair "a"
        int "1"
  document
    mapping
      pair "b"
        int "2"
      pair "c"
        alias "x"
`
	assert.Equal(t, want, tr.String())
}

func TestParseEmpty(t *testing.T) {
	tr, err := Parse(NewSchema(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())
}

func TestParseError(t *testing.T) {
	_, err := Parse(NewSchema(), []byte("a: [1, 2"))
	assert.Error(t, err)
}

func TestSpans(t *testing.T) {
	tr, err := Parse(NewSchema(), []byte(oldDoc))
	require.NoError(t, err)

	mapping := tr.Root().Children()[0].Children()[0]
	version := mapping.Children()[1]
	assert.Equal(t, "version", version.Value())
	assert.Equal(t, treediff.Span{Start: 10, Length: 7}, version.Span())
	assert.Equal(t, treediff.Span{Start: 19, Length: 1}, version.Children()[0].Span())
}

func TestDiff(t *testing.T) {
	s := NewSchema()
	old, err := Parse(s, []byte(oldDoc))
	require.NoError(t, err)
	new, err := Parse(s, []byte(newDoc))
	require.NoError(t, err)

	edits := tree.NewComparer(s).Diff(old, new, treediff.CheckInvariants())
	require.Len(t, edits, 3)

	assert.Equal(t, treediff.Update, edits[0].Kind)
	assert.Equal(t, "1", edits[0].OldNode.Value())
	assert.Equal(t, "2", edits[0].NewNode.Value())

	assert.Equal(t, treediff.Reorder, edits[1].Kind)
	assert.Equal(t, "a", edits[1].OldNode.Value())

	assert.Equal(t, treediff.Insert, edits[2].Kind)
	assert.Equal(t, "str", edits[2].NewNode.Kind())
	assert.Equal(t, "c", edits[2].NewNode.Value())
}
