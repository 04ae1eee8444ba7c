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

package tomltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"znkr.io/treediff"
	"znkr.io/treediff/tree"
)

const (
	oldDoc = `title = "demo"

[server]
host = "localhost"
port = 8080

[[users]]
name = "ann"

[[users]]
name = "bob"
`
	newDoc = `title = "demo"

[server]
host = "localhost"
port = 9090

[[users]]
name = "bob"

[[users]]
name = "ann"
`
)

func TestParse(t *testing.T) {
	tr, err := Parse(NewSchema(), []byte(oldDoc))
	require.NoError(t, err)
	want := `document
  key "title"
    string "demo"
  key "server"
    table
      key "host"
        string "localhost"
      key "port"
        integer "8080"
  key "users"
    array
      table
        key "name"
          string "ann"
      table
        key "name"
          string "bob"
`
	assert.Equal(t, want, tr.String())
}

func TestParseScalars(t *testing.T) {
	tr, err := Parse(NewSchema(), []byte("b = true\nf = 1.5\nd = 1979-05-27T07:32:00Z\nl = [1, \"x\"]\n"))
	require.NoError(t, err)
	want := `document
  key "b"
    boolean "true"
  key "f"
    float "1.5"
  key "d"
    datetime "1979-05-27T07:32:00Z"
  key "l"
    array
      integer "1"
      string "x"
`
	assert.Equal(t, want, tr.String())
}

func TestParseError(t *testing.T) {
	_, err := Parse(NewSchema(), []byte("a = \n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestDiff(t *testing.T) {
	s := NewSchema()
	old, err := Parse(s, []byte(oldDoc))
	require.NoError(t, err)
	new, err := Parse(s, []byte(newDoc))
	require.NoError(t, err)

	edits := tree.NewComparer(s).Diff(old, new, treediff.CheckInvariants())
	require.Len(t, edits, 2)

	assert.Equal(t, treediff.Reorder, edits[0].Kind)
	assert.Equal(t, "table", edits[0].OldNode.Kind())
	assert.Equal(t, "ann", edits[0].OldNode.Children()[0].Children()[0].Value())

	assert.Equal(t, treediff.Update, edits[1].Kind)
	assert.Equal(t, "8080", edits[1].OldNode.Value())
	assert.Equal(t, "9090", edits[1].NewNode.Value())
}
