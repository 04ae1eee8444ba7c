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

package treediff

import "fmt"

// EditKind describes an edit operation.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=EditKind
type EditKind int

const (
	None    EditKind = iota // No change
	Update                  // The value of a matched node changed
	Insert                  // A node only present in the new tree
	Delete                  // A node only present in the old tree
	Move                    // A matched node whose parent changed
	Reorder                 // A matched node whose position among its siblings changed
)

// Edit describes a single edit of a tree edit script.
//
//   - For Insert, NewNode is the inserted node and OldNode is unset (zero value).
//   - For Delete, OldNode is the deleted node and NewNode is unset (zero value).
//   - For Update, Move and Reorder, OldNode and NewNode are partners in the match.
type Edit[N comparable] struct {
	Kind             EditKind
	OldNode, NewNode N
}

func (e Edit[N]) String() string {
	switch e.Kind {
	case Insert:
		return fmt.Sprintf("%v [] -> [%v]", e.Kind, e.NewNode)
	case Delete:
		return fmt.Sprintf("%v [%v] -> []", e.Kind, e.OldNode)
	default:
		return fmt.Sprintf("%v [%v] -> [%v]", e.Kind, e.OldNode, e.NewNode)
	}
}

// SequenceEdit describes a single edit of a diff between two flat sequences. The index of the
// absent side is -1.
type SequenceEdit struct {
	OldIndex, NewIndex int
}

// Kind returns Insert if OldIndex is -1, Delete if NewIndex is -1 and Update otherwise. An Update
// of a sequence edit denotes two aligned elements, it doesn't imply that their values differ.
func (e SequenceEdit) Kind() EditKind {
	switch {
	case e.OldIndex < 0:
		return Insert
	case e.NewIndex < 0:
		return Delete
	default:
		return Update
	}
}

func (e SequenceEdit) String() string {
	switch e.Kind() {
	case Insert:
		return fmt.Sprintf("Insert [] -> [%d]", e.NewIndex)
	case Delete:
		return fmt.Sprintf("Delete [%d] -> []", e.OldIndex)
	default:
		return fmt.Sprintf("Update [%d] -> [%d]", e.OldIndex, e.NewIndex)
	}
}

// IndexPair is a pair of indices into an old and a new sequence.
type IndexPair struct {
	Old, New int
}

// Pair is a pair of nodes, one from the old tree and one from the new tree.
type Pair[N comparable] struct {
	Old, New N
}
