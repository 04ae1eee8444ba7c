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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var stringLCS = LongestCommonSubsequence[string]{
	ItemsEqual: func(x string, i int, y string, j int) bool { return x[i] == y[j] },
}

func TestMatchingPairs(t *testing.T) {
	tests := []struct {
		name string
		x, y string
		want []IndexPair
	}{
		{"empty", "", "", nil},
		{"x-empty", "", "abc", nil},
		{"y-empty", "abc", "", nil},
		{"identical", "abc", "abc", []IndexPair{{0, 0}, {1, 1}, {2, 2}}},
		{"swap-last", "ABC", "ACB", []IndexPair{{0, 0}, {2, 1}}},
		{"disjoint", "abc", "xyz", []IndexPair{}},
		{"insert-middle", "ac", "abc", []IndexPair{{0, 0}, {1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringLCS.MatchingPairs(tt.x, len(tt.x), tt.y, len(tt.y))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MatchingPairs(%q, %q) differs [-want,+got]:\n%s", tt.x, tt.y, diff)
			}
		})
	}
}

func TestMatchingPairsPrefix(t *testing.T) {
	// Only the first oldLen and newLen elements take part.
	got := stringLCS.MatchingPairs("abX", 2, "abY", 2)
	want := []IndexPair{{0, 0}, {1, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MatchingPairs(...) differs [-want,+got]:\n%s", diff)
	}
}

func TestEdits(t *testing.T) {
	tests := []struct {
		name string
		x, y string
		want []string
	}{
		{"empty", "", "", nil},
		{"insert-all", "", "ab", []string{"Insert [] -> [0]", "Insert [] -> [1]"}},
		{"delete-all", "ab", "", []string{"Delete [0] -> []", "Delete [1] -> []"}},
		{
			name: "swap-last",
			x:    "ABC",
			y:    "ACB",
			want: []string{
				"Update [0] -> [0]",
				"Delete [1] -> []",
				"Update [2] -> [1]",
				"Insert [] -> [2]",
			},
		},
		{
			name: "replace",
			x:    "ab",
			y:    "ac",
			want: []string{
				"Update [0] -> [0]",
				"Delete [1] -> []",
				"Insert [] -> [1]",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range stringLCS.Edits(tt.x, len(tt.x), tt.y, len(tt.y)) {
				got = append(got, e.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Edits(%q, %q) differs [-want,+got]:\n%s", tt.x, tt.y, diff)
			}
		})
	}
}

func TestSequenceDistance(t *testing.T) {
	tests := []struct {
		x, y string
		want float64
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"", "abc", 1},
		{"abc", "xyz", 1},
		{"abcd", "ab", 0.5},
		{"ab", "abcd", 0.5},
		{"ABC", "ACB", 1 - 2.0/3},
	}
	for _, tt := range tests {
		got := stringLCS.Distance(tt.x, len(tt.x), tt.y, len(tt.y))
		if got != tt.want {
			t.Errorf("Distance(%q, %q) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSequenceEditKind(t *testing.T) {
	tests := []struct {
		edit SequenceEdit
		want EditKind
	}{
		{SequenceEdit{-1, 3}, Insert},
		{SequenceEdit{2, -1}, Delete},
		{SequenceEdit{2, 3}, Update},
	}
	for _, tt := range tests {
		if got := tt.edit.Kind(); got != tt.want {
			t.Errorf("%v.Kind() = %v, want %v", tt.edit, got, tt.want)
		}
	}
}

func TestEditKindString(t *testing.T) {
	tests := []struct {
		kind EditKind
		want string
	}{
		{None, "None"},
		{Update, "Update"},
		{Insert, "Insert"},
		{Delete, "Delete"},
		{Move, "Move"},
		{Reorder, "Reorder"},
		{EditKind(42), "EditKind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EditKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
