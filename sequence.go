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

import "znkr.io/treediff/internal/lcs"

// LongestCommonSubsequence aligns two indexable sequences of type S.
//
// ItemsEqual reports whether the i-th element of oldSeq and the j-th element of newSeq are equal.
// It must be pure, it's called multiple times for the same indices.
//
// If there are multiple longest common subsequences, the result is the one found by a forward walk
// that takes equal elements as soon as possible and, when elements differ, skips an element of
// the old sequence before an element of the new sequence. For example, the LCS of ABC and ACB is
// AC, not AB.
//
// All methods take O(NM) time and space, where N and M are the sequence lengths.
type LongestCommonSubsequence[S any] struct {
	ItemsEqual func(oldSeq S, i int, newSeq S, j int) bool
}

// MatchingPairs returns the index pairs of the longest common subsequence of oldSeq[:oldLen] and
// newSeq[:newLen] ordered by both indices.
func (l LongestCommonSubsequence[S]) MatchingPairs(oldSeq S, oldLen int, newSeq S, newLen int) []IndexPair {
	pairs := lcs.Pairs(oldLen, newLen, l.eq(oldSeq, newSeq))
	if pairs == nil {
		return nil
	}
	out := make([]IndexPair, len(pairs))
	for i, p := range pairs {
		out[i] = IndexPair{p.S, p.T}
	}
	return out
}

// Edits returns the edits transforming oldSeq[:oldLen] into newSeq[:newLen].
//
// The edits are ordered by both indices. Elements that are part of the longest common subsequence
// are reported as Update, all other elements as Insert or Delete.
func (l LongestCommonSubsequence[S]) Edits(oldSeq S, oldLen int, newSeq S, newLen int) []SequenceEdit {
	steps := lcs.Steps(oldLen, newLen, l.eq(oldSeq, newSeq))
	if steps == nil {
		return nil
	}
	out := make([]SequenceEdit, len(steps))
	for i, st := range steps {
		out[i] = SequenceEdit{OldIndex: st.S, NewIndex: st.T}
	}
	return out
}

// Distance returns 1 - |LCS| / max(oldLen, newLen), a number in [0, 1] where 0 means both
// sequences are equal. The distance of two empty sequences is 0.
func (l LongestCommonSubsequence[S]) Distance(oldSeq S, oldLen int, newSeq S, newLen int) float64 {
	n := max(oldLen, newLen)
	if n == 0 {
		return 0
	}
	common := lcs.Len(oldLen, newLen, l.eq(oldSeq, newSeq))
	return 1 - float64(common)/float64(n)
}

func (l LongestCommonSubsequence[S]) eq(oldSeq, newSeq S) func(s, t int) bool {
	return func(s, t int) bool {
		return l.ItemsEqual(oldSeq, s, newSeq, t)
	}
}
