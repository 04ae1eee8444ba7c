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

// Package lcs computes longest common subsequences of two index spaces with the classic dynamic
// programming table.
//
// The table stores suffix lengths: L[s][t] is the length of the LCS of x[s:] and y[t:]. The trace
// walks forward from (0, 0) and is canonical:
//
//  1. If x[s] equals y[t], the pair (s, t) is part of the LCS. Taking a matching diagonal greedily
//     never shortens the result.
//  2. Otherwise, x[s] is skipped if that keeps the LCS length, i.e. L[s+1][t] >= L[s][t+1].
//  3. Otherwise, y[t] is skipped.
//
// For x = ABC and y = ACB the trace therefore produces the pairs (0, 0) and (2, 1).
//
// Time and space complexity are O(NM) where N = len(x) and M = len(y). A common prefix is
// stripped before the table is built; by rule 1 this never changes the trace.
package lcs

import "sync"

// Pair is a pair of indices of elements that are part of the LCS.
type Pair struct {
	S, T int
}

// Step is a single step of the trace. S or T are -1 if the step is an insertion or deletion
// respectively.
type Step struct {
	S, T int
}

// table is the dynamic programming table for x[smin:n] and y[tmin:m].
type table struct {
	smin, tmin int
	n, m       int
	w          int // row width, m - tmin + 1
	cells      []int32
}

var tables = sync.Pool{
	New: func() any { return new(table) },
}

func (tb *table) at(s, t int) int32 {
	return tb.cells[(s-tb.smin)*tb.w+(t-tb.tmin)]
}

// build fills the table for an n x m problem. The returned table must be released with release.
func build(n, m int, eq func(s, t int) bool) *table {
	tb := tables.Get().(*table)
	tb.n, tb.m = n, m

	// Strip common prefix.
	smin, tmin := 0, 0
	for smin < n && tmin < m && eq(smin, tmin) {
		smin++
		tmin++
	}
	tb.smin, tb.tmin = smin, tmin

	tb.w = m - tmin + 1
	size := (n - smin + 1) * tb.w
	if cap(tb.cells) < size {
		tb.cells = make([]int32, size)
	} else {
		tb.cells = tb.cells[:size]
		clear(tb.cells)
	}

	w := tb.w
	for s := n - 1; s >= smin; s-- {
		row := (s - smin) * w
		next := row + w
		for t := m - 1; t >= tmin; t-- {
			c := t - tmin
			switch {
			case eq(s, t):
				tb.cells[row+c] = tb.cells[next+c+1] + 1
			case tb.cells[next+c] >= tb.cells[row+c+1]:
				tb.cells[row+c] = tb.cells[next+c]
			default:
				tb.cells[row+c] = tb.cells[row+c+1]
			}
		}
	}
	return tb
}

func (tb *table) release() {
	tables.Put(tb)
}

// trace walks the canonical trace and calls yield for every step.
func (tb *table) trace(eq func(s, t int) bool, yield func(s, t int)) {
	for i := range tb.smin {
		yield(i, i)
	}
	s, t := tb.smin, tb.tmin
	for s < tb.n && t < tb.m {
		switch {
		case eq(s, t):
			yield(s, t)
			s++
			t++
		case tb.at(s+1, t) >= tb.at(s, t+1):
			yield(s, -1)
			s++
		default:
			yield(-1, t)
			t++
		}
	}
	for ; s < tb.n; s++ {
		yield(s, -1)
	}
	for ; t < tb.m; t++ {
		yield(-1, t)
	}
}

// Pairs returns the index pairs of the LCS of two sequences of length n and m where eq(s, t)
// reports whether the s-th element of the first and the t-th element of the second sequence are
// equal. The pairs are ordered by both indices.
func Pairs(n, m int, eq func(s, t int) bool) []Pair {
	if n == 0 || m == 0 {
		return nil
	}
	tb := build(n, m, eq)
	defer tb.release()

	out := make([]Pair, 0, int(tb.at(tb.smin, tb.tmin))+tb.smin)
	tb.trace(eq, func(s, t int) {
		if s >= 0 && t >= 0 {
			out = append(out, Pair{s, t})
		}
	})
	return out
}

// Steps returns the full canonical trace for two sequences of length n and m, including
// insertions and deletions.
func Steps(n, m int, eq func(s, t int) bool) []Step {
	if n == 0 && m == 0 {
		return nil
	}
	out := make([]Step, 0, max(n, m))
	if n == 0 || m == 0 {
		for s := range n {
			out = append(out, Step{s, -1})
		}
		for t := range m {
			out = append(out, Step{-1, t})
		}
		return out
	}

	tb := build(n, m, eq)
	defer tb.release()
	tb.trace(eq, func(s, t int) {
		out = append(out, Step{s, t})
	})
	return out
}

// Len returns the length of the LCS.
func Len(n, m int, eq func(s, t int) bool) int {
	if n == 0 || m == 0 {
		return 0
	}
	tb := build(n, m, eq)
	defer tb.release()
	return int(tb.at(tb.smin, tb.tmin)) + tb.smin
}
