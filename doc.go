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

// Package treediff compares two labeled, ordered trees and computes the edits that transform one
// into the other.
//
// The algorithm is inspired by "Change Detection in Hierarchically Structured Information"
// (Chawathe, Rajaraman, Garcia-Molina, Widom, 1996). It works in two steps:
//
//  1. [NewMatch] computes a one-to-one mapping between the nodes of the old and the new tree.
//     Only nodes with the same label are matched, and closer nodes (by the comparer's distance)
//     are preferred.
//  2. [Match.EditScript] derives the edits from the match: Insert and Delete for unmatched nodes,
//     Update for matched nodes with different values, Move for matched nodes whose parents are
//     not matched to each other, and Reorder for matched nodes that changed their position among
//     their siblings.
//
// Trees are accessed through a [TreeComparer], nodes are opaque comparable handles. The package
// never allocates or modifies nodes. For a ready-made tree representation, see
// [znkr.io/treediff/tree].
//
// Performance: Matching takes O(N²) distance computations in the worst case, where N is the
// number of nodes with the same label, but close to O(N) for trees that are mostly unchanged.
// Computing an edit script takes O(N + Σ c²) time where c is the number of children of a node.
//
// [znkr.io/treediff/tree]: https://pkg.go.dev/znkr.io/treediff/tree
package treediff
