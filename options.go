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

import "znkr.io/treediff/internal/config"

// Option configures the behavior of the matching algorithm.
type Option = config.Option

// MaxDistance sets the largest distance at which two nodes of the same label are still matched.
// Nodes without a candidate within this distance remain unmatched and show up as insertions and
// deletions.
//
// The default is 2, which is larger than any distance a comparer returns: every node is matched
// to some node of the same label if one is available.
func MaxDistance(d float64) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxDistance = d
		return config.MaxDistanceFlag
	}
}

// CheckInvariants verifies the structural invariants of a match after it's computed: every node
// has at most one partner, partners have the same label, nodes tied to an ancestor have matching
// ancestors, and parents are consistent with children. A violation panics.
//
// This is expensive and meant for tests and for debugging comparers.
func CheckInvariants() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.CheckInvariants = true
		return config.CheckInvariantsFlag
	}
}
