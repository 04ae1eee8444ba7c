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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// treediff.Option.
package config

import "fmt"

// Distance thresholds used by the matching passes. Distances reported by a comparer are in [0, 1],
// thresholds above 1 accept every candidate with the same label.
const (
	ExactMatchDistance = 0.0
	EpsilonDistance    = 0.00001
	MatchingDistance1  = 0.5
	MatchingDistance2  = 1.0
	MatchingDistance3  = 1.5
	MaxDistance        = 2.0
)

// Config collects all configurable parameters for the matching algorithm in this module.
type Config struct {
	// MaxDistance is the largest distance at which two nodes are still considered partners.
	MaxDistance float64

	// If set, the match is verified against its structural invariants after construction and any
	// violation panics.
	CheckInvariants bool
}

// Default is the default configuration.
var Default = Config{
	MaxDistance:     MaxDistance,
	CheckInvariants: false,
}

// Thresholds returns the acceptance thresholds for the matching passes, in the order in which the
// passes run.
func (cfg Config) Thresholds() []float64 {
	all := []float64{EpsilonDistance, MatchingDistance1, MatchingDistance2, MatchingDistance3, MaxDistance}
	var out []float64
	for _, d := range all {
		if d >= cfg.MaxDistance {
			break
		}
		out = append(out, d)
	}
	return append(out, cfg.MaxDistance)
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	MaxDistanceFlag Flag = 1 << iota
	CheckInvariantsFlag
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	if !(cfg.MaxDistance >= ExactMatchDistance) {
		panic(fmt.Sprintf("treediff.MaxDistance must be a non-negative number, got %v", cfg.MaxDistance))
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case MaxDistanceFlag:
		return "treediff.MaxDistance"
	case CheckInvariantsFlag:
		return "treediff.CheckInvariants"
	default:
		panic("never reached")
	}
}
