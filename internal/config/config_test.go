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

package config_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/treediff"
	"znkr.io/treediff/internal/config"
)

func TestFromOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []config.Option
		want config.Config
	}{
		{
			name: "default",
			opts: nil,
			want: config.Default,
		},
		{
			name: "max-distance",
			opts: []config.Option{
				treediff.MaxDistance(0.5),
			},
			want: config.Config{
				MaxDistance:     0.5,
				CheckInvariants: config.Default.CheckInvariants,
			},
		},
		{
			name: "check-invariants",
			opts: []config.Option{
				treediff.CheckInvariants(),
			},
			want: config.Config{
				MaxDistance:     config.Default.MaxDistance,
				CheckInvariants: true,
			},
		},
		{
			name: "max-distance-override",
			opts: []config.Option{
				treediff.MaxDistance(0.5),
				treediff.CheckInvariants(),
				treediff.MaxDistance(1),
			},
			want: config.Config{
				MaxDistance:     1,
				CheckInvariants: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := config.FromOptions(tt.opts, config.MaxDistanceFlag|config.CheckInvariantsFlag)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromOptions(...) result are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestFromOptionsNotAllowed(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("FromOptions(...) did not panic for a disallowed option")
		}
	}()
	config.FromOptions([]config.Option{treediff.CheckInvariants()}, config.MaxDistanceFlag)
}

func TestThresholds(t *testing.T) {
	tests := []struct {
		name string
		max  float64
		want []float64
	}{
		{
			name: "default",
			max:  config.MaxDistance,
			want: []float64{config.EpsilonDistance, config.MatchingDistance1, config.MatchingDistance2, config.MatchingDistance3, config.MaxDistance},
		},
		{
			name: "exact-only",
			max:  0,
			want: []float64{0},
		},
		{
			name: "between",
			max:  0.75,
			want: []float64{config.EpsilonDistance, config.MatchingDistance1, 0.75},
		},
		{
			name: "on-boundary",
			max:  config.MatchingDistance2,
			want: []float64{config.EpsilonDistance, config.MatchingDistance1, config.MatchingDistance2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := config.Config{MaxDistance: tt.max}.Thresholds()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Thresholds() result are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestFromOptionsInvalidMaxDistance(t *testing.T) {
	for _, d := range []float64{-0.5, math.NaN()} {
		t.Run(fmt.Sprint(d), func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("FromOptions(...) did not panic for MaxDistance(%v)", d)
				}
			}()
			config.FromOptions([]config.Option{treediff.MaxDistance(d)}, config.MaxDistanceFlag)
		})
	}
}
