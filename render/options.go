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

package render

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"github.com/fatih/color"
	"znkr.io/treediff"
)

type config struct {
	colors         map[treediff.EditKind]*color.Color
	oldPos, newPos *positions
}

// A Option configures the output of [Text] and [JSON].
type Option func(*config)

func newConfig(opts []Option) *config {
	cfg := &config{oldPos: &positions{}, newPos: &positions{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Color colors the lines of [Text] with the given palette, or with [Palette] if palette is nil.
// Colors are written even if the output isn't a terminal.
func Color(palette map[treediff.EditKind]*color.Color) Option {
	if palette == nil {
		palette = Palette()
	}
	return func(cfg *config) {
		cfg.colors = make(map[treediff.EditKind]*color.Color, len(palette))
		for k, c := range palette {
			c.EnableColor()
			cfg.colors[k] = c
		}
	}
}

// Sources provides the sources of the old and the new tree. Positions are then written as line
// and column (both 1-based, columns count runes) instead of byte offsets.
func Sources(oldSrc, newSrc []byte) Option {
	return func(cfg *config) {
		cfg.oldPos = newPositions(oldSrc)
		cfg.newPos = newPositions(newSrc)
	}
}

// positions converts byte offsets into lines and columns.
type positions struct {
	src        []byte
	lineStarts []int
}

func newPositions(src []byte) *positions {
	p := &positions{src: src, lineStarts: []int{0}}
	for i := 0; ; {
		j := bytes.IndexByte(src[i:], '\n')
		if j < 0 {
			break
		}
		i += j + 1
		p.lineStarts = append(p.lineStarts, i)
	}
	return p
}

func (p *positions) lineCol(offset int) (line, col int, ok bool) {
	if p.src == nil || offset < 0 || offset > len(p.src) {
		return 0, 0, false
	}
	i := sort.Search(len(p.lineStarts), func(i int) bool { return p.lineStarts[i] > offset }) - 1
	return i + 1, utf8.RuneCount(p.src[p.lineStarts[i]:offset]) + 1, true
}
