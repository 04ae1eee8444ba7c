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

package tree

import (
	"fmt"
	"sync"
)

// Schema assigns labels to node kinds. Two trees can only be compared if they share a schema.
//
// Labels are assigned in the order in which kinds are first seen. The matching algorithm processes
// labels in ascending order, kinds registered first are therefore matched first. This can be used
// to match container kinds (e.g. function declarations) before their contents.
//
// A Schema is safe for concurrent use.
type Schema struct {
	mu     sync.RWMutex
	labels map[string]int
	kinds  []string
	ties   []int // indexed by label
}

// NewSchema returns a schema with the given kinds registered in order.
func NewSchema(kinds ...string) *Schema {
	s := &Schema{labels: make(map[string]int)}
	for _, k := range kinds {
		s.Label(k)
	}
	return s
}

// Label returns the label of a kind. Unknown kinds are registered.
func (s *Schema) Label(kind string) int {
	s.mu.RLock()
	l, ok := s.labels[kind]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.labels[kind]; ok {
		return l
	}
	l = len(s.kinds)
	s.labels[kind] = l
	s.kinds = append(s.kinds, kind)
	s.ties = append(s.ties, 0)
	return l
}

// Lookup returns the label of a kind, or false if the kind isn't registered.
func (s *Schema) Lookup(kind string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.labels[kind]
	return l, ok
}

// Kind returns the kind of a label. It panics if the label isn't registered.
func (s *Schema) Kind(label int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if label < 0 || label >= len(s.kinds) {
		panic(fmt.Sprintf("label %d is not registered", label))
	}
	return s.kinds[label]
}

// Len returns the number of registered kinds.
func (s *Schema) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.kinds)
}

// Tie ties a kind to its ancestor level levels up (1 = parent): nodes of this kind are only
// matched if these ancestors are matched to each other. A level of 0 unties the kind. The kind is
// registered if it's unknown.
func (s *Schema) Tie(kind string, level int) {
	if level < 0 {
		panic(fmt.Sprintf("tie level of %q must not be negative, got %d", kind, level))
	}
	l := s.Label(kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ties[l] = level
}

// TiedToAncestor returns the ancestor level a label is tied to, or 0.
func (s *Schema) TiedToAncestor(label int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if label < 0 || label >= len(s.ties) {
		return 0
	}
	return s.ties[label]
}
