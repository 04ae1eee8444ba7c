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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"znkr.io/treediff/syntaxtree"
	"znkr.io/treediff/tomltree"
	"znkr.io/treediff/tree"
	"znkr.io/treediff/yamltree"
)

// ErrUnsupportedFileType is returned for files whose language can't be determined.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// A language knows how to build trees for one kind of input.
type language struct {
	name   string
	schema func() (*tree.Schema, error)
	parse  func(ctx context.Context, s *tree.Schema, src []byte) (*tree.Tree, error)
}

// detectLanguage picks the language for path, or the language named by lang if it isn't empty.
func detectLanguage(path, lang string) (*language, error) {
	if lang == "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			lang = "yaml"
		case ".json":
			lang = "json"
		case ".toml":
			lang = "toml"
		default:
			l, ok := syntaxtree.LanguageForFile(path)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
			}
			lang = l
		}
	}

	switch lang {
	case "yaml", "json":
		return &language{
			name:   lang,
			schema: func() (*tree.Schema, error) { return yamltree.NewSchema(), nil },
			parse: func(_ context.Context, s *tree.Schema, src []byte) (*tree.Tree, error) {
				return yamltree.Parse(s, src)
			},
		}, nil
	case "toml":
		return &language{
			name:   lang,
			schema: func() (*tree.Schema, error) { return tomltree.NewSchema(), nil },
			parse: func(_ context.Context, s *tree.Schema, src []byte) (*tree.Tree, error) {
				return tomltree.Parse(s, src)
			},
		}, nil
	default:
		if _, err := syntaxtree.NewSchema(lang); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFileType, err)
		}
		return &language{
			name:   lang,
			schema: func() (*tree.Schema, error) { return syntaxtree.NewSchema(lang) },
			parse: func(ctx context.Context, s *tree.Schema, src []byte) (*tree.Tree, error) {
				return syntaxtree.Parse(ctx, s, lang, src)
			},
		}, nil
	}
}

// parseFile reads and parses a file.
func parseFile(ctx context.Context, log *logrus.Logger, l *language, s *tree.Schema, path string) (*tree.Tree, []byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	start := time.Now()
	t, err := l.parse(ctx, s, src)
	if err != nil {
		return nil, nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	log.WithFields(logrus.Fields{
		"file":     path,
		"language": l.name,
		"nodes":    t.Len(),
		"elapsed":  time.Since(start),
	}).Debug("parsed")
	return t, src, nil
}
