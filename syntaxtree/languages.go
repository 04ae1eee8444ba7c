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

package syntaxtree

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// language describes how source code of one language is turned into a tree.
type language struct {
	grammar func() *sitter.Language

	// first lists kinds that are registered before all others, they're matched first.
	first []string

	// ties lists kinds that must stay with an ancestor, by ancestor level.
	ties map[string]int
}

var extToLanguage = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".py":   "python",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".cxx":  "cpp",
	".hpp":  "cpp",
	".java": "java",
	".php":  "php",
	".rb":   "ruby",
}

var (
	languages     map[string]*language
	languagesOnce sync.Once
)

func initLanguages() {
	languagesOnce.Do(func() {
		clauses := map[string]int{
			"catch_clause":   1,
			"finally_clause": 1,
			"else_clause":    1,
		}
		languages = map[string]*language{
			"go": {
				grammar: golang.GetLanguage,
				first:   []string{"source_file", "function_declaration", "method_declaration", "type_declaration"},
				ties:    map[string]int{"parameter_list": 1, "field_declaration_list": 1},
			},
			"typescript": {
				grammar: ts.GetLanguage,
				first:   []string{"program", "class_declaration", "function_declaration", "method_definition"},
				ties:    clauses,
			},
			"javascript": {
				grammar: javascript.GetLanguage,
				first:   []string{"program", "class_declaration", "function_declaration", "method_definition"},
				ties:    clauses,
			},
			"python": {
				grammar: python.GetLanguage,
				first:   []string{"module", "class_definition", "function_definition"},
				ties: map[string]int{
					"except_clause":  1,
					"finally_clause": 1,
					"else_clause":    1,
					"elif_clause":    1,
				},
			},
			"rust": {
				grammar: rust.GetLanguage,
				first:   []string{"source_file", "mod_item", "impl_item", "struct_item", "function_item"},
				ties:    map[string]int{"else_clause": 1},
			},
			"c": {
				grammar: c.GetLanguage,
				first:   []string{"translation_unit", "function_definition", "struct_specifier"},
				ties:    map[string]int{"else_clause": 1},
			},
			"cpp": {
				grammar: cpp.GetLanguage,
				first:   []string{"translation_unit", "namespace_definition", "class_specifier", "function_definition"},
				ties:    map[string]int{"else_clause": 1, "catch_clause": 1},
			},
			"java": {
				grammar: java.GetLanguage,
				first:   []string{"program", "class_declaration", "interface_declaration", "method_declaration"},
				ties:    map[string]int{"catch_clause": 1, "finally_clause": 1},
			},
			"php": {
				grammar: php.GetLanguage,
				first:   []string{"program", "class_declaration", "function_definition", "method_declaration"},
				ties: map[string]int{
					"catch_clause":   1,
					"finally_clause": 1,
					"else_clause":    1,
					"else_if_clause": 1,
				},
			},
			"ruby": {
				grammar: ruby.GetLanguage,
				first:   []string{"program", "module", "class", "method"},
				ties:    map[string]int{"rescue": 1, "ensure": 1, "else": 1, "elsif": 1},
			},
		}
	})
}

func lookup(lang string) (*language, bool) {
	initLanguages()
	l, ok := languages[lang]
	return l, ok
}

// Languages returns the names of all supported languages in alphabetical order.
func Languages() []string {
	initLanguages()
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LanguageForFile returns the language of a file based on its extension.
func LanguageForFile(path string) (string, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}
