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
	"github.com/spf13/cobra"
)

func (a *app) treeCmd() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the tree of a file",
		Long: `Print the tree that diff builds for a file, one node per line, indented by depth.

Examples:
  treediff tree main.go
  treediff tree --lang yaml config.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := detectLanguage(args[0], lang)
			if err != nil {
				return err
			}
			schema, err := l.schema()
			if err != nil {
				return err
			}
			t, _, err := parseFile(cmd.Context(), a.log, l, schema, args[0])
			if err != nil {
				return err
			}
			return t.Dump(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "language of the file (default: detected from the file extension)")

	return cmd
}
