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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"znkr.io/treediff"
	"znkr.io/treediff/render"
	"znkr.io/treediff/tree"
)

const diffArgCount = 2

type diffFlags struct {
	format      string
	color       string
	maxDistance float64
	lang        string
	output      string
}

func (a *app) diffCmd() *cobra.Command {
	var flags diffFlags

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two files structurally",
		Long: `Compare the syntax trees of two files and print the edits that turn the old tree into the
new one.

Examples:
  treediff diff old.go new.go                # List edits
  treediff diff -f summary old.yaml new.yaml # Count edits per kind
  treediff diff -f json old.toml new.toml    # Machine readable edits`,
		Args: cobra.ExactArgs(diffArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			fl := cmd.Flags()
			if fl.Changed("format") {
				cfg.Format = flags.format
			}
			if fl.Changed("color") {
				cfg.Color = flags.color
			}
			if fl.Changed("max-distance") {
				cfg.MaxDistance = flags.maxDistance
			}
			if err := cfg.validate(); err != nil {
				return err
			}

			run := func(w io.Writer) error {
				return runDiff(cmd.Context(), w, a.log, cfg, args[0], args[1], flags.lang)
			}
			if flags.output == "" {
				return run(cmd.OutOrStdout())
			}

			if cfg.Color == colorAuto {
				cfg.Color = colorNever
			}
			f, err := os.Create(flags.output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			return writeAndClose(f, run)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", formatText, "output format (text, summary, json)")
	cmd.Flags().StringVar(&flags.color, "color", colorAuto, "colorize text output (auto, always, never)")
	cmd.Flags().Float64Var(&flags.maxDistance, "max-distance", 2.0, "largest distance at which nodes are matched")
	cmd.Flags().StringVar(&flags.lang, "lang", "", "language of both files (default: detected from the file extension)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// writeAndClose calls write with wc and closes wc. A failed close is reported, it may be the only
// sign of a failed write.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

func runDiff(ctx context.Context, w io.Writer, log *logrus.Logger, cfg Config, oldPath, newPath, lang string) error {
	if lang == "" {
		l, err := detectLanguage(newPath, "")
		if err != nil {
			return err
		}
		lang = l.name
	}
	l, err := detectLanguage(oldPath, lang)
	if err != nil {
		return err
	}
	schema, err := l.schema()
	if err != nil {
		return err
	}

	oldTree, oldSrc, err := parseFile(ctx, log, l, schema, oldPath)
	if err != nil {
		return err
	}
	newTree, newSrc, err := parseFile(ctx, log, l, schema, newPath)
	if err != nil {
		return err
	}

	start := time.Now()
	c := tree.NewComparer(schema, tree.ValueWeight(cfg.ValueWeight), tree.MaxLeaves(cfg.MaxLeaves))
	m := treediff.NewMatch(oldTree.Root(), newTree.Root(), c, nil, treediff.MaxDistance(cfg.MaxDistance))
	script := m.EditScript()
	edits := script.Edits()
	log.WithFields(logrus.Fields{
		"matched": m.Len(),
		"edits":   len(edits),
		"elapsed": time.Since(start),
	}).Debug("diffed")

	opts := []render.Option{render.Sources(oldSrc, newSrc)}
	if cfg.Color == colorAlways || (cfg.Color == colorAuto && !color.NoColor) {
		opts = append(opts, render.Color(nil))
	}

	switch cfg.Format {
	case formatSummary:
		_, err = io.WriteString(w, render.Summary(script))
	case formatJSON:
		err = render.JSON(w, edits, opts...)
	default:
		_, err = io.WriteString(w, render.Text(edits, opts...))
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
