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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidMaxDistance = errors.New("max distance must be non-negative")
	ErrInvalidValueWeight = errors.New("value weight must be in [0, 1]")
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrInvalidColor       = errors.New("invalid color mode")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

const (
	formatText    = "text"
	formatSummary = "summary"
	formatJSON    = "json"

	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

var (
	formats    = []string{formatText, formatSummary, formatJSON}
	colorModes = []string{colorAuto, colorAlways, colorNever}
)

// Config holds the settings of the treediff command.
type Config struct {
	MaxDistance float64 `mapstructure:"max_distance"`
	ValueWeight float64 `mapstructure:"value_weight"`
	MaxLeaves   int     `mapstructure:"max_leaves"`
	Format      string  `mapstructure:"format"`
	Color       string  `mapstructure:"color"`
	LogLevel    string  `mapstructure:"log_level"`
}

// LoadConfig loads the configuration from a file and TREEDIFF_* environment variables. Without an
// explicit path, treediff.{yaml,toml,json} is looked up in the working directory and in
// $HOME/.config/treediff; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("treediff")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "treediff"))
		}
	}

	v.SetEnvPrefix("TREEDIFF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_distance", 2.0)
	v.SetDefault("value_weight", 0.5)
	v.SetDefault("max_leaves", 512)
	v.SetDefault("format", formatText)
	v.SetDefault("color", colorAuto)
	v.SetDefault("log_level", "warning")
}

func (cfg *Config) validate() error {
	if !(cfg.MaxDistance >= 0) {
		return fmt.Errorf("%w: %v", ErrInvalidMaxDistance, cfg.MaxDistance)
	}
	if !(cfg.ValueWeight >= 0 && cfg.ValueWeight <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidValueWeight, cfg.ValueWeight)
	}
	if cfg.MaxLeaves <= 0 {
		cfg.MaxLeaves = 512
	}
	if !slices.Contains(formats, cfg.Format) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidFormat, cfg.Format, strings.Join(formats, ", "))
	}
	if !slices.Contains(colorModes, cfg.Color) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidColor, cfg.Color, strings.Join(colorModes, ", "))
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}
	return nil
}

// newLogger returns a logger writing to stderr. Verbose output overrides the configured level.
func newLogger(cfg *Config, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}
