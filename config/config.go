//  Copyright (c) 2023 Uber Technologies, Inc.
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

// Package config implements the configuration of the analysis: the user-facing settings, how
// they are loaded from a configuration file, and the class filter.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the configuration of a single analysis run.
type Config struct {
	// Debug enables the informational remarks (inferred variable nullability, unexpected
	// expression shapes) in addition to the warnings.
	Debug bool
	// PrettyPrint enables colored, human-friendly output.
	PrettyPrint bool
	// GroupDiagnostics folds identical diagnostics at the same position into one.
	GroupDiagnostics bool
	// Jobs is the maximum number of translation units analyzed concurrently.
	Jobs int
	// Filter gates which diagnostics are emitted; empty accepts everything.
	Filter Filter
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		PrettyPrint:      true,
		GroupDiagnostics: true,
		Jobs:             runtime.GOMAXPROCS(0),
	}
}

// LogValue implements slog.LogValuer.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("debug", c.Debug),
		slog.Bool("pretty_print", c.PrettyPrint),
		slog.Bool("group", c.GroupDiagnostics),
		slog.Int("jobs", c.Jobs),
		slog.String("filters", c.Filter.String()),
	)
}

// file is the on-disk form of the configuration. Pointers distinguish "not set" from the zero
// value so that the file only overrides what it spells out.
type file struct {
	Debug       *bool    `toml:"debug"`
	PrettyPrint *bool    `toml:"pretty_print"`
	Group       *bool    `toml:"group"`
	Jobs        *int     `toml:"jobs"`
	Filters     []string `toml:"filters"`
}

// LoadFile applies the settings of the TOML configuration file at path on top of c.
func (c *Config) LoadFile(path string) error {
	var f file
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	if f.Debug != nil {
		c.Debug = *f.Debug
	}
	if f.PrettyPrint != nil {
		c.PrettyPrint = *f.PrettyPrint
	}
	if f.Group != nil {
		c.GroupDiagnostics = *f.Group
	}
	if f.Jobs != nil {
		if *f.Jobs < 1 {
			return fmt.Errorf("%s: jobs must be positive, got %d", path, *f.Jobs)
		}
		c.Jobs = *f.Jobs
	}
	if meta.IsDefined("filters") {
		filter, err := ParseFilter(f.Filters)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		c.Filter = filter
	}
	return nil
}

// Find walks up from startDir to locate the configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
