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

// Package nullcheck implements the top-level analyzer: it loads the translation-unit dumps,
// retrieves the diagnostics from the accumulation stage and formats them for reporting.
package nullcheck

import (
	"context"
	"fmt"
	"regexp"
	"runtime"

	"github.com/fatih/color"
	"go.uber.org/nullcheck/accumulation"
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/loader"
	"go.uber.org/nullcheck/objc"
	"golang.org/x/sync/errgroup"
)

// Analyzer is the top-level instance of the analysis. It is safe for concurrent use as long as
// its fields are not modified.
type Analyzer struct {
	// Config is the configuration of the run; nil means config.Default().
	Config *config.Config
	// Sources restricts the analysis to the translation units whose main file it contains; nil
	// analyzes every unit.
	Sources loader.Sources
}

func (a *Analyzer) config() *config.Config {
	if a.Config == nil {
		return config.Default()
	}
	return a.Config
}

// Load reads the dumps at paths concurrently. The units are returned in the order of paths.
func (a *Analyzer) Load(ctx context.Context, paths []string) ([]*objc.TranslationUnit, error) {
	jobs := a.config().Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	units := make([]*objc.TranslationUnit, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tu, err := loader.Load(path)
			if err != nil {
				return err
			}
			units[i] = tu
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// Analyze runs the analysis over the units in scope and returns the diagnostics sorted by
// position. A non-nil error reports methods that could not be analyzed; the diagnostics of all
// other methods are still returned.
func (a *Analyzer) Analyze(ctx context.Context, units []*objc.TranslationUnit) ([]diagnostic.Diagnostic, error) {
	inScope := units
	if a.Sources != nil {
		inScope = nil
		for _, tu := range units {
			if a.Sources.Contains(tu.MainFile) {
				inScope = append(inScope, tu)
			}
		}
	}
	return accumulation.Run(ctx, a.config(), inScope)
}

// Run loads the dumps at paths and analyzes them.
func (a *Analyzer) Run(ctx context.Context, paths []string) ([]diagnostic.Diagnostic, error) {
	units, err := a.Load(ctx, paths)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, units)
}

// Format renders the diagnostic for output, post-processed with colors if pretty printing is
// enabled. Colors are governed by color.NoColor.
func (a *Analyzer) Format(d diagnostic.Diagnostic) string {
	if !a.config().PrettyPrint {
		return d.String()
	}
	return prettyPrint(d)
}

var (
	_methodPattern        = regexp.MustCompile(`[-+]\[[^\]]+\]`)
	_codeReferencePattern = regexp.MustCompile("`[^`]*`")
	_nullabilityPattern   = regexp.MustCompile(`\b(nonnull|nullable|unspecified)\b`)
)

var (
	_positionColor    = color.New(color.Bold)
	_warningColor     = color.New(color.FgMagenta, color.Bold)
	_remarkColor      = color.New(color.FgCyan, color.Bold)
	_methodColor      = color.New(color.FgCyan)
	_codeColor        = color.New(color.FgHiMagenta)
	_nullabilityColor = color.New(color.Bold)
)

// prettyPrint is used in reporting to post process and pretty print the output with colors.
func prettyPrint(d diagnostic.Diagnostic) string {
	severity := _warningColor
	if d.Severity == diagnostic.Remark {
		severity = _remarkColor
	}

	msg := d.Message
	msg = _nullabilityPattern.ReplaceAllStringFunc(msg, paint(_nullabilityColor))
	msg = _methodPattern.ReplaceAllStringFunc(msg, paint(_methodColor))
	msg = _codeReferencePattern.ReplaceAllStringFunc(msg, paint(_codeColor))

	s := fmt.Sprintf("%s: %s %s", _positionColor.Sprint(d.Position), severity.Sprint(d.Severity.String()+":"), msg)
	if d.Similar > 0 {
		s += fmt.Sprintf(" (and %d similar)", d.Similar)
	}
	return s
}

func paint(c *color.Color) func(string) string {
	return func(s string) string { return c.Sprint(s) }
}
