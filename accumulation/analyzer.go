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

// Package accumulation coordinates the entire workflow: it runs the method body and initializer
// checks over every method of every translation unit and collects the diagnostics in a
// deterministic order for upper-level drivers to report.
package accumulation

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"go.uber.org/nullcheck/assertion/function"
	"go.uber.org/nullcheck/assertion/initializer"
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/objc"
	"go.uber.org/nullcheck/util/analysishelper"
	"golang.org/x/sync/errgroup"
)

// methodInput is everything a single method check needs.
type methodInput struct {
	conf   *config.Config
	impl   *objc.ImplementationDecl
	method *objc.MethodDecl
}

// unitResult is the outcome of analyzing one translation unit.
type unitResult struct {
	diagnostics []diagnostic.Diagnostic
	errs        []error
}

// Run is the primary driver of the analysis.
//
// Translation units are analyzed concurrently, at most conf.Jobs at a time. Inside a unit, every
// method with a body is checked by the method body checker and, for designated initializers, by
// the initializer checker. Each method reports into its own diagnostic bag, and a failure (even
// a panic) in one method only drops that method's diagnostics: its error is joined into the
// returned error while the diagnostics of all other methods are still returned.
//
// The returned diagnostics are sorted by position, and grouped if conf.GroupDiagnostics is set.
// Cancellation of ctx is checked between methods.
func Run(ctx context.Context, conf *config.Config, units []*objc.TranslationUnit) ([]diagnostic.Diagnostic, error) {
	if len(units) == 0 {
		return nil, ctx.Err()
	}
	jobs := conf.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own slot.
	results := make([]unitResult, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))
	for i, unit := range units {
		g.Go(func() error {
			results[i] = analyzeUnit(gctx, conf, unit)
			return nil
		})
	}
	// Failures are carried in the results so that one unit never cancels the others.
	_ = g.Wait()

	engine := diagnostic.NewEngine()
	var errs []error
	for _, r := range results {
		engine.Add(r.diagnostics...)
		errs = append(errs, r.errs...)
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return engine.Diagnostics(conf.GroupDiagnostics), errors.Join(errs...)
}

func analyzeUnit(ctx context.Context, conf *config.Config, unit *objc.TranslationUnit) unitResult {
	start := time.Now()
	var (
		result  unitResult
		methods int
	)
	for _, impl := range unit.Implementations {
		for _, method := range impl.Methods {
			if method.Body == nil {
				continue
			}
			if ctx.Err() != nil {
				return result
			}

			name := method.Sign() + "[" + impl.Name() + " " + method.Selector + "]"
			r := analysishelper.WrapRun(name, checkMethod)(methodInput{conf: conf, impl: impl, method: method})
			methods++
			if r.Err != nil {
				slog.ErrorContext(ctx, "method analysis failed", "unit", unit.MainFile, "method", name, "error", r.Err)
				result.errs = append(result.errs, r.Err)
				continue
			}
			result.diagnostics = append(result.diagnostics, r.Res...)
		}
	}

	slog.DebugContext(ctx, "analyzed translation unit",
		"unit", unit.MainFile,
		"methods", methods,
		"diagnostics", len(result.diagnostics),
		"elapsed", time.Since(start),
	)
	return result
}

// checkMethod runs both checks over one method and returns what they reported.
func checkMethod(in methodInput) ([]diagnostic.Diagnostic, error) {
	var bag diagnostic.Bag
	function.Run(in.conf, in.impl.Class, in.method, &bag)
	initializer.Run(in.conf, in.impl, in.method, &bag)
	return bag.Diagnostics(), nil
}
