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

// Package diagnostic hosts the diagnostic engine, which is responsible for collecting the
// diagnostics reported by the method body and initializer checks and turning them into a
// deterministic, optionally grouped, stream for output.
package diagnostic

import (
	"cmp"
	"slices"
	"strings"

	"go.uber.org/nullcheck/util/tokenhelper"
)

// Engine is the main engine for generating the final diagnostics stream.
type Engine struct {
	diagnostics []Diagnostic
}

// NewEngine creates a new diagnostic engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Add adds diagnostics to the engine. Positions are made relative to the current working
// directory so that reports are independent of where the sources were checked out.
func (e *Engine) Add(ds ...Diagnostic) {
	for _, d := range ds {
		d.Position = tokenhelper.PortablePosition(d.Position)
		e.diagnostics = append(e.diagnostics, d)
	}
}

// Diagnostics returns the collected diagnostics sorted by file names and then positions in the
// file. The grouping parameter controls whether diagnostics with the same message at the same
// position (e.g., a check site reached once per enclosing block) are folded into the first one
// for concise reporting.
func (e *Engine) Diagnostics(grouping bool) []Diagnostic {
	diagnostics := slices.Clone(e.diagnostics)
	// Stable, so that diagnostics at the same position keep their report order.
	slices.SortStableFunc(diagnostics, compareDiagnostics)

	if grouping {
		diagnostics = groupDiagnostics(diagnostics)
	}
	return diagnostics
}

func compareDiagnostics(a, b Diagnostic) int {
	if n := cmp.Compare(a.Position.Filename, b.Position.Filename); n != 0 {
		return n
	}
	if n := cmp.Compare(a.Position.Line, b.Position.Line); n != 0 {
		return n
	}
	if n := cmp.Compare(a.Position.Column, b.Position.Column); n != 0 {
		return n
	}
	return cmp.Compare(a.Position.Offset, b.Position.Offset)
}

// groupDiagnostics folds diagnostics with the same position, severity and message into the first
// occurrence and merges their subjects. The input must be sorted.
func groupDiagnostics(all []Diagnostic) []Diagnostic {
	groups := make(map[string]int) // key: position + message, value: index in `grouped`
	var grouped []Diagnostic
	for _, d := range all {
		key := strings.Join([]string{d.Position.String(), d.Severity.String(), d.Message}, "\x00")
		if i, ok := groups[key]; ok {
			grouped[i].Similar++
			for _, s := range d.Subjects {
				if !slices.Contains(grouped[i].Subjects, s) {
					grouped[i].Subjects = append(grouped[i].Subjects, s)
				}
			}
			continue
		}
		groups[key] = len(grouped)
		d.Subjects = slices.Clone(d.Subjects)
		grouped = append(grouped, d)
	}
	return grouped
}
