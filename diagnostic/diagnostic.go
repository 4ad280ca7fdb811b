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

package diagnostic

import (
	"fmt"
	"go/token"
	"slices"
)

// Severity is the severity of a diagnostic.
type Severity uint8

const (
	// Warning is a nullability violation.
	Warning Severity = iota
	// Remark is an informational note emitted only in debug mode.
	Remark
)

func (s Severity) String() string {
	if s == Remark {
		return "remark"
	}
	return "warning"
}

// MarshalText makes Severity render as its name in machine-readable output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a single finding at a source location.
type Diagnostic struct {
	Position token.Position `json:"position"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
	// Subjects are the class and protocol names implicated by the diagnostic. They are what the
	// filter matches against.
	Subjects []string `json:"subjects,omitempty"`
	// Similar counts other occurrences folded into this one when grouping is enabled.
	Similar int `json:"similar,omitempty"`
}

// String renders the diagnostic the way compilers do: "file:line:col: warning: message".
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s: %s", d.Position, d.Severity, d.Message)
	if d.Similar > 0 {
		s += fmt.Sprintf(" (and %d similar)", d.Similar)
	}
	return s
}

// Reporter is the sink the checkers report into. It is passed explicitly to each checker; there
// is no global reporter.
type Reporter interface {
	Report(d Diagnostic)
}

// Bag is a Reporter that collects diagnostics in report order. It is not safe for concurrent
// use: each analyzed method gets its own bag.
type Bag struct {
	diagnostics []Diagnostic
}

// Report adds the diagnostic to the bag.
func (b *Bag) Report(d Diagnostic) {
	b.diagnostics = append(b.diagnostics, d)
}

// Diagnostics returns the collected diagnostics.
func (b *Bag) Diagnostics() []Diagnostic {
	return b.diagnostics
}

// Messages returns the messages of the collected diagnostics of the given severity, in report
// order.
func (b *Bag) Messages(severity Severity) []string {
	var msgs []string
	for _, d := range b.diagnostics {
		if d.Severity == severity {
			msgs = append(msgs, d.Message)
		}
	}
	return msgs
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int {
	return len(b.diagnostics)
}

// Discard is a Reporter that drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Warningf builds a warning diagnostic.
func Warningf(pos token.Position, subjects []string, format string, args ...any) Diagnostic {
	return Diagnostic{
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
		Severity: Warning,
		Subjects: slices.Clone(subjects),
	}
}

// Remarkf builds a remark diagnostic.
func Remarkf(pos token.Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
		Severity: Remark,
	}
}
