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

package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Clause is a single filter clause matched against the subjects of a diagnostic.
type Clause interface {
	// Match returns true if the clause accepts any of the subjects.
	Match(subjects []string) bool
	String() string
}

// TextClause accepts a subject equal to its text.
type TextClause string

// Match returns true if any subject equals the text.
func (c TextClause) Match(subjects []string) bool {
	for _, s := range subjects {
		if s == string(c) {
			return true
		}
	}
	return false
}

func (c TextClause) String() string {
	return string(c)
}

// RegexpClause accepts a subject that contains a match of its expression anywhere.
type RegexpClause struct {
	re *regexp.Regexp
}

// Match returns true if any subject contains a match of the expression.
func (c RegexpClause) Match(subjects []string) bool {
	for _, s := range subjects {
		if c.re.MatchString(s) {
			return true
		}
	}
	return false
}

func (c RegexpClause) String() string {
	return "/" + c.re.String() + "/"
}

// ParseClause parses a filter clause: `/expr/` is a regular expression, anything else is matched
// literally.
func ParseClause(s string) (Clause, error) {
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		re, err := regexp.Compile(s[1 : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", s, err)
		}
		return RegexpClause{re: re}, nil
	}
	return TextClause(s), nil
}

// Filter gates diagnostics by the names of the classes and protocols they implicate.
type Filter []Clause

// ParseFilter parses every clause.
func ParseFilter(clauses []string) (Filter, error) {
	f := make(Filter, 0, len(clauses))
	for _, s := range clauses {
		c, err := ParseClause(s)
		if err != nil {
			return nil, err
		}
		f = append(f, c)
	}
	return f, nil
}

// Accept returns true if the filter is empty, or if any clause matches any of the subjects.
func (f Filter) Accept(subjects []string) bool {
	if len(f) == 0 {
		return true
	}
	for _, c := range f {
		if c.Match(subjects) {
			return true
		}
	}
	return false
}

func (f Filter) String() string {
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
