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

// Package analysishelper provides helper functions shared by the analysis stages.
package analysishelper

import (
	"fmt"
	"runtime/debug"
)

// Result is the result struct for the analysis stages where the actual result is accompanied by
// an optional error.
type Result[T any] struct {
	// Res is the actual result from the stage.
	Res T
	// Err is the optional error from the stage.
	Err error
}

// WrapRun wraps the run function of an analysis stage to:
// (1) convert the return type to Result[T] and put the error in the Result[T].Err field in order
// to _not_ stop the analysis and let the caller decide what to do.
// (2) recover from a panic and convert it to an error with stack traces for easier debugging.
// This is to ensure that a crash while analyzing one method never aborts the whole run.
// Moreover, it also wraps the error from the stage with the given name to make it easier to
// identify the source of the error.
func WrapRun[In, T any](name string, f func(In) (T, error)) func(In) *Result[T] {
	return func(in In) (result *Result[T]) {
		result = &Result[T]{}
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("INTERNAL PANIC from %q: %s\n%s", name, r, string(debug.Stack()))
			}
		}()

		r, err := f(in)
		if err != nil {
			// Prefix the error with the name of the stage to make it easier to identify the source
			// of the error.
			err = fmt.Errorf("%s: %w", name, err)
		}
		result.Res = r
		result.Err = err
		return result
	}
}
