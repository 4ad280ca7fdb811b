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

package annotation

import "go.uber.org/nullcheck/util/typeshelper"

// Verdict is the result of comparing an expected nullability against an actual one.
type Verdict uint8

const (
	// Compatible means the actual value may flow into the expected position.
	Compatible Verdict = iota
	// IncompatibleTopLevel means a non-null value is required at the outermost type but the actual
	// value is not known to be non-null.
	IncompatibleTopLevel
	// IncompatibleNested means the outer kinds agree but a nested block or function signature
	// disagrees under variance.
	IncompatibleNested
)

// String returns a short name for the verdict.
func (v Verdict) String() string {
	switch v {
	case Compatible:
		return "compatible"
	case IncompatibleTopLevel:
		return "incompatible"
	case IncompatibleNested:
		return "incompatible nested"
	default:
		return "unknown"
	}
}

// Compare decides whether a value with the actual nullability may flow into a position that
// expects the expected nullability:
//
//  1. A NonNull expectation is only met by a NonNull value, otherwise IncompatibleTopLevel.
//  2. If both types are block or function pointers, their signatures must agree: the same arity,
//     return types compared covariantly and parameter types contravariantly (expected and actual
//     swap roles). Any disagreement yields IncompatibleNested.
//  3. Anything else is Compatible.
//
// The nested types are compared with their own declared kinds.
func Compare(expected, actual ExprNullability) Verdict {
	if expected.Kind == NonNull && actual.Kind != NonNull {
		return IncompatibleTopLevel
	}

	expParams, expResult, expOK := typeshelper.Signature(expected.Type)
	actParams, actResult, actOK := typeshelper.Signature(actual.Type)
	if !expOK || !actOK {
		return Compatible
	}
	if len(expParams) != len(actParams) {
		return IncompatibleNested
	}

	// Covariant on the return type.
	if Compare(Declared(expResult), Declared(actResult)) != Compatible {
		return IncompatibleNested
	}
	// Contravariant on the parameters.
	for i := range expParams {
		if Compare(Declared(actParams[i]), Declared(expParams[i])) != Compatible {
			return IncompatibleNested
		}
	}
	return Compatible
}
