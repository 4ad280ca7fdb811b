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

// Package typeshelper implements utility functions for the frontend's types.
package typeshelper

import (
	"slices"

	"go.uber.org/nullcheck/objc"
)

// Identical reports whether a and b denote the same type once typedef sugar and nullability
// annotations are stripped at every level.
func Identical(a, b *objc.Type) bool {
	a, b = a.Underlying(), b.Underlying()
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case objc.ObjectPointer:
		return a.Name == b.Name && slices.Equal(a.Protocols, b.Protocols)
	case objc.ID:
		return slices.Equal(a.Protocols, b.Protocols)
	case objc.Pointer:
		if a.Elem == nil || b.Elem == nil {
			return a.Name == b.Name
		}
		return Identical(a.Elem, b.Elem)
	case objc.BlockPointer, objc.FunctionPointer:
		if len(a.Params) != len(b.Params) || !Identical(a.Result, b.Result) {
			return false
		}
		for i := range a.Params {
			if !Identical(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return a.Name == b.Name
	}
}

// Signature returns the parameter and result types of a block or function pointer type, looking
// through typedef sugar. ok is false for any other type.
func Signature(t *objc.Type) (params []*objc.Type, result *objc.Type, ok bool) {
	if !t.IsCallable() {
		return nil, nil, false
	}
	u := t.Underlying()
	return u.Params, u.Result, true
}
