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

package inference

import (
	"go.uber.org/nullcheck/annotation"
	"go.uber.org/nullcheck/objc"
	"go.uber.org/nullcheck/util/orderedmap"
)

// Env maps variable declarations to the nullability currently known for them. Variables absent
// from the environment fall back to their declared annotation.
//
// An Env is owned by the traversal frame that created it. Branch scopes never narrow their
// parent's environment: they Clone it and discard the clone at scope exit.
type Env struct {
	vars *orderedmap.OrderedMap[*objc.VarDecl, annotation.ExprNullability]
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{vars: orderedmap.New[*objc.VarDecl, annotation.ExprNullability]()}
}

// Set records the nullability of the variable.
func (e *Env) Set(v *objc.VarDecl, n annotation.ExprNullability) {
	e.vars.Store(v, n)
}

// Narrow records that the variable is known to be non-null, keeping its declared type.
func (e *Env) Narrow(v *objc.VarDecl) {
	e.Set(v, annotation.ExprNullability{Type: v.Type, Kind: annotation.NonNull})
}

// Lookup returns the recorded nullability of the variable, or its declared one if nothing is
// recorded.
func (e *Env) Lookup(v *objc.VarDecl) annotation.ExprNullability {
	if n, ok := e.vars.Load(v); ok {
		return n
	}
	return annotation.Declared(v.Type)
}

// Has reports whether a nullability is recorded for the variable.
func (e *Env) Has(v *objc.VarDecl) bool {
	return e.vars.Has(v)
}

// Len returns the number of recorded variables.
func (e *Env) Len() int {
	return e.vars.Len()
}

// Clone returns an independent copy: changes to either are not observable in the other.
func (e *Env) Clone() *Env {
	return &Env{vars: e.vars.Clone()}
}

// Range calls f for each recorded variable in the order it was first recorded.
func (e *Env) Range(f func(v *objc.VarDecl, n annotation.ExprNullability) bool) {
	e.vars.OrderedRange(f)
}
