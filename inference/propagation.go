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
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/objc"
)

// Propagate seeds the calculator's environment from the body in a single forward pass: every
// local variable whose declared pointer type carries no annotation and that has an initializer
// gets the initializer's nullability, and every unannotated fast-enumeration element is
// NonNull.
//
// Nested block literals are skipped; they get their own pass when the checker enters them. The
// pass does not iterate: a later reassignment does not change a seeded entry.
func Propagate(calc *Calculator, body objc.Stmt) {
	if body == nil {
		return
	}
	env := calc.Env()
	objc.Inspect(body, func(n objc.Node) bool {
		switch n := n.(type) {
		case *objc.BlockExpr:
			return false
		case *objc.DeclStmt:
			for _, v := range n.Decls {
				if !unannotatedPointer(v) || v.Init == nil {
					continue
				}
				if _, ok := v.Init.(*objc.ImplicitValueInitExpr); ok {
					continue
				}
				env.Set(v, annotation.ExprNullability{Type: v.Type, Kind: calc.Nullability(v.Init).Kind})
			}
		case *objc.ForInStmt:
			if decl, ok := n.Element.(*objc.DeclStmt); ok {
				for _, v := range decl.Decls {
					if unannotatedPointer(v) {
						env.Set(v, annotation.ExprNullability{Type: v.Type, Kind: annotation.NonNull})
					}
				}
			}
			if n.Body != nil {
				Propagate(calc, n.Body)
			}
			return false
		}
		return true
	})
}

func unannotatedPointer(v *objc.VarDecl) bool {
	return v != nil && v.Type.IsPointerLike() && v.Type.Nullability() == objc.NoAnnotation
}

// ReportEnv emits one remark per recorded variable with its inferred nullability.
func ReportEnv(env *Env, r diagnostic.Reporter) {
	env.Range(func(v *objc.VarDecl, n annotation.ExprNullability) bool {
		r.Report(diagnostic.Remarkf(v.Pos, "Variable nullability: %s", n.Kind))
		return true
	})
}
