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
	"slices"

	"go.uber.org/nullcheck/annotation"
	"go.uber.org/nullcheck/objc"
	"go.uber.org/nullcheck/util/asthelper"
)

// Dependencies computes, for expressions of one body, the set of expressions that may be the
// syntactic source of their value. It is only used to attribute diagnostics to the classes
// responsible for them.
type Dependencies struct {
	body objc.Node
	// sites maps each variable to the initializer and assignment right-hand sides that target
	// it anywhere in the body, including nested blocks. It is built on first use.
	sites map[*objc.VarDecl][]objc.Expr
}

// NewDependencies returns a dependency calculator over the body.
func NewDependencies(body objc.Node) *Dependencies {
	return &Dependencies{body: body}
}

// Expand returns the one-step expansion of the expression:
//   - wrappers expand to the expression they wrap;
//   - a conditional expands to both branches, an elvis expression to its fallback only;
//   - a message send expands to its instance receiver, and to itself when the callee does not
//     declare a non-null return;
//   - a variable reference expands to every initializer of and assignment to the variable;
//   - anything else expands to itself.
func (d *Dependencies) Expand(e objc.Expr) []objc.Expr {
	switch e := asthelper.Unwrap(e).(type) {
	case nil:
		return nil
	case *objc.CleanupsExpr:
		return []objc.Expr{e.X}
	case *objc.PseudoObjectExpr:
		return []objc.Expr{e.Result}
	case *objc.OpaqueValueExpr:
		return []objc.Expr{e.Source}
	case *objc.ConditionalExpr:
		return []objc.Expr{e.Then, e.Else}
	case *objc.BinaryConditionalExpr:
		return []objc.Expr{e.Else}
	case *objc.MessageExpr:
		var deps []objc.Expr
		if e.ReceiverKind == objc.InstanceReceiver && e.Receiver != nil {
			deps = append(deps, e.Receiver)
		}
		if e.Method == nil || annotation.KindOf(e.Method.Result) != annotation.NonNull {
			deps = append(deps, e)
		}
		return deps
	case *objc.DeclRef:
		if e.Var == nil {
			return nil
		}
		return slices.Clone(d.sitesOf(e.Var))
	default:
		return []objc.Expr{e}
	}
}

// Closure returns the smallest set of expressions that contains the expression and is closed
// under Expand, in discovery order. Elements are stripped of parentheses and implicit casts.
func (d *Dependencies) Closure(e objc.Expr) []objc.Expr {
	seen := make(map[objc.Expr]bool)
	var closure []objc.Expr
	add := func(e objc.Expr) {
		e = asthelper.Unwrap(e)
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		closure = append(closure, e)
	}

	add(e)
	// Every element is expanded exactly once, so chains of reassignments terminate.
	for i := 0; i < len(closure); i++ {
		for _, dep := range d.Expand(closure[i]) {
			add(dep)
		}
	}
	return closure
}

// Subjects returns the names of the classes and protocols declaring the message sends found in
// the closure of the expression, deduplicated, in discovery order.
func (d *Dependencies) Subjects(e objc.Expr) []string {
	var subjects []string
	for _, dep := range d.Closure(e) {
		send, ok := dep.(*objc.MessageExpr)
		if !ok {
			continue
		}
		name := SendSubject(send)
		if name != "" && !slices.Contains(subjects, name) {
			subjects = append(subjects, name)
		}
	}
	return subjects
}

// SendSubject returns the class or protocol a message send is attributed to: the container of
// the resolved callee, or else the class of the static receiver type.
func SendSubject(send *objc.MessageExpr) string {
	if name := send.Method.ContainerName(); name != "" {
		return name
	}
	if t := send.ReceiverType.Underlying(); t != nil && t.Kind == objc.ObjectPointer {
		return t.Name
	}
	return ""
}

func (d *Dependencies) sitesOf(v *objc.VarDecl) []objc.Expr {
	if d.sites == nil {
		d.sites = make(map[*objc.VarDecl][]objc.Expr)
		objc.Inspect(d.body, func(n objc.Node) bool {
			switch n := n.(type) {
			case *objc.DeclStmt:
				for _, decl := range n.Decls {
					if decl == nil || decl.Init == nil {
						continue
					}
					if _, ok := decl.Init.(*objc.ImplicitValueInitExpr); ok {
						continue
					}
					d.sites[decl] = append(d.sites[decl], decl.Init)
				}
			case *objc.BinaryExpr:
				if n.Op != objc.Assign {
					break
				}
				if target := asthelper.VarRefOf(n.X); target != nil {
					d.sites[target] = append(d.sites[target], n.Y)
				}
			}
			return true
		})
	}
	return d.sites[v]
}
