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

package initializer

import (
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/objc"
	"go.uber.org/nullcheck/util/asthelper"
)

// Uninitialized walks the body of an initializer and returns the ivars of the set that the body
// may leave unassigned. The given set is not modified.
//
// An ivar is assigned by a direct assignment through self (explicit or implicit), or by a call to
// the setter of its property. A call of another designated initializer on self assigns every
// ivar. Branches of if statements and conditional expressions are walked separately from the
// same starting set, and an ivar remains after the branch if it remains in either of them.
// `if (self) { ... }` without an else branch is not a branch: its body is walked as straight-line
// code.
func Uninitialized(ivars *IvarSet, body objc.Stmt) *IvarSet {
	w := &walker{ivars: ivars.Clone()}
	w.walk(body)
	return w.ivars
}

type walker struct {
	ivars *IvarSet
}

func (w *walker) walk(n objc.Node) {
	if n == nil {
		return
	}
	objc.Inspect(n, w.visit)
}

func (w *walker) visit(n objc.Node) bool {
	switch n := n.(type) {
	case *objc.IfStmt:
		w.walk(n.Cond)
		if n.Else == nil && isSelf(n.Cond) {
			w.walk(n.Then)
		} else {
			w.branch(n.Then, n.Else)
		}
		return false
	case *objc.ConditionalExpr:
		w.walk(n.Cond)
		w.branch(n.Then, n.Else)
		return false
	case *objc.MessageExpr:
		w.ivars.removeSetter(n.Method)
		if IsInitializer(n.Method) && n.ReceiverKind == objc.InstanceReceiver && isSelf(n.Receiver) {
			w.ivars.clear()
		}
	case *objc.BinaryExpr:
		if n.Op != objc.Assign {
			break
		}
		if ref, ok := asthelper.Unwrap(n.X).(*objc.IvarRefExpr); ok && ref.Ivar != nil && asthelper.IsSelfOrImplicit(ref.Base) {
			w.ivars.remove(ref.Ivar)
		}
	}
	return true
}

func (w *walker) branch(then, els objc.Node) {
	left := &walker{ivars: w.ivars.Clone()}
	left.walk(then)
	right := &walker{ivars: w.ivars.Clone()}
	right.walk(els)
	w.ivars.join(left.ivars, right.ivars)
}

func isSelf(e objc.Expr) bool {
	ref, ok := asthelper.Unwrap(e).(*objc.DeclRef)
	return ok && ref.Name == config.SelfName
}
