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

// Package asthelper implements utility functions for the syntax tree.
package asthelper

import "go.uber.org/nullcheck/objc"

// Unwrap strips parentheses and implicit casts from the expression.
func Unwrap(e objc.Expr) objc.Expr {
	for {
		switch n := e.(type) {
		case *objc.ParenExpr:
			e = n.X
		case *objc.ImplicitCastExpr:
			e = n.X
		default:
			return e
		}
	}
}

// VarRefOf returns the variable the expression refers to once parentheses and implicit casts are
// stripped, or nil if it is not a plain reference to a local variable or parameter.
func VarRefOf(e objc.Expr) *objc.VarDecl {
	ref, ok := Unwrap(e).(*objc.DeclRef)
	if !ok {
		return nil
	}
	return ref.Var
}

// IsSelfRef returns true if the expression is a reference to `self` or `super`, looking through
// parentheses and implicit casts.
func IsSelfRef(e objc.Expr) bool {
	ref, ok := Unwrap(e).(*objc.DeclRef)
	return ok && (ref.Name == "self" || ref.Name == "super")
}

// IsSelfOrImplicit returns true if the base of an instance variable access is `self`, either
// spelled out or implicit (nil).
func IsSelfOrImplicit(e objc.Expr) bool {
	return e == nil || IsSelfRef(e)
}

// PrintExpr renders a short human-readable form of the expression for debug output: variable
// names, selectors and property names are kept, everything else is elided.
func PrintExpr(e objc.Expr) string {
	switch n := Unwrap(e).(type) {
	case nil:
		return ""
	case *objc.DeclRef:
		return n.Name
	case *objc.PropertyRefExpr:
		name := "?"
		if n.Property != nil {
			name = n.Property.Name
		}
		if n.Receiver == nil {
			return name
		}
		return PrintExpr(n.Receiver) + "." + name
	case *objc.IvarRefExpr:
		if n.Ivar == nil {
			return "->?"
		}
		if n.Base == nil {
			return n.Ivar.Name
		}
		return PrintExpr(n.Base) + "->" + n.Ivar.Name
	case *objc.MessageExpr:
		recv := "..."
		switch n.ReceiverKind {
		case objc.ClassReceiver:
			if n.ReceiverType != nil {
				recv = n.ReceiverType.Name
			}
		case objc.SuperInstanceReceiver, objc.SuperClassReceiver:
			recv = "super"
		default:
			if n.Receiver != nil {
				recv = PrintExpr(n.Receiver)
			}
		}
		return "[" + recv + " " + n.Selector + "]"
	case *objc.StringLiteral:
		if n.ObjC {
			return `@"` + n.Value + `"`
		}
		return `"` + n.Value + `"`
	case *objc.NumericLiteral:
		return n.Value
	default:
		return "..."
	}
}
