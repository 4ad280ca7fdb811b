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

// Package inference computes the nullability of expressions and variables inside a method or
// block body: the per-expression calculator, the forward propagation pass that seeds the
// variable environment, and the backward dependency closure used to attribute diagnostics.
package inference

import (
	"slices"

	"go.uber.org/nullcheck/annotation"
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/objc"
	"go.uber.org/nullcheck/util/asthelper"
)

// Calculator computes the nullability of expressions against a variable environment. It has no
// side effects other than the optional debug remarks.
type Calculator struct {
	env *Env
	// remarks receives the "unexpected" notices; nil disables them.
	remarks diagnostic.Reporter
}

// NewCalculator returns a calculator over the environment. remarks may be nil.
func NewCalculator(env *Env, remarks diagnostic.Reporter) *Calculator {
	return &Calculator{env: env, remarks: remarks}
}

// Env returns the environment the calculator reads.
func (c *Calculator) Env() *Env {
	return c.env
}

// WithEnv returns a calculator that reads the given environment and reports remarks to the same
// place as c.
func (c *Calculator) WithEnv(env *Env) *Calculator {
	return &Calculator{env: env, remarks: c.remarks}
}

// Nullability returns the nullability of the expression.
func (c *Calculator) Nullability(e objc.Expr) annotation.ExprNullability {
	e = asthelper.Unwrap(e)
	if e == nil {
		return annotation.ExprNullability{}
	}
	nonnull := annotation.ExprNullability{Type: e.Type(), Kind: annotation.NonNull}

	switch e := e.(type) {
	case *objc.StringLiteral, *objc.BoxedExpr, *objc.ArrayLiteral, *objc.DictionaryLiteral,
		*objc.SelectorExpr, *objc.NumericLiteral, *objc.BoolLiteral, *objc.UnaryExpr:
		return nonnull

	case *objc.DeclRef:
		if e.Name == config.SelfName || e.Name == config.SuperName {
			return nonnull
		}
		if e.Var != nil {
			return c.env.Lookup(e.Var)
		}
		return annotation.Declared(e.StaticType)

	case *objc.CleanupsExpr:
		return c.Nullability(e.X)
	case *objc.OpaqueValueExpr:
		if e.Source == nil {
			return c.unexpected(e)
		}
		return c.Nullability(e.Source)
	case *objc.PseudoObjectExpr:
		if e.Result == nil {
			return c.unexpected(e)
		}
		return c.Nullability(e.Result)

	case *objc.PropertyRefExpr:
		// Receiver nullability is ignored: reading a property of a nil receiver yields nil, but
		// property reads are trusted to return what the property declares.
		switch {
		case e.Property != nil:
			return annotation.Declared(e.Property.Type)
		case e.Getter != nil:
			return annotation.Declared(e.Getter.Result)
		case e.Receiver != nil:
			return c.Nullability(e.Receiver)
		default:
			return c.unexpected(e)
		}

	case *objc.MessageExpr:
		return c.message(e)

	case *objc.SubscriptExpr:
		if !c.Nullability(e.Base).IsNonNull() {
			return annotation.ExprNullability{Type: e.StaticType, Kind: annotation.Nullable}
		}
		if e.Getter == nil {
			return c.unexpected(e)
		}
		return annotation.Declared(e.Getter.Result)

	case *objc.BinaryExpr:
		switch e.Op {
		case objc.Assign, objc.Comma:
			return c.Nullability(e.Y)
		}
		if !e.StaticType.IsPointerLike() {
			return nonnull
		}
		return annotation.Declared(e.StaticType)

	case *objc.ConditionalExpr:
		kind := annotation.Nullable
		if c.Nullability(e.Then).IsNonNull() && c.Nullability(e.Else).IsNonNull() {
			kind = annotation.NonNull
		}
		return annotation.ExprNullability{Type: e.StaticType, Kind: kind}
	case *objc.BinaryConditionalExpr:
		return c.Nullability(e.Else)

	case *objc.IvarRefExpr:
		if e.Ivar != nil {
			return annotation.Declared(e.Ivar.Type)
		}
		return annotation.Declared(e.StaticType)

	case *objc.CastExpr, *objc.StmtExpr, *objc.BlockExpr, *objc.CallExpr, *objc.ImplicitValueInitExpr:
		return annotation.Declared(e.Type())

	default:
		if !e.Type().IsPointerLike() {
			return nonnull
		}
		c.remark(e, "VisitExpr: unknown expr")
		return annotation.Declared(e.Type())
	}
}

// message computes the nullability of a message send. A send to a receiver that is not known to
// be non-null yields Nullable regardless of the callee, since messaging nil returns nil.
func (c *Calculator) message(e *objc.MessageExpr) annotation.ExprNullability {
	if e.ReceiverKind == objc.InstanceReceiver && !c.Nullability(e.Receiver).IsNonNull() {
		return annotation.ExprNullability{Type: e.StaticType, Kind: annotation.Nullable}
	}

	if slices.Contains(config.NonNullSelectors, e.Selector) {
		if e.Method == nil {
			return annotation.ExprNullability{Type: e.StaticType, Kind: annotation.NonNull}
		}
		if e.Method.Result.Nullability() == objc.NoAnnotation {
			return annotation.ExprNullability{Type: e.Method.Result, Kind: annotation.NonNull}
		}
	}

	if e.Method == nil {
		return annotation.ExprNullability{Type: e.StaticType, Kind: annotation.Unspecified}
	}
	return annotation.Declared(e.Method.Result)
}

// unexpected reports an expression shape that should have been resolved by the frontend, and
// treats it as Unspecified.
func (c *Calculator) unexpected(e objc.Expr) annotation.ExprNullability {
	c.remark(e, "Unexpected unspecified")
	return annotation.ExprNullability{Type: e.Type(), Kind: annotation.Unspecified}
}

func (c *Calculator) remark(e objc.Expr, msg string) {
	if c.remarks != nil {
		c.remarks.Report(diagnostic.Remarkf(e.Pos(), "%s", msg))
	}
}
