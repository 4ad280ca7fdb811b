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

package function

import (
	"go/token"
	"slices"

	"go.uber.org/nullcheck/annotation"
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/inference"
	"go.uber.org/nullcheck/objc"
	"go.uber.org/nullcheck/util/asthelper"
	"go.uber.org/nullcheck/util/typeshelper"
)

// checker walks one method body. A checker is cheap to copy: branching constructs continue the
// walk with a copy that reads a cloned environment.
type checker struct {
	ctx    Context
	filter config.Filter
	calc   *inference.Calculator
	// deps is shared by every checker of the method, blocks included: assignments inside blocks
	// are dependencies of the variables they assign.
	deps     *inference.Dependencies
	reporter diagnostic.Reporter
	// shortCircuit is set while walking the condition and the guarded branch of an if statement,
	// and the operands of `&&`. See shortcircuit.go.
	shortCircuit bool
}

// with returns a copy of the checker that reads env.
func (c *checker) with(env *inference.Env, shortCircuit bool) *checker {
	cp := *c
	cp.calc = c.calc.WithEnv(env)
	cp.shortCircuit = shortCircuit
	return &cp
}

func (c *checker) walk(n objc.Node) {
	if n == nil {
		return
	}
	objc.Inspect(n, c.visit)
}

func (c *checker) visit(n objc.Node) bool {
	switch n := n.(type) {
	case *objc.IfStmt:
		c.ifStmt(n)
		return false
	case *objc.BlockExpr:
		c.blockExpr(n)
		return false
	case *objc.BinaryExpr:
		switch n.Op {
		case objc.LAnd:
			c.and(n)
			return false
		case objc.LOr:
			if c.shortCircuit {
				c.ordinary(n)
				return false
			}
		case objc.Assign:
			c.assign(n)
		}
	case *objc.UnaryExpr:
		if n.Op == objc.Not && c.shortCircuit {
			c.ordinary(n)
			return false
		}
	case *objc.DeclStmt:
		c.declStmt(n)
	case *objc.MessageExpr:
		c.messageExpr(n)
	case *objc.ReturnStmt:
		c.returnStmt(n)
	case *objc.ArrayLiteral:
		for _, e := range n.Elements {
			c.requireNonNull(e, "Array element should be nonnull")
		}
	case *objc.DictionaryLiteral:
		for _, kv := range n.Elements {
			c.requireNonNull(kv.Key, "Dictionary key should be nonnull")
			c.requireNonNull(kv.Value, "Dictionary value should be nonnull")
		}
	case *objc.CastExpr:
		c.castExpr(n)
	}
	return true
}

func (c *checker) declStmt(n *objc.DeclStmt) {
	for _, v := range n.Decls {
		if v == nil || v.Init == nil {
			continue
		}
		if _, ok := v.Init.(*objc.ImplicitValueInitExpr); ok {
			continue
		}
		verdict := annotation.Compare(c.calc.Env().Lookup(v), c.calc.Nullability(v.Init))
		c.reportVerdict(verdict, v.Init, nil,
			"Nullability mismatch on variable declaration",
			"Block type mismatch on variable declaration")
	}
}

func (c *checker) messageExpr(n *objc.MessageExpr) {
	// Unresolved selectors have no parameter declarations to check against.
	if n.Method == nil {
		return
	}
	callee := calleeName(n)
	subject := inference.SendSubject(n)
	for i, p := range n.Method.Params {
		if i >= len(n.Args) {
			break
		}
		arg := n.Args[i]
		if p == nil || arg == nil {
			continue
		}
		verdict := annotation.Compare(annotation.Declared(p.Type), c.calc.Nullability(arg))
		c.reportVerdict(verdict, arg, []string{subject},
			callee+" expects nonnull argument",
			callee+" expects argument of compatible block type")
	}
}

// calleeName returns the name of the method a message send invokes, e.g., "+[NSNumber numberWithInt:]".
func calleeName(n *objc.MessageExpr) string {
	sign := "+"
	if n.ReceiverKind == objc.InstanceReceiver || n.ReceiverKind == objc.SuperInstanceReceiver {
		sign = "-"
	}
	class := n.Method.ContainerName()
	if class == "" {
		class = inference.SendSubject(n)
	}
	return sign + "[" + class + " " + n.Selector + "]"
}

func (c *checker) assign(n *objc.BinaryExpr) {
	lhs := asthelper.Unwrap(n.X)
	if lhs == nil || n.Y == nil || asthelper.IsSelfRef(lhs) {
		return
	}
	switch lhs.(type) {
	case *objc.PropertyRefExpr, *objc.SubscriptExpr:
		// The frontend rewrites these to a setter send, which is checked as a message send.
		return
	}
	verdict := annotation.Compare(c.calc.Nullability(lhs), c.calc.Nullability(n.Y))
	c.reportVerdict(verdict, n.Y, nil,
		"Nullability mismatch on assignment",
		"Block type mismatch on assignment")
}

func (c *checker) returnStmt(n *objc.ReturnStmt) {
	if n.Result == nil {
		return
	}
	name := c.ctx.MethodName()
	if c.ctx.Block != nil {
		name = "Block in " + name
	}
	verdict := annotation.Compare(annotation.Declared(c.ctx.ReturnType()), c.calc.Nullability(n.Result))
	c.reportVerdict(verdict, n.Result, nil,
		name+" expects nonnull to return",
		name+" expects compatible block type to return")
}

func (c *checker) requireNonNull(e objc.Expr, msg string) {
	if e == nil || c.calc.Nullability(e).IsNonNull() {
		return
	}
	c.report(e.Pos(), e, nil, msg)
}

// castExpr checks explicit casts to a non-null type. Such a cast is redundant when the operand is
// already non-null, and unsound when it changes the base type of a possibly nil operand (unless
// the operand is `id`, from which any object type may be cast).
func (c *checker) castExpr(n *objc.CastExpr) {
	if n.X == nil || !c.calc.Nullability(n).IsNonNull() {
		return
	}
	sameType := typeshelper.Identical(n.X.Type(), n.StaticType)
	fromID := n.X.Type().IsID()
	if c.calc.Nullability(n.X).IsNonNull() {
		if sameType || fromID {
			c.report(n.Pos(), n.X, nil, "Redundant cast to nonnull")
		}
		return
	}
	if !sameType && !fromID {
		c.report(n.Pos(), n.X, nil, "Cast on nullability cannot change base type")
	}
}

func (c *checker) reportVerdict(v annotation.Verdict, culprit objc.Expr, subjects []string, topLevel, nested string) {
	switch v {
	case annotation.IncompatibleTopLevel:
		c.report(culprit.Pos(), culprit, subjects, topLevel)
	case annotation.IncompatibleNested:
		c.report(culprit.Pos(), culprit, subjects, nested)
	}
}

// report emits a warning unless the filter rejects every class it is attributed to: the class
// being implemented, the given subjects, and the classes declaring the message sends the culprit
// value may originate from.
func (c *checker) report(pos token.Position, culprit objc.Expr, subjects []string, msg string) {
	var all []string
	add := func(name string) {
		if name != "" && !slices.Contains(all, name) {
			all = append(all, name)
		}
	}
	if c.ctx.Class != nil {
		add(c.ctx.Class.Name)
	}
	for _, s := range subjects {
		add(s)
	}
	if culprit != nil {
		for _, s := range c.deps.Subjects(culprit) {
			add(s)
		}
	}

	if !c.filter.Accept(all) {
		return
	}
	c.reporter.Report(diagnostic.Warningf(pos, all, "%s", msg))
}
