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
	"go.uber.org/nullcheck/inference"
	"go.uber.org/nullcheck/objc"
	"go.uber.org/nullcheck/util/asthelper"
)

// The checker runs in one of two modes. The ordinary mode checks every site with the current
// environment. The short-circuit mode is entered for the condition and the guarded branch of an
// if statement and for the operands of `&&`: there, a bare variable reference used as an operand
// is known to be non-nil for the rest of the guarded code, so it narrows the variable in a cloned
// environment instead of being checked. `||` and `!` break that guarantee and switch back to the
// ordinary mode for their operands.

// ifStmt narrows a bare variable condition for the condition and the then branch. The else
// branch is walked with the environment before the if statement.
func (c *checker) ifStmt(n *objc.IfStmt) {
	env := c.calc.Env().Clone()
	if v := asthelper.VarRefOf(n.Cond); v != nil {
		env.Narrow(v)
	}
	guarded := c.with(env, true)
	guarded.walk(n.Cond)
	guarded.walk(n.Then)
	c.walk(n.Else)
}

// and walks `x && y`. Outside the short-circuit mode, the narrowing happens in a clone that does
// not outlive the expression; inside, it accumulates in the environment of the enclosing guard.
// A known limitation follows: an `&&` expression statement inside a guarded branch narrows its
// operands for the rest of that branch too.
func (c *checker) and(n *objc.BinaryExpr) {
	guarded := c
	if !c.shortCircuit {
		guarded = c.with(c.calc.Env().Clone(), true)
	}
	guarded.operand(n.X)
	guarded.operand(n.Y)
}

func (c *checker) operand(e objc.Expr) {
	if v := asthelper.VarRefOf(e); v != nil {
		c.calc.Env().Narrow(v)
		return
	}
	c.walk(e)
}

// ordinary walks the subtree in the ordinary mode, with a clone of the current environment.
func (c *checker) ordinary(n objc.Node) {
	c.with(c.calc.Env().Clone(), false).walk(n)
}

// blockExpr checks the body of a block literal. The block body gets its own propagation pass
// over a clone of the enclosing environment, and its return statements are checked against the
// block's result type.
func (c *checker) blockExpr(n *objc.BlockExpr) {
	if n.Block == nil || n.Block.Body == nil {
		return
	}
	env := c.calc.Env().Clone()
	inner := c.with(env, false)
	inference.Propagate(inner.calc, n.Block.Body)
	inner.ctx.Block = n
	inner.walk(n.Block.Body)
}
