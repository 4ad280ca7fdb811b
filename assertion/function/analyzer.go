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

// Package function implements the method body checker. It walks the body of a method, computes
// the nullability of every value that flows into a position requiring a non-null value, and
// reports the values that may be nil.
package function

import (
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/inference"
	"go.uber.org/nullcheck/objc"
)

// Context locates the body being checked.
type Context struct {
	// Class is the class the method is implemented in. Its name is part of the method name in
	// messages and is always a subject of the reported diagnostics.
	Class *objc.ClassDecl
	// Method is the method whose body is checked.
	Method *objc.MethodDecl
	// Block is the innermost block literal enclosing the code being checked, nil outside blocks.
	Block *objc.BlockExpr
}

// MethodName returns the method name the way it is spelled in messages, e.g., "-[Foo bar:]".
func (c Context) MethodName() string {
	class := c.Method.ContainerName()
	if c.Class != nil {
		class = c.Class.Name
	}
	return c.Method.Sign() + "[" + class + " " + c.Method.Selector + "]"
}

// ReturnType returns the declared result type of the innermost enclosing block, or of the method
// outside blocks.
func (c Context) ReturnType() *objc.Type {
	if c.Block != nil && c.Block.Block != nil {
		return c.Block.Block.Result
	}
	return c.Method.Result
}

// Run checks the body of the method and reports the findings that pass the configured filter to
// r. In debug mode, the inferred nullability of the local variables and the expressions the
// calculator could not classify are reported as remarks. Run is a no-op for methods without a
// body.
func Run(conf *config.Config, class *objc.ClassDecl, method *objc.MethodDecl, r diagnostic.Reporter) {
	if method == nil || method.Body == nil {
		return
	}

	var remarks diagnostic.Reporter
	if conf.Debug {
		remarks = r
	}
	env := inference.NewEnv()
	calc := inference.NewCalculator(env, remarks)
	inference.Propagate(calc, method.Body)
	if conf.Debug {
		inference.ReportEnv(env, r)
	}

	c := &checker{
		ctx:      Context{Class: class, Method: method},
		filter:   conf.Filter,
		calc:     calc,
		deps:     inference.NewDependencies(method.Body),
		reporter: r,
	}
	c.walk(method.Body)
}
