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

// Package initializer implements the initializer checker: a designated initializer must assign
// every instance variable declared non-null, directly or through the setter of its property, or
// delegate to another designated initializer of the class.
package initializer

import (
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/objc"
)

// IsInitializer reports whether the method is marked as a designated initializer.
func IsInitializer(m *objc.MethodDecl) bool {
	return m.HasAttr(config.InitializerAttr)
}

// Run checks the method if it is a designated initializer, and reports each non-null instance
// variable of the implementation that the method may leave unassigned.
func Run(conf *config.Config, impl *objc.ImplementationDecl, method *objc.MethodDecl, r diagnostic.Reporter) {
	if impl == nil || impl.Class == nil || method == nil || method.Body == nil || !IsInitializer(method) {
		return
	}
	subjects := []string{impl.Class.Name}
	if !conf.Filter.Accept(subjects) {
		return
	}

	name := method.Sign() + "[" + impl.Name() + " " + method.Selector + "]"
	for _, ivar := range Uninitialized(NonnullIvars(impl), method.Body).Ivars() {
		r.Report(diagnostic.Warningf(method.Pos, subjects,
			"Nonnull ivar `%s` may not be initialized in %s", ivar.Name, name))
	}
}
