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

package config

// This file hosts non-user-configurable parameters.

// InitializerAttr is the argument of the `__attribute__((annotate(...)))` attribute that marks a
// method as a designated initializer whose nonnull instance variables must all be assigned.
const InitializerAttr = "nlh_initializer"

// NonNullSelectors are the selectors whose result is assumed non-null when sent to a non-null
// receiver and the callee does not spell any nullability on its return type. This is a heuristic
// on the literal selector text, not on the shape of the method.
var NonNullSelectors = []string{"alloc", "init", "class"}

// FileName is the name of the configuration file searched upward from the working directory.
const FileName = ".nullcheck.toml"

// SelfName and SuperName are the names of the implicit receiver and of the superclass
// pseudo-reference inside method bodies.
const (
	SelfName  = "self"
	SuperName = "super"
)
