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

package objc

import (
	"go/token"
	"slices"
)

// TranslationUnit is everything the frontend hands over for a single main source file.
type TranslationUnit struct {
	// MainFile is the path of the main source file of the unit.
	MainFile string
	// Implementations lists the @implementation blocks (classes and categories) with bodies.
	Implementations []*ImplementationDecl
}

// ClassDecl is a class @interface or a @protocol. Its Name is the unit of filtering.
type ClassDecl struct {
	Name     string
	Protocol bool
	Super    *ClassDecl
	// Properties lists every property visible on the class: the primary interface, class
	// extensions, and categories.
	Properties []*PropertyDecl
	Pos        token.Position
}

// ImplementationDecl is an @implementation of a class or a category.
type ImplementationDecl struct {
	Class *ClassDecl
	// Category is the category name, empty for a class implementation.
	Category string
	// Ivars lists every instance variable of the class, including the ones synthesized for
	// properties.
	Ivars   []*IvarDecl
	Methods []*MethodDecl
	Pos     token.Position
}

// Name returns the class name, suffixed with the category if there is one.
func (d *ImplementationDecl) Name() string {
	if d.Class == nil {
		return ""
	}
	if d.Category != "" {
		return d.Class.Name + "(" + d.Category + ")"
	}
	return d.Class.Name
}

// MethodDecl is an Objective-C method declaration, with a body when it is defined.
type MethodDecl struct {
	Selector    string
	ClassMethod bool
	Result      *Type
	Params      []*VarDecl
	// Container is the class or protocol that declares the method.
	Container *ClassDecl
	// Attrs holds the arguments of `__attribute__((annotate(...)))` attached to the method.
	Attrs []string
	Body  *CompoundStmt
	Pos   token.Position
}

// HasAttr reports whether the method carries the given annotate attribute.
func (m *MethodDecl) HasAttr(attr string) bool {
	return m != nil && slices.Contains(m.Attrs, attr)
}

// ContainerName returns the name of the declaring class or protocol, or an empty string.
func (m *MethodDecl) ContainerName() string {
	if m == nil || m.Container == nil {
		return ""
	}
	return m.Container.Name
}

// Sign returns "+" for class methods and "-" for instance methods.
func (m *MethodDecl) Sign() string {
	if m.ClassMethod {
		return "+"
	}
	return "-"
}

// PropertyDecl is an @property declaration.
type PropertyDecl struct {
	Name   string
	Type   *Type
	Getter *MethodDecl
	Setter *MethodDecl
	// Ivar is the backing instance variable, nil for computed properties.
	Ivar *IvarDecl
	Pos  token.Position
}

// IvarDecl is an instance variable declaration.
type IvarDecl struct {
	Name string
	Type *Type
	Pos  token.Position
}

// VarDecl is a local variable or a parameter (of a method, a block, or a @catch clause).
type VarDecl struct {
	Name string
	Type *Type
	// Init is the initializer expression, nil when absent.
	Init Expr
	Pos  token.Position
}

// BlockDecl is the declaration part of a block literal.
type BlockDecl struct {
	Params []*VarDecl
	// Result is the declared or inferred result type of the block.
	Result *Type
	Body   *CompoundStmt
	Pos    token.Position
}
