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

// Package nullchecktest implements utility functions for tests: a builder for syntax trees, so
// that method bodies can be constructed the way the frontend would hand them over, and a small
// Foundation prelude.
package nullchecktest

import (
	"go/token"

	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/objc"
)

// Obj returns the type `class *` with the given annotation.
func Obj(class string, ann objc.Annotation) *objc.Type {
	return &objc.Type{Kind: objc.ObjectPointer, Name: class, Annotation: ann}
}

// Nonnull returns `class * _Nonnull`.
func Nonnull(class string) *objc.Type { return Obj(class, objc.NonnullAnnotation) }

// Nullable returns `class * _Nullable`.
func Nullable(class string) *objc.Type { return Obj(class, objc.NullableAnnotation) }

// Plain returns `class *` without annotation.
func Plain(class string) *objc.Type { return Obj(class, objc.NoAnnotation) }

// ID returns `id` with the given annotation.
func ID(ann objc.Annotation) *objc.Type {
	return &objc.Type{Kind: objc.ID, Name: "id", Annotation: ann}
}

// Int returns the scalar type `int`.
func Int() *objc.Type {
	return &objc.Type{Kind: objc.Scalar, Name: "int"}
}

// Void returns the type `void`.
func Void() *objc.Type {
	return &objc.Type{Kind: objc.Void, Name: "void"}
}

// Block returns a block pointer type with the given annotation and signature.
func Block(ann objc.Annotation, result *objc.Type, params ...*objc.Type) *objc.Type {
	return &objc.Type{Kind: objc.BlockPointer, Annotation: ann, Result: result, Params: params}
}

// Typedef returns a typedef of elem.
func Typedef(name string, ann objc.Annotation, elem *objc.Type) *objc.Type {
	return &objc.Type{Kind: objc.Typedef, Name: name, Annotation: ann, Elem: elem}
}

// Builder builds syntax trees. Every node it creates gets a distinct position in File, one line
// after the previous one, so tests can tell diagnostics apart by line.
type Builder struct {
	File string
	line int
}

// New returns a builder for nodes in the given file.
func New(file string) *Builder {
	return &Builder{File: file}
}

// Pos returns the next position.
func (b *Builder) Pos() token.Position {
	b.line++
	return token.Position{Filename: b.File, Line: b.line, Column: 1}
}

// Line returns the line of the last position handed out.
func (b *Builder) Line() int {
	return b.line
}

// Declarations

// Class declares a class. Methods are attached with Method.
func (b *Builder) Class(name string, super *objc.ClassDecl) *objc.ClassDecl {
	return &objc.ClassDecl{Name: name, Super: super, Pos: b.Pos()}
}

// Protocol declares a protocol.
func (b *Builder) Protocol(name string) *objc.ClassDecl {
	return &objc.ClassDecl{Name: name, Protocol: true, Pos: b.Pos()}
}

// Method declares an instance method of the container.
func (b *Builder) Method(container *objc.ClassDecl, selector string, result *objc.Type, params ...*objc.VarDecl) *objc.MethodDecl {
	return &objc.MethodDecl{Selector: selector, Result: result, Params: params, Container: container, Pos: b.Pos()}
}

// ClassMethod declares a class method of the container.
func (b *Builder) ClassMethod(container *objc.ClassDecl, selector string, result *objc.Type, params ...*objc.VarDecl) *objc.MethodDecl {
	m := b.Method(container, selector, result, params...)
	m.ClassMethod = true
	return m
}

// Initializer declares a designated initializer of the container.
func (b *Builder) Initializer(container *objc.ClassDecl, selector string, params ...*objc.VarDecl) *objc.MethodDecl {
	m := b.Method(container, selector, Obj(container.Name, objc.NoAnnotation), params...)
	m.Attrs = []string{config.InitializerAttr}
	return m
}

// Var declares a local variable or a parameter. init may be nil.
func (b *Builder) Var(name string, t *objc.Type, init objc.Expr) *objc.VarDecl {
	return &objc.VarDecl{Name: name, Type: t, Init: init, Pos: b.Pos()}
}

// Ivar declares an instance variable.
func (b *Builder) Ivar(name string, t *objc.Type) *objc.IvarDecl {
	return &objc.IvarDecl{Name: name, Type: t, Pos: b.Pos()}
}

// Property declares a property of the class backed by ivar (which may be nil), with a getter and
// a setter, and registers it on the class.
func (b *Builder) Property(class *objc.ClassDecl, name string, t *objc.Type, ivar *objc.IvarDecl) *objc.PropertyDecl {
	setter := "set" + string(name[0]-'a'+'A') + name[1:] + ":"
	p := &objc.PropertyDecl{
		Name:   name,
		Type:   t,
		Getter: b.Method(class, name, t),
		Setter: b.Method(class, setter, Void(), b.Var(name, t, nil)),
		Ivar:   ivar,
		Pos:    b.Pos(),
	}
	class.Properties = append(class.Properties, p)
	return p
}

// Implementation returns the implementation of the class, with the given ivars and methods.
func (b *Builder) Implementation(class *objc.ClassDecl, ivars []*objc.IvarDecl, methods ...*objc.MethodDecl) *objc.ImplementationDecl {
	return &objc.ImplementationDecl{Class: class, Ivars: ivars, Methods: methods, Pos: b.Pos()}
}

// Expressions

// Ref refers to a variable the way the frontend does when its value is read: wrapped in an
// implicit conversion.
func (b *Builder) Ref(v *objc.VarDecl) objc.Expr {
	pos := b.Pos()
	return &objc.ImplicitCastExpr{Loc: pos, StaticType: v.Type, X: b.LRef(v)}
}

// LRef refers to a variable as the target of an assignment.
func (b *Builder) LRef(v *objc.VarDecl) *objc.DeclRef {
	return &objc.DeclRef{Loc: b.Pos(), StaticType: v.Type, Name: v.Name, Var: v}
}

// Self refers to the implicit receiver of a method of the class.
func (b *Builder) Self(class *objc.ClassDecl) *objc.DeclRef {
	return &objc.DeclRef{Loc: b.Pos(), StaticType: Plain(class.Name), Name: config.SelfName}
}

// Str returns the literal @"s".
func (b *Builder) Str(s string) *objc.StringLiteral {
	return &objc.StringLiteral{Loc: b.Pos(), StaticType: Plain("NSString"), Value: s, ObjC: true}
}

// Num returns the boxed literal @n.
func (b *Builder) Num(n string) *objc.BoxedExpr {
	pos := b.Pos()
	return &objc.BoxedExpr{
		Loc:        pos,
		StaticType: Plain("NSNumber"),
		X:          &objc.NumericLiteral{Loc: pos, StaticType: Int(), Value: n},
	}
}

// Paren parenthesizes the expression.
func (b *Builder) Paren(x objc.Expr) *objc.ParenExpr {
	return &objc.ParenExpr{Loc: b.Pos(), StaticType: x.Type(), X: x}
}

// Send sends the method to an instance receiver.
func (b *Builder) Send(recv objc.Expr, m *objc.MethodDecl, args ...objc.Expr) *objc.MessageExpr {
	return &objc.MessageExpr{
		Loc:          b.Pos(),
		StaticType:   m.Result,
		ReceiverKind: objc.InstanceReceiver,
		Receiver:     recv,
		ReceiverType: recv.Type(),
		Selector:     m.Selector,
		Method:       m,
		Args:         args,
	}
}

// SendUnresolved sends a selector the frontend could not resolve to an instance receiver.
func (b *Builder) SendUnresolved(recv objc.Expr, selector string, args ...objc.Expr) *objc.MessageExpr {
	return &objc.MessageExpr{
		Loc:          b.Pos(),
		StaticType:   ID(objc.NoAnnotation),
		ReceiverKind: objc.InstanceReceiver,
		Receiver:     recv,
		ReceiverType: recv.Type(),
		Selector:     selector,
		Args:         args,
	}
}

// ClassSend sends the class method to the class.
func (b *Builder) ClassSend(class *objc.ClassDecl, m *objc.MethodDecl, args ...objc.Expr) *objc.MessageExpr {
	return &objc.MessageExpr{
		Loc:          b.Pos(),
		StaticType:   m.Result,
		ReceiverKind: objc.ClassReceiver,
		ReceiverType: Plain(class.Name),
		Selector:     m.Selector,
		Method:       m,
		Args:         args,
	}
}

// SuperSend sends the instance method to super.
func (b *Builder) SuperSend(class *objc.ClassDecl, m *objc.MethodDecl, args ...objc.Expr) *objc.MessageExpr {
	return &objc.MessageExpr{
		Loc:          b.Pos(),
		StaticType:   m.Result,
		ReceiverKind: objc.SuperInstanceReceiver,
		ReceiverType: Plain(class.Name),
		Selector:     m.Selector,
		Method:       m,
		Args:         args,
	}
}

// Assign returns `lhs = rhs`.
func (b *Builder) Assign(lhs, rhs objc.Expr) *objc.BinaryExpr {
	return &objc.BinaryExpr{Loc: b.Pos(), StaticType: lhs.Type(), Op: objc.Assign, X: lhs, Y: rhs}
}

// And returns `x && y`.
func (b *Builder) And(x, y objc.Expr) *objc.BinaryExpr {
	return &objc.BinaryExpr{Loc: b.Pos(), StaticType: Int(), Op: objc.LAnd, X: x, Y: y}
}

// Or returns `x || y`.
func (b *Builder) Or(x, y objc.Expr) *objc.BinaryExpr {
	return &objc.BinaryExpr{Loc: b.Pos(), StaticType: Int(), Op: objc.LOr, X: x, Y: y}
}

// Not returns `!x`.
func (b *Builder) Not(x objc.Expr) *objc.UnaryExpr {
	return &objc.UnaryExpr{Loc: b.Pos(), StaticType: Int(), Op: objc.Not, X: x}
}

// Cond returns `c ? t : e`, typed as t.
func (b *Builder) Cond(c, t, e objc.Expr) *objc.ConditionalExpr {
	return &objc.ConditionalExpr{Loc: b.Pos(), StaticType: t.Type(), Cond: c, Then: t, Else: e}
}

// Elvis returns `c ?: e`, typed as e.
func (b *Builder) Elvis(c, e objc.Expr) *objc.BinaryConditionalExpr {
	return &objc.BinaryConditionalExpr{Loc: b.Pos(), StaticType: e.Type(), Cond: c, Else: e}
}

// Cast returns `(t)x`.
func (b *Builder) Cast(t *objc.Type, x objc.Expr) *objc.CastExpr {
	return &objc.CastExpr{Loc: b.Pos(), StaticType: t, X: x}
}

// Array returns `@[elems...]`.
func (b *Builder) Array(elems ...objc.Expr) *objc.ArrayLiteral {
	return &objc.ArrayLiteral{Loc: b.Pos(), StaticType: Plain("NSArray"), Elements: elems}
}

// Dict returns `@{k: v, ...}` from alternating keys and values.
func (b *Builder) Dict(kvs ...objc.Expr) *objc.DictionaryLiteral {
	d := &objc.DictionaryLiteral{Loc: b.Pos(), StaticType: Plain("NSDictionary")}
	for i := 0; i+1 < len(kvs); i += 2 {
		d.Elements = append(d.Elements, objc.KeyValue{Key: kvs[i], Value: kvs[i+1]})
	}
	return d
}

// BlockLit returns a block literal `^result (params) { body }` of the given type.
func (b *Builder) BlockLit(t *objc.Type, params []*objc.VarDecl, body ...objc.Stmt) *objc.BlockExpr {
	pos := b.Pos()
	var result *objc.Type
	if u := t.Underlying(); u != nil {
		result = u.Result
	}
	return &objc.BlockExpr{
		Loc:        pos,
		StaticType: t,
		Block:      &objc.BlockDecl{Params: params, Result: result, Body: b.Body(body...), Pos: pos},
	}
}

// Call returns a call to a C function returning t.
func (b *Builder) Call(name string, t *objc.Type, args ...objc.Expr) *objc.CallExpr {
	pos := b.Pos()
	return &objc.CallExpr{
		Loc:        pos,
		StaticType: t,
		Fun:        &objc.DeclRef{Loc: pos, StaticType: &objc.Type{Kind: objc.FunctionPointer, Result: t}, Name: name},
		Args:       args,
	}
}

// Prop reads the property through the receiver, e.g., `self.name`.
func (b *Builder) Prop(recv objc.Expr, p *objc.PropertyDecl) *objc.PropertyRefExpr {
	return &objc.PropertyRefExpr{Loc: b.Pos(), StaticType: p.Type, Receiver: recv, Property: p, Getter: p.Getter, Setter: p.Setter}
}

// SetProp assigns through the property setter, e.g., `self.name = value`, the way the frontend
// spells it: a pseudo-object expression whose syntactic form is the assignment and whose
// semantic form is the setter send. Both forms refer to the receiver and the value through the
// same opaque values.
func (b *Builder) SetProp(recv objc.Expr, p *objc.PropertyDecl, value objc.Expr) *objc.PseudoObjectExpr {
	pos := b.Pos()
	opaqueRecv := &objc.OpaqueValueExpr{Loc: pos, StaticType: recv.Type(), Source: recv}
	opaqueValue := &objc.OpaqueValueExpr{Loc: pos, StaticType: value.Type(), Source: value}
	ref := b.Prop(opaqueRecv, p)
	send := &objc.MessageExpr{
		Loc:          pos,
		StaticType:   Void(),
		ReceiverKind: objc.InstanceReceiver,
		Receiver:     opaqueRecv,
		ReceiverType: recv.Type(),
		Selector:     p.Setter.Selector,
		Method:       p.Setter,
		Args:         []objc.Expr{opaqueValue},
	}
	return &objc.PseudoObjectExpr{
		Loc:        pos,
		StaticType: p.Type,
		Syntactic:  &objc.BinaryExpr{Loc: pos, StaticType: p.Type, Op: objc.Assign, X: ref, Y: opaqueValue},
		Semantic:   []objc.Expr{opaqueRecv, opaqueValue, send},
		Result:     opaqueValue,
	}
}

// IvarRef refers to the instance variable through base (nil for the implicit `self`).
func (b *Builder) IvarRef(base objc.Expr, ivar *objc.IvarDecl) *objc.IvarRefExpr {
	return &objc.IvarRefExpr{Loc: b.Pos(), StaticType: ivar.Type, Base: base, Ivar: ivar}
}

// Subscript returns `base[key]` resolved to getter.
func (b *Builder) Subscript(base, key objc.Expr, getter *objc.MethodDecl) *objc.SubscriptExpr {
	return &objc.SubscriptExpr{Loc: b.Pos(), StaticType: getter.Result, Base: base, Key: key, Getter: getter}
}

// Statements

// Body returns a compound statement.
func (b *Builder) Body(stmts ...objc.Stmt) *objc.CompoundStmt {
	return &objc.CompoundStmt{Loc: b.Pos(), List: stmts}
}

// Decl declares the variables.
func (b *Builder) Decl(vars ...*objc.VarDecl) *objc.DeclStmt {
	return &objc.DeclStmt{Loc: b.Pos(), Decls: vars}
}

// Expr wraps the expression as a statement.
func (b *Builder) Expr(x objc.Expr) *objc.ExprStmt {
	return &objc.ExprStmt{X: x}
}

// Return returns x; x may be nil.
func (b *Builder) Return(x objc.Expr) *objc.ReturnStmt {
	return &objc.ReturnStmt{Loc: b.Pos(), Result: x}
}

// If returns `if (cond) then else els`; els may be nil.
func (b *Builder) If(cond objc.Expr, then, els objc.Stmt) *objc.IfStmt {
	return &objc.IfStmt{Loc: b.Pos(), Cond: cond, Then: then, Else: els}
}

// ForIn returns `for (elem in coll) body`.
func (b *Builder) ForIn(elem *objc.VarDecl, coll objc.Expr, body ...objc.Stmt) *objc.ForInStmt {
	return &objc.ForInStmt{Loc: b.Pos(), Element: b.Decl(elem), Collection: coll, Body: b.Body(body...)}
}

// While returns `while (cond) body`.
func (b *Builder) While(cond objc.Expr, body ...objc.Stmt) *objc.WhileStmt {
	return &objc.WhileStmt{Loc: b.Pos(), Cond: cond, Body: b.Body(body...)}
}

// Define sets the body of the method and returns it.
func Define(m *objc.MethodDecl, body *objc.CompoundStmt) *objc.MethodDecl {
	m.Body = body
	return m
}
