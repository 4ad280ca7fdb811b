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

import "go/token"

// Node is any node of the syntax tree.
type Node interface {
	Pos() token.Position
}

// Expr is an expression. The set of implementations is closed.
type Expr interface {
	Node
	// Type returns the static type of the expression as computed by the frontend.
	Type() *Type
	exprNode()
}

// UnaryOp is the spelling of a unary operator.
type UnaryOp string

// Unary operators with a meaning for the analysis. Others are kept by spelling.
const (
	Not    UnaryOp = "!"
	Minus  UnaryOp = "-"
	Deref  UnaryOp = "*"
	AddrOf UnaryOp = "&"
)

// BinaryOp is the spelling of a binary operator.
type BinaryOp string

// Binary operators with a meaning for the analysis. Others are kept by spelling.
const (
	Assign BinaryOp = "="
	LAnd   BinaryOp = "&&"
	LOr    BinaryOp = "||"
	Eq     BinaryOp = "=="
	Ne     BinaryOp = "!="
	Comma  BinaryOp = ","
)

// ReceiverKind tells what a message is sent to.
type ReceiverKind uint8

const (
	// InstanceReceiver is an expression receiver, `[x foo]`.
	InstanceReceiver ReceiverKind = iota + 1
	// ClassReceiver is a class name receiver, `[Foo foo]`.
	ClassReceiver
	// SuperInstanceReceiver is `[super foo]` in an instance method.
	SuperInstanceReceiver
	// SuperClassReceiver is `[super foo]` in a class method.
	SuperClassReceiver
)

// KeyValue is one entry of a dictionary literal.
type KeyValue struct {
	Key   Expr
	Value Expr
}

// StringLiteral is a C string literal or an Objective-C `@"..."` literal.
type StringLiteral struct {
	Loc        token.Position
	StaticType *Type
	Value      string
	ObjC       bool
}

// NumericLiteral is an integer, floating point or character literal.
type NumericLiteral struct {
	Loc        token.Position
	StaticType *Type
	Value      string
}

// BoolLiteral is `YES`/`NO` or `true`/`false`.
type BoolLiteral struct {
	Loc        token.Position
	StaticType *Type
	Value      bool
}

// BoxedExpr is a boxed expression `@(x)` or a boxed number `@1`.
type BoxedExpr struct {
	Loc        token.Position
	StaticType *Type
	X          Expr
}

// ArrayLiteral is `@[a, b]`.
type ArrayLiteral struct {
	Loc        token.Position
	StaticType *Type
	Elements   []Expr
}

// DictionaryLiteral is `@{k: v}`.
type DictionaryLiteral struct {
	Loc        token.Position
	StaticType *Type
	Elements   []KeyValue
}

// SelectorExpr is `@selector(sel)`.
type SelectorExpr struct {
	Loc        token.Position
	StaticType *Type
	Selector   string
}

// UnaryExpr is a prefix or postfix unary operation.
type UnaryExpr struct {
	Loc        token.Position
	StaticType *Type
	Op         UnaryOp
	X          Expr
}

// DeclRef is a reference to a declared name. Var is set when the name resolves to a local
// variable or a parameter; `self` and `super` are recognized by Name.
type DeclRef struct {
	Loc        token.Position
	StaticType *Type
	Name       string
	Var        *VarDecl
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Loc        token.Position
	StaticType *Type
	X          Expr
}

// ImplicitCastExpr is a conversion inserted by the frontend.
type ImplicitCastExpr struct {
	Loc        token.Position
	StaticType *Type
	X          Expr
}

// CleanupsExpr wraps an expression that needs cleanups at the end of the full expression.
type CleanupsExpr struct {
	Loc        token.Position
	StaticType *Type
	X          Expr
}

// OpaqueValueExpr is a placeholder bound to Source elsewhere in the tree.
type OpaqueValueExpr struct {
	Loc        token.Position
	StaticType *Type
	Source     Expr
}

// PseudoObjectExpr wraps the syntactic form of a property or subscript access together with
// the semantic expressions the frontend rewrote it to. Result is the semantic expression whose
// value is the value of the whole expression.
type PseudoObjectExpr struct {
	Loc        token.Position
	StaticType *Type
	Syntactic  Expr
	Semantic   []Expr
	Result     Expr
}

// PropertyRefExpr is a dot-syntax property access. Property is set for declared properties;
// Getter and Setter are set when the frontend resolved the accessors (implicit properties only
// have accessors).
type PropertyRefExpr struct {
	Loc        token.Position
	StaticType *Type
	Receiver   Expr
	Property   *PropertyDecl
	Getter     *MethodDecl
	Setter     *MethodDecl
}

// IvarRefExpr is an instance variable access. Base is nil for an implicit `self->`.
type IvarRefExpr struct {
	Loc        token.Position
	StaticType *Type
	Base       Expr
	Ivar       *IvarDecl
}

// MessageExpr is a message send `[receiver selector:args]`. Receiver is only set for instance
// receivers; Method is nil when the frontend could not resolve the callee.
type MessageExpr struct {
	Loc          token.Position
	StaticType   *Type
	ReceiverKind ReceiverKind
	Receiver     Expr
	ReceiverType *Type
	Selector     string
	Method       *MethodDecl
	Args         []Expr
}

// SubscriptExpr is an indexed or keyed subscript on an object, `base[key]`.
type SubscriptExpr struct {
	Loc        token.Position
	StaticType *Type
	Base       Expr
	Key        Expr
	Getter     *MethodDecl
	Setter     *MethodDecl
}

// BinaryExpr is a binary operation, including assignments.
type BinaryExpr struct {
	Loc        token.Position
	StaticType *Type
	Op         BinaryOp
	X          Expr
	Y          Expr
}

// ConditionalExpr is the ternary `cond ? then : else`.
type ConditionalExpr struct {
	Loc        token.Position
	StaticType *Type
	Cond       Expr
	Then       Expr
	Else       Expr
}

// BinaryConditionalExpr is the elvis form `cond ?: else`.
type BinaryConditionalExpr struct {
	Loc        token.Position
	StaticType *Type
	Cond       Expr
	Else       Expr
}

// CastExpr is an explicit C-style cast `(T)x`; StaticType is T.
type CastExpr struct {
	Loc        token.Position
	StaticType *Type
	X          Expr
}

// StmtExpr is a GNU statement expression `({ ... })`.
type StmtExpr struct {
	Loc        token.Position
	StaticType *Type
	Body       *CompoundStmt
}

// BlockExpr is a block literal `^(params) { ... }`.
type BlockExpr struct {
	Loc        token.Position
	StaticType *Type
	Block      *BlockDecl
}

// CallExpr is a C function call.
type CallExpr struct {
	Loc        token.Position
	StaticType *Type
	Fun        Expr
	Args       []Expr
}

// ImplicitValueInitExpr is a default value synthesized by the frontend.
type ImplicitValueInitExpr struct {
	Loc        token.Position
	StaticType *Type
}

// OtherExpr is any expression shape the frontend exported without a dedicated node.
type OtherExpr struct {
	Loc        token.Position
	StaticType *Type
	Kind       string
	Children   []Expr
}

// Pos and Type implementations.
func (e *StringLiteral) Pos() token.Position { return e.Loc }
func (e *NumericLiteral) Pos() token.Position { return e.Loc }
func (e *BoolLiteral) Pos() token.Position { return e.Loc }
func (e *BoxedExpr) Pos() token.Position { return e.Loc }
func (e *ArrayLiteral) Pos() token.Position { return e.Loc }
func (e *DictionaryLiteral) Pos() token.Position { return e.Loc }
func (e *SelectorExpr) Pos() token.Position { return e.Loc }
func (e *UnaryExpr) Pos() token.Position { return e.Loc }
func (e *DeclRef) Pos() token.Position { return e.Loc }
func (e *ParenExpr) Pos() token.Position { return e.Loc }
func (e *ImplicitCastExpr) Pos() token.Position { return e.Loc }
func (e *CleanupsExpr) Pos() token.Position { return e.Loc }
func (e *OpaqueValueExpr) Pos() token.Position { return e.Loc }
func (e *PseudoObjectExpr) Pos() token.Position { return e.Loc }
func (e *PropertyRefExpr) Pos() token.Position { return e.Loc }
func (e *IvarRefExpr) Pos() token.Position { return e.Loc }
func (e *MessageExpr) Pos() token.Position { return e.Loc }
func (e *SubscriptExpr) Pos() token.Position { return e.Loc }
func (e *BinaryExpr) Pos() token.Position { return e.Loc }
func (e *ConditionalExpr) Pos() token.Position { return e.Loc }
func (e *BinaryConditionalExpr) Pos() token.Position { return e.Loc }
func (e *CastExpr) Pos() token.Position { return e.Loc }
func (e *StmtExpr) Pos() token.Position { return e.Loc }
func (e *BlockExpr) Pos() token.Position { return e.Loc }
func (e *CallExpr) Pos() token.Position { return e.Loc }
func (e *ImplicitValueInitExpr) Pos() token.Position { return e.Loc }
func (e *OtherExpr) Pos() token.Position { return e.Loc }

func (e *StringLiteral) Type() *Type { return e.StaticType }
func (e *NumericLiteral) Type() *Type { return e.StaticType }
func (e *BoolLiteral) Type() *Type { return e.StaticType }
func (e *BoxedExpr) Type() *Type { return e.StaticType }
func (e *ArrayLiteral) Type() *Type { return e.StaticType }
func (e *DictionaryLiteral) Type() *Type { return e.StaticType }
func (e *SelectorExpr) Type() *Type { return e.StaticType }
func (e *UnaryExpr) Type() *Type { return e.StaticType }
func (e *DeclRef) Type() *Type { return e.StaticType }
func (e *ParenExpr) Type() *Type { return e.StaticType }
func (e *ImplicitCastExpr) Type() *Type { return e.StaticType }
func (e *CleanupsExpr) Type() *Type { return e.StaticType }
func (e *OpaqueValueExpr) Type() *Type { return e.StaticType }
func (e *PseudoObjectExpr) Type() *Type { return e.StaticType }
func (e *PropertyRefExpr) Type() *Type { return e.StaticType }
func (e *IvarRefExpr) Type() *Type { return e.StaticType }
func (e *MessageExpr) Type() *Type { return e.StaticType }
func (e *SubscriptExpr) Type() *Type { return e.StaticType }
func (e *BinaryExpr) Type() *Type { return e.StaticType }
func (e *ConditionalExpr) Type() *Type { return e.StaticType }
func (e *BinaryConditionalExpr) Type() *Type { return e.StaticType }
func (e *CastExpr) Type() *Type { return e.StaticType }
func (e *StmtExpr) Type() *Type { return e.StaticType }
func (e *BlockExpr) Type() *Type { return e.StaticType }
func (e *CallExpr) Type() *Type { return e.StaticType }
func (e *ImplicitValueInitExpr) Type() *Type { return e.StaticType }
func (e *OtherExpr) Type() *Type { return e.StaticType }

// exprNode() ensures that only expression nodes can be assigned to an Expr.
func (*StringLiteral) exprNode() {}
func (*NumericLiteral) exprNode() {}
func (*BoolLiteral) exprNode() {}
func (*BoxedExpr) exprNode() {}
func (*ArrayLiteral) exprNode() {}
func (*DictionaryLiteral) exprNode() {}
func (*SelectorExpr) exprNode() {}
func (*UnaryExpr) exprNode() {}
func (*DeclRef) exprNode() {}
func (*ParenExpr) exprNode() {}
func (*ImplicitCastExpr) exprNode() {}
func (*CleanupsExpr) exprNode() {}
func (*OpaqueValueExpr) exprNode() {}
func (*PseudoObjectExpr) exprNode() {}
func (*PropertyRefExpr) exprNode() {}
func (*IvarRefExpr) exprNode() {}
func (*MessageExpr) exprNode() {}
func (*SubscriptExpr) exprNode() {}
func (*BinaryExpr) exprNode() {}
func (*ConditionalExpr) exprNode() {}
func (*BinaryConditionalExpr) exprNode() {}
func (*CastExpr) exprNode() {}
func (*StmtExpr) exprNode() {}
func (*BlockExpr) exprNode() {}
func (*CallExpr) exprNode() {}
func (*ImplicitValueInitExpr) exprNode() {}
func (*OtherExpr) exprNode() {}
