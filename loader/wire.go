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

package loader

// Version is the version of the dump format this package reads.
const Version = 1

// Dump is the wire form of one translation unit as exported by the frontend. Declarations and
// nodes live in flat tables and refer to each other by 1-based index into the table of their
// kind; 0 means "none".
type Dump struct {
	Version         int              `json:"version" msgpack:"version"`
	MainFile        string           `json:"main_file" msgpack:"main_file"`
	Files           []string         `json:"files,omitempty" msgpack:"files,omitempty"`
	Types           []Type           `json:"types,omitempty" msgpack:"types,omitempty"`
	Classes         []Class          `json:"classes,omitempty" msgpack:"classes,omitempty"`
	Methods         []Method         `json:"methods,omitempty" msgpack:"methods,omitempty"`
	Properties      []Property       `json:"properties,omitempty" msgpack:"properties,omitempty"`
	Ivars           []Ivar           `json:"ivars,omitempty" msgpack:"ivars,omitempty"`
	Vars            []Var            `json:"vars,omitempty" msgpack:"vars,omitempty"`
	Blocks          []Block          `json:"blocks,omitempty" msgpack:"blocks,omitempty"`
	Nodes           []Node           `json:"nodes,omitempty" msgpack:"nodes,omitempty"`
	Implementations []Implementation `json:"implementations,omitempty" msgpack:"implementations,omitempty"`
}

// Pos is a source position. File indexes Files.
type Pos struct {
	File   int64 `json:"file,omitempty" msgpack:"file,omitempty"`
	Line   int64 `json:"line,omitempty" msgpack:"line,omitempty"`
	Col    int64 `json:"col,omitempty" msgpack:"col,omitempty"`
	Offset int64 `json:"offset,omitempty" msgpack:"offset,omitempty"`
}

// Type is a type. Kind is one of "scalar", "void", "pointer", "object", "id", "block",
// "function" and "typedef"; Nullability is empty or one of "nonnull", "nullable" and
// "null_unspecified". Elem, Params and Result index Types.
type Type struct {
	Kind        string   `json:"kind" msgpack:"kind"`
	Name        string   `json:"name,omitempty" msgpack:"name,omitempty"`
	Nullability string   `json:"nullability,omitempty" msgpack:"nullability,omitempty"`
	Elem        int64    `json:"elem,omitempty" msgpack:"elem,omitempty"`
	Params      []int64  `json:"params,omitempty" msgpack:"params,omitempty"`
	Result      int64    `json:"result,omitempty" msgpack:"result,omitempty"`
	Protocols   []string `json:"protocols,omitempty" msgpack:"protocols,omitempty"`
}

// Class is a class or a protocol. Super indexes Classes, Properties indexes Properties.
type Class struct {
	Name       string  `json:"name" msgpack:"name"`
	Protocol   bool    `json:"protocol,omitempty" msgpack:"protocol,omitempty"`
	Super      int64   `json:"super,omitempty" msgpack:"super,omitempty"`
	Properties []int64 `json:"properties,omitempty" msgpack:"properties,omitempty"`
	Pos        Pos     `json:"pos" msgpack:"pos"`
}

// Method is a method declaration. Params index Vars, Container indexes Classes and Body indexes
// Nodes (a CompoundStmt).
type Method struct {
	Selector    string   `json:"selector" msgpack:"selector"`
	ClassMethod bool     `json:"class_method,omitempty" msgpack:"class_method,omitempty"`
	Result      int64    `json:"result,omitempty" msgpack:"result,omitempty"`
	Params      []int64  `json:"params,omitempty" msgpack:"params,omitempty"`
	Container   int64    `json:"container,omitempty" msgpack:"container,omitempty"`
	Attrs       []string `json:"attrs,omitempty" msgpack:"attrs,omitempty"`
	Body        int64    `json:"body,omitempty" msgpack:"body,omitempty"`
	Pos         Pos      `json:"pos" msgpack:"pos"`
}

// Property is a property declaration. Getter and Setter index Methods, Ivar indexes Ivars.
type Property struct {
	Name   string `json:"name" msgpack:"name"`
	Type   int64  `json:"type,omitempty" msgpack:"type,omitempty"`
	Getter int64  `json:"getter,omitempty" msgpack:"getter,omitempty"`
	Setter int64  `json:"setter,omitempty" msgpack:"setter,omitempty"`
	Ivar   int64  `json:"ivar,omitempty" msgpack:"ivar,omitempty"`
	Pos    Pos    `json:"pos" msgpack:"pos"`
}

// Ivar is an instance variable declaration.
type Ivar struct {
	Name string `json:"name" msgpack:"name"`
	Type int64  `json:"type,omitempty" msgpack:"type,omitempty"`
	Pos  Pos    `json:"pos" msgpack:"pos"`
}

// Var is a local variable or a parameter. Init indexes Nodes.
type Var struct {
	Name string `json:"name" msgpack:"name"`
	Type int64  `json:"type,omitempty" msgpack:"type,omitempty"`
	Init int64  `json:"init,omitempty" msgpack:"init,omitempty"`
	Pos  Pos    `json:"pos" msgpack:"pos"`
}

// Block is the declaration of a block literal. Params index Vars, Body indexes Nodes.
type Block struct {
	Params []int64 `json:"params,omitempty" msgpack:"params,omitempty"`
	Result int64   `json:"result,omitempty" msgpack:"result,omitempty"`
	Body   int64   `json:"body,omitempty" msgpack:"body,omitempty"`
	Pos    Pos     `json:"pos" msgpack:"pos"`
}

// Implementation is an @implementation of a class or a category.
type Implementation struct {
	Class    int64   `json:"class" msgpack:"class"`
	Category string  `json:"category,omitempty" msgpack:"category,omitempty"`
	Ivars    []int64 `json:"ivars,omitempty" msgpack:"ivars,omitempty"`
	Methods  []int64 `json:"methods,omitempty" msgpack:"methods,omitempty"`
	Pos      Pos     `json:"pos" msgpack:"pos"`
}

// Node is a statement or an expression. Kind is the frontend's name of the node class; the
// meaning of Children and of the other fields depends on it:
//
//	CompoundStmt                 children: statements
//	DeclStmt                     vars: declared variables
//	ReturnStmt                   children: [result]
//	IfStmt                       children: [cond, then, else]
//	WhileStmt                    children: [cond, body]
//	DoStmt                       children: [body, cond]
//	ForStmt                      children: [init, cond, inc, body]
//	ObjCForCollectionStmt        children: [element, collection, body]
//	SwitchStmt                   children: [cond, body]
//	CaseStmt                     children: [value, body]
//	DefaultStmt                  children: [body]
//	BreakStmt, ContinueStmt      -
//	GotoStmt                     value: label
//	LabelStmt, AttributedStmt    children: [statement]
//	ObjCAtTryStmt                children: [body, finally, catch...]
//	ObjCAtCatchStmt              var: parameter; children: [body]
//	ObjCAtThrowStmt              children: [exception]
//	ObjCAutoreleasePoolStmt      children: [body]
//	ObjCAtSynchronizedStmt       children: [lock, body]
//	NullStmt                     -
//
//	ObjCStringLiteral            value
//	StringLiteral                value
//	IntegerLiteral, FloatingLiteral, CharacterLiteral    value
//	ObjCBoolLiteralExpr, CXXBoolLiteralExpr              value: "true" or "false"
//	ObjCBoxedExpr                children: [x]
//	ObjCArrayLiteral             children: elements
//	ObjCDictionaryLiteral        children: [key, value, key, value...]
//	ObjCSelectorExpr             value: selector
//	UnaryOperator                op; children: [x]
//	BinaryOperator, CompoundAssignOperator               op; children: [lhs, rhs]
//	DeclRefExpr                  value: name; var: referenced variable, if any
//	ParenExpr, ImplicitCastExpr, ExprWithCleanups        children: [x]
//	OpaqueValueExpr              children: [source]
//	PseudoObjectExpr             children: [syntactic, semantic...]; result
//	ObjCPropertyRefExpr          children: [receiver]; property, getter, setter
//	ObjCIvarRefExpr              children: [base]; ivar
//	ObjCMessageExpr              receiver; children: [receiver, args...] for instance
//	                             receivers, [args...] otherwise; value: selector;
//	                             method; receiver_type
//	ObjCSubscriptRefExpr         children: [base, key]; getter, setter
//	ConditionalOperator          children: [cond, then, else]
//	BinaryConditionalOperator    children: [cond, else]
//	CStyleCastExpr               children: [x]
//	StmtExpr                     children: [compound statement]
//	BlockExpr                    block
//	CallExpr                     children: [callee, args...]
//	ImplicitValueInitExpr        -
//
// Any other kind ending in "Stmt" is an error; any other kind is an expression the analysis
// does not classify, with its subexpressions as children.
type Node struct {
	Kind         string  `json:"kind" msgpack:"kind"`
	Pos          Pos     `json:"pos" msgpack:"pos"`
	Type         int64   `json:"type,omitempty" msgpack:"type,omitempty"`
	Children     []int64 `json:"children,omitempty" msgpack:"children,omitempty"`
	Op           string  `json:"op,omitempty" msgpack:"op,omitempty"`
	Value        string  `json:"value,omitempty" msgpack:"value,omitempty"`
	Var          int64   `json:"var,omitempty" msgpack:"var,omitempty"`
	Vars         []int64 `json:"vars,omitempty" msgpack:"vars,omitempty"`
	Method       int64   `json:"method,omitempty" msgpack:"method,omitempty"`
	Property     int64   `json:"property,omitempty" msgpack:"property,omitempty"`
	Ivar         int64   `json:"ivar,omitempty" msgpack:"ivar,omitempty"`
	Block        int64   `json:"block,omitempty" msgpack:"block,omitempty"`
	Getter       int64   `json:"getter,omitempty" msgpack:"getter,omitempty"`
	Setter       int64   `json:"setter,omitempty" msgpack:"setter,omitempty"`
	Receiver     string  `json:"receiver,omitempty" msgpack:"receiver,omitempty"`
	ReceiverType int64   `json:"receiver_type,omitempty" msgpack:"receiver_type,omitempty"`
	Result       int64   `json:"result,omitempty" msgpack:"result,omitempty"`
}
