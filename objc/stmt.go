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

// Stmt is a statement. The set of implementations is closed.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X Expr
}

// Pos returns the position of the expression.
func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }

func (*ExprStmt) stmtNode() {}

// CompoundStmt is a braced statement list.
type CompoundStmt struct {
	Loc  token.Position
	List []Stmt
}

// DeclStmt declares one or more local variables.
type DeclStmt struct {
	Loc   token.Position
	Decls []*VarDecl
}

// ReturnStmt is a return statement; Result is nil for a bare `return;`.
type ReturnStmt struct {
	Loc    token.Position
	Result Expr
}

// IfStmt is an if statement; Else is nil when absent.
type IfStmt struct {
	Loc  token.Position
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt is a while loop.
type WhileStmt struct {
	Loc  token.Position
	Cond Expr
	Body Stmt
}

// DoStmt is a do-while loop.
type DoStmt struct {
	Loc  token.Position
	Body Stmt
	Cond Expr
}

// ForStmt is a C for loop; any of Init, Cond and Post may be nil.
type ForStmt struct {
	Loc  token.Position
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

// ForInStmt is a fast enumeration loop `for (T x in collection)`. Element is a DeclStmt
// declaring the iteration variable, or an ExprStmt referring to an existing one.
type ForInStmt struct {
	Loc        token.Position
	Element    Stmt
	Collection Expr
	Body       Stmt
}

// SwitchStmt is a switch statement.
type SwitchStmt struct {
	Loc  token.Position
	Tag  Expr
	Body Stmt
}

// CaseStmt is a case label with the statement it labels; Value is nil for `default:`.
type CaseStmt struct {
	Loc   token.Position
	Value Expr
	Body  Stmt
}

// BranchStmt is break, continue or goto.
type BranchStmt struct {
	Loc token.Position
	Tok string
}

// TryStmt is `@try` with its `@catch` clauses and optional `@finally`.
type TryStmt struct {
	Loc     token.Position
	Body    Stmt
	Catches []*CatchStmt
	Finally Stmt
}

// CatchStmt is a single `@catch` clause; Param is nil for `@catch (...)`.
type CatchStmt struct {
	Loc   token.Position
	Param *VarDecl
	Body  Stmt
}

// ThrowStmt is `@throw x;`.
type ThrowStmt struct {
	Loc token.Position
	X   Expr
}

// AutoreleasePoolStmt is `@autoreleasepool { ... }`.
type AutoreleasePoolStmt struct {
	Loc  token.Position
	Body Stmt
}

// SynchronizedStmt is `@synchronized (lock) { ... }`.
type SynchronizedStmt struct {
	Loc  token.Position
	Lock Expr
	Body Stmt
}

// NullStmt is an empty statement.
type NullStmt struct {
	Loc token.Position
}

func (s *CompoundStmt) Pos() token.Position { return s.Loc }
func (s *DeclStmt) Pos() token.Position { return s.Loc }
func (s *ReturnStmt) Pos() token.Position { return s.Loc }
func (s *IfStmt) Pos() token.Position { return s.Loc }
func (s *WhileStmt) Pos() token.Position { return s.Loc }
func (s *DoStmt) Pos() token.Position { return s.Loc }
func (s *ForStmt) Pos() token.Position { return s.Loc }
func (s *ForInStmt) Pos() token.Position { return s.Loc }
func (s *SwitchStmt) Pos() token.Position { return s.Loc }
func (s *CaseStmt) Pos() token.Position { return s.Loc }
func (s *BranchStmt) Pos() token.Position { return s.Loc }
func (s *TryStmt) Pos() token.Position { return s.Loc }
func (s *CatchStmt) Pos() token.Position { return s.Loc }
func (s *ThrowStmt) Pos() token.Position { return s.Loc }
func (s *AutoreleasePoolStmt) Pos() token.Position { return s.Loc }
func (s *SynchronizedStmt) Pos() token.Position { return s.Loc }
func (s *NullStmt) Pos() token.Position { return s.Loc }

// stmtNode() ensures that only statement nodes can be assigned to a Stmt.
func (*CompoundStmt) stmtNode() {}
func (*DeclStmt) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
func (*IfStmt) stmtNode() {}
func (*WhileStmt) stmtNode() {}
func (*DoStmt) stmtNode() {}
func (*ForStmt) stmtNode() {}
func (*ForInStmt) stmtNode() {}
func (*SwitchStmt) stmtNode() {}
func (*CaseStmt) stmtNode() {}
func (*BranchStmt) stmtNode() {}
func (*TryStmt) stmtNode() {}
func (*CatchStmt) stmtNode() {}
func (*ThrowStmt) stmtNode() {}
func (*AutoreleasePoolStmt) stmtNode() {}
func (*SynchronizedStmt) stmtNode() {}
func (*NullStmt) stmtNode() {}
