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

// Inspect traverses the tree rooted at node in depth-first order, in the manner of
// go/ast.Inspect: it calls f(node); if f returns true, Inspect invokes f recursively for each
// non-nil child of node, followed by a call of f(nil).
//
// Declaration statements visit the initializers of the declared variables, and block literals
// visit the block body. Opaque values are leaves. A pseudo-object expression visits its
// syntactic form, then the source of each opaque value it binds exactly once, then the
// semantic forms other than opaque values.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	walkChildren(node, f)
	f(nil)
}

func inspectExprs(list []Expr, f func(Node) bool) {
	for _, e := range list {
		if e != nil {
			Inspect(e, f)
		}
	}
}

func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectStmt(s Stmt, f func(Node) bool) {
	if s != nil {
		Inspect(s, f)
	}
}

func walkChildren(node Node, f func(Node) bool) {
	switch n := node.(type) {
	// Expressions
	case *StringLiteral, *NumericLiteral, *BoolLiteral, *SelectorExpr, *DeclRef,
		*ImplicitValueInitExpr, *OpaqueValueExpr:
		// leaves
	case *BoxedExpr:
		inspectExpr(n.X, f)
	case *ArrayLiteral:
		inspectExprs(n.Elements, f)
	case *DictionaryLiteral:
		for _, kv := range n.Elements {
			inspectExpr(kv.Key, f)
			inspectExpr(kv.Value, f)
		}
	case *UnaryExpr:
		inspectExpr(n.X, f)
	case *ParenExpr:
		inspectExpr(n.X, f)
	case *ImplicitCastExpr:
		inspectExpr(n.X, f)
	case *CleanupsExpr:
		inspectExpr(n.X, f)
	case *PseudoObjectExpr:
		if n.Syntactic == nil && len(n.Semantic) == 0 {
			inspectExpr(n.Result, f)
			break
		}
		inspectExpr(n.Syntactic, f)
		for _, ov := range opaqueValues(n) {
			inspectExpr(ov.Source, f)
		}
		for _, s := range n.Semantic {
			if _, ok := s.(*OpaqueValueExpr); !ok {
				inspectExpr(s, f)
			}
		}
	case *PropertyRefExpr:
		inspectExpr(n.Receiver, f)
	case *IvarRefExpr:
		inspectExpr(n.Base, f)
	case *MessageExpr:
		inspectExpr(n.Receiver, f)
		inspectExprs(n.Args, f)
	case *SubscriptExpr:
		inspectExpr(n.Base, f)
		inspectExpr(n.Key, f)
	case *BinaryExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Y, f)
	case *ConditionalExpr:
		inspectExpr(n.Cond, f)
		inspectExpr(n.Then, f)
		inspectExpr(n.Else, f)
	case *BinaryConditionalExpr:
		inspectExpr(n.Cond, f)
		inspectExpr(n.Else, f)
	case *CastExpr:
		inspectExpr(n.X, f)
	case *StmtExpr:
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *BlockExpr:
		if n.Block != nil && n.Block.Body != nil {
			Inspect(n.Block.Body, f)
		}
	case *CallExpr:
		inspectExpr(n.Fun, f)
		inspectExprs(n.Args, f)
	case *OtherExpr:
		inspectExprs(n.Children, f)

	// Statements
	case *CompoundStmt:
		for _, s := range n.List {
			inspectStmt(s, f)
		}
	case *DeclStmt:
		for _, d := range n.Decls {
			if d != nil {
				inspectExpr(d.Init, f)
			}
		}
	case *ExprStmt:
		inspectExpr(n.X, f)
	case *ReturnStmt:
		inspectExpr(n.Result, f)
	case *IfStmt:
		inspectExpr(n.Cond, f)
		inspectStmt(n.Then, f)
		inspectStmt(n.Else, f)
	case *WhileStmt:
		inspectExpr(n.Cond, f)
		inspectStmt(n.Body, f)
	case *DoStmt:
		inspectStmt(n.Body, f)
		inspectExpr(n.Cond, f)
	case *ForStmt:
		inspectStmt(n.Init, f)
		inspectExpr(n.Cond, f)
		inspectExpr(n.Post, f)
		inspectStmt(n.Body, f)
	case *ForInStmt:
		inspectStmt(n.Element, f)
		inspectExpr(n.Collection, f)
		inspectStmt(n.Body, f)
	case *SwitchStmt:
		inspectExpr(n.Tag, f)
		inspectStmt(n.Body, f)
	case *CaseStmt:
		inspectExpr(n.Value, f)
		inspectStmt(n.Body, f)
	case *TryStmt:
		inspectStmt(n.Body, f)
		for _, c := range n.Catches {
			if c != nil {
				Inspect(c, f)
			}
		}
		inspectStmt(n.Finally, f)
	case *CatchStmt:
		inspectStmt(n.Body, f)
	case *ThrowStmt:
		inspectExpr(n.X, f)
	case *AutoreleasePoolStmt:
		inspectStmt(n.Body, f)
	case *SynchronizedStmt:
		inspectExpr(n.Lock, f)
		inspectStmt(n.Body, f)
	case *BranchStmt, *NullStmt:
		// leaves
	}
}

// opaqueValues returns the opaque values bound by the pseudo-object expression without
// duplicates: the ones listed among its semantic forms first, then the ones only referenced from
// the syntactic or semantic forms. Opaque values of nested pseudo-object expressions are left to
// those expressions.
func opaqueValues(n *PseudoObjectExpr) []*OpaqueValueExpr {
	var list []*OpaqueValueExpr
	seen := make(map[*OpaqueValueExpr]bool)
	add := func(ov *OpaqueValueExpr) {
		if ov != nil && !seen[ov] {
			seen[ov] = true
			list = append(list, ov)
		}
	}
	for _, s := range n.Semantic {
		if ov, ok := s.(*OpaqueValueExpr); ok {
			add(ov)
		}
	}
	collect := func(root Expr) {
		if root == nil {
			return
		}
		Inspect(root, func(node Node) bool {
			switch node := node.(type) {
			case *OpaqueValueExpr:
				add(node)
			case *PseudoObjectExpr:
				return false
			}
			return node != nil
		})
	}
	collect(n.Syntactic)
	for _, s := range n.Semantic {
		if _, ok := s.(*OpaqueValueExpr); !ok {
			collect(s)
		}
	}
	return list
}
