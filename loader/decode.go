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

import (
	"errors"
	"fmt"
	"go/token"

	"go.uber.org/nullcheck/objc"
)

func (r *resolver) decodeExpr(n *Node) (objc.Expr, error) {
	loc, err := r.pos(n.Pos)
	if err != nil {
		return nil, err
	}
	typ, err := r.typ(n.Type)
	if err != nil {
		return nil, err
	}
	x := func(k int) objc.Expr {
		if err != nil {
			return nil
		}
		var e objc.Expr
		e, err = r.expr(child(n, k))
		return e
	}

	var e objc.Expr
	switch n.Kind {
	case "ObjCStringLiteral":
		e = &objc.StringLiteral{Loc: loc, StaticType: typ, Value: n.Value, ObjC: true}
	case "StringLiteral":
		e = &objc.StringLiteral{Loc: loc, StaticType: typ, Value: n.Value}
	case "IntegerLiteral", "FloatingLiteral", "CharacterLiteral":
		e = &objc.NumericLiteral{Loc: loc, StaticType: typ, Value: n.Value}
	case "ObjCBoolLiteralExpr", "CXXBoolLiteralExpr":
		e = &objc.BoolLiteral{Loc: loc, StaticType: typ, Value: n.Value == "true"}
	case "ObjCBoxedExpr":
		e = &objc.BoxedExpr{Loc: loc, StaticType: typ, X: x(0)}
	case "ObjCArrayLiteral":
		lit := &objc.ArrayLiteral{Loc: loc, StaticType: typ}
		lit.Elements, err = r.childExprs(n, 0)
		e = lit
	case "ObjCDictionaryLiteral":
		e, err = r.dictionary(n, loc, typ)
	case "ObjCSelectorExpr":
		e = &objc.SelectorExpr{Loc: loc, StaticType: typ, Selector: n.Value}
	case "UnaryOperator":
		e = &objc.UnaryExpr{Loc: loc, StaticType: typ, Op: objc.UnaryOp(n.Op), X: x(0)}
	case "BinaryOperator", "CompoundAssignOperator":
		e = &objc.BinaryExpr{Loc: loc, StaticType: typ, Op: objc.BinaryOp(n.Op), X: x(0), Y: x(1)}
	case "DeclRefExpr":
		ref := &objc.DeclRef{Loc: loc, StaticType: typ, Name: n.Value}
		ref.Var, err = r.variable(n.Var)
		e = ref
	case "ParenExpr":
		e = &objc.ParenExpr{Loc: loc, StaticType: typ, X: x(0)}
	case "ImplicitCastExpr":
		e = &objc.ImplicitCastExpr{Loc: loc, StaticType: typ, X: x(0)}
	case "ExprWithCleanups":
		e = &objc.CleanupsExpr{Loc: loc, StaticType: typ, X: x(0)}
	case "OpaqueValueExpr":
		e = &objc.OpaqueValueExpr{Loc: loc, StaticType: typ, Source: x(0)}
	case "PseudoObjectExpr":
		e, err = r.pseudoObject(n, loc, typ)
	case "ObjCPropertyRefExpr":
		ref := &objc.PropertyRefExpr{Loc: loc, StaticType: typ, Receiver: x(0)}
		if err == nil {
			ref.Property, err = r.property(n.Property)
		}
		if err == nil {
			ref.Getter, err = r.method(n.Getter)
		}
		if err == nil {
			ref.Setter, err = r.method(n.Setter)
		}
		e = ref
	case "ObjCIvarRefExpr":
		ref := &objc.IvarRefExpr{Loc: loc, StaticType: typ, Base: x(0)}
		if err == nil {
			ref.Ivar, err = r.ivar(n.Ivar)
		}
		e = ref
	case "ObjCMessageExpr":
		e, err = r.message(n, loc, typ)
	case "ObjCSubscriptRefExpr":
		sub := &objc.SubscriptExpr{Loc: loc, StaticType: typ, Base: x(0), Key: x(1)}
		if err == nil {
			sub.Getter, err = r.method(n.Getter)
		}
		if err == nil {
			sub.Setter, err = r.method(n.Setter)
		}
		e = sub
	case "ConditionalOperator":
		e = &objc.ConditionalExpr{Loc: loc, StaticType: typ, Cond: x(0), Then: x(1), Else: x(2)}
	case "BinaryConditionalOperator":
		e = &objc.BinaryConditionalExpr{Loc: loc, StaticType: typ, Cond: x(0), Else: x(1)}
	case "CStyleCastExpr":
		e = &objc.CastExpr{Loc: loc, StaticType: typ, X: x(0)}
	case "StmtExpr":
		se := &objc.StmtExpr{Loc: loc, StaticType: typ}
		se.Body, err = r.compound(child(n, 0))
		e = se
	case "BlockExpr":
		be := &objc.BlockExpr{Loc: loc, StaticType: typ}
		be.Block, err = r.block(n.Block)
		e = be
	case "CallExpr":
		call := &objc.CallExpr{Loc: loc, StaticType: typ, Fun: x(0)}
		if err == nil {
			call.Args, err = r.childExprs(n, 1)
		}
		e = call
	case "ImplicitValueInitExpr":
		e = &objc.ImplicitValueInitExpr{Loc: loc, StaticType: typ}
	default:
		other := &objc.OtherExpr{Loc: loc, StaticType: typ, Kind: n.Kind}
		other.Children, err = r.childExprs(n, 0)
		e = other
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *resolver) dictionary(n *Node, loc token.Position, typ *objc.Type) (objc.Expr, error) {
	if len(n.Children)%2 != 0 {
		return nil, fmt.Errorf("odd number of children (%d)", len(n.Children))
	}
	lit := &objc.DictionaryLiteral{Loc: loc, StaticType: typ}
	for k := 0; k < len(n.Children); k += 2 {
		key, err := r.expr(n.Children[k])
		if err != nil {
			return nil, err
		}
		value, err := r.expr(n.Children[k+1])
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, objc.KeyValue{Key: key, Value: value})
	}
	return lit, nil
}

func (r *resolver) pseudoObject(n *Node, loc token.Position, typ *objc.Type) (objc.Expr, error) {
	if len(n.Children) == 0 {
		return nil, errors.New("missing syntactic form")
	}
	var err error
	pseudo := &objc.PseudoObjectExpr{Loc: loc, StaticType: typ}
	if pseudo.Syntactic, err = r.expr(n.Children[0]); err != nil {
		return nil, err
	}
	if pseudo.Semantic, err = r.childExprs(n, 1); err != nil {
		return nil, err
	}
	if pseudo.Result, err = r.expr(n.Result); err != nil {
		return nil, err
	}
	return pseudo, nil
}

func (r *resolver) message(n *Node, loc token.Position, typ *objc.Type) (objc.Expr, error) {
	kind, ok := _receivers[n.Receiver]
	if !ok {
		return nil, fmt.Errorf("unknown receiver kind %q", n.Receiver)
	}

	var err error
	msg := &objc.MessageExpr{Loc: loc, StaticType: typ, ReceiverKind: kind, Selector: n.Value}
	args := 0
	if kind == objc.InstanceReceiver {
		if msg.Receiver, err = r.expr(child(n, 0)); err != nil {
			return nil, err
		}
		if msg.Receiver == nil {
			return nil, errors.New("missing instance receiver")
		}
		args = 1
	}
	if msg.Args, err = r.childExprs(n, args); err != nil {
		return nil, err
	}
	if msg.ReceiverType, err = r.typ(n.ReceiverType); err != nil {
		return nil, err
	}
	if msg.Method, err = r.method(n.Method); err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *resolver) decodeStmt(n *Node) (objc.Stmt, error) {
	loc, err := r.pos(n.Pos)
	if err != nil {
		return nil, err
	}
	x := func(k int) objc.Expr {
		if err != nil {
			return nil
		}
		var e objc.Expr
		e, err = r.expr(child(n, k))
		return e
	}
	s := func(k int) objc.Stmt {
		if err != nil {
			return nil
		}
		var st objc.Stmt
		st, err = r.stmt(child(n, k))
		return st
	}

	var st objc.Stmt
	switch n.Kind {
	case "CompoundStmt":
		c := &objc.CompoundStmt{Loc: loc}
		c.List, err = each(n.Children, r.stmt)
		st = c
	case "DeclStmt":
		d := &objc.DeclStmt{Loc: loc}
		d.Decls, err = each(n.Vars, r.variable)
		st = d
	case "ReturnStmt":
		st = &objc.ReturnStmt{Loc: loc, Result: x(0)}
	case "IfStmt":
		st = &objc.IfStmt{Loc: loc, Cond: x(0), Then: s(1), Else: s(2)}
	case "WhileStmt":
		st = &objc.WhileStmt{Loc: loc, Cond: x(0), Body: s(1)}
	case "DoStmt":
		st = &objc.DoStmt{Loc: loc, Body: s(0), Cond: x(1)}
	case "ForStmt":
		st = &objc.ForStmt{Loc: loc, Init: s(0), Cond: x(1), Post: x(2), Body: s(3)}
	case "ObjCForCollectionStmt":
		st = &objc.ForInStmt{Loc: loc, Element: s(0), Collection: x(1), Body: s(2)}
	case "SwitchStmt":
		st = &objc.SwitchStmt{Loc: loc, Tag: x(0), Body: s(1)}
	case "CaseStmt":
		st = &objc.CaseStmt{Loc: loc, Value: x(0), Body: s(1)}
	case "DefaultStmt":
		st = &objc.CaseStmt{Loc: loc, Body: s(0)}
	case "BreakStmt", "ContinueStmt", "GotoStmt":
		st = &objc.BranchStmt{Loc: loc, Tok: _branches[n.Kind]}
	case "LabelStmt", "AttributedStmt":
		// The label or attribute itself does not matter to the analysis.
		st = s(0)
		if err == nil && st == nil {
			st = &objc.NullStmt{Loc: loc}
		}
	case "ObjCAtTryStmt":
		st, err = r.try(n, loc)
	case "ObjCAtCatchStmt":
		c := &objc.CatchStmt{Loc: loc, Body: s(0)}
		if err == nil {
			c.Param, err = r.variable(n.Var)
		}
		st = c
	case "ObjCAtThrowStmt":
		st = &objc.ThrowStmt{Loc: loc, X: x(0)}
	case "ObjCAutoreleasePoolStmt":
		st = &objc.AutoreleasePoolStmt{Loc: loc, Body: s(0)}
	case "ObjCAtSynchronizedStmt":
		st = &objc.SynchronizedStmt{Loc: loc, Lock: x(0), Body: s(1)}
	case "NullStmt":
		st = &objc.NullStmt{Loc: loc}
	default:
		return nil, fmt.Errorf("unknown statement kind %q", n.Kind)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *resolver) try(n *Node, loc token.Position) (objc.Stmt, error) {
	var err error
	try := &objc.TryStmt{Loc: loc}
	if try.Body, err = r.stmt(child(n, 0)); err != nil {
		return nil, err
	}
	if try.Finally, err = r.stmt(child(n, 1)); err != nil {
		return nil, err
	}
	for k := 2; k < len(n.Children); k++ {
		st, err := r.stmt(n.Children[k])
		if err != nil {
			return nil, err
		}
		c, ok := st.(*objc.CatchStmt)
		if !ok {
			return nil, fmt.Errorf("child %d: expected ObjCAtCatchStmt, got %T", k, st)
		}
		try.Catches = append(try.Catches, c)
	}
	return try, nil
}
