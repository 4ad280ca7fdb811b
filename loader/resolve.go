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
	"strings"

	"fortio.org/safecast"
	"go.uber.org/nullcheck/objc"
)

var _typeKinds = map[string]objc.TypeKind{
	"scalar":   objc.Scalar,
	"void":     objc.Void,
	"pointer":  objc.Pointer,
	"object":   objc.ObjectPointer,
	"id":       objc.ID,
	"block":    objc.BlockPointer,
	"function": objc.FunctionPointer,
	"typedef":  objc.Typedef,
}

var _annotations = map[string]objc.Annotation{
	"":                 objc.NoAnnotation,
	"nonnull":          objc.NonnullAnnotation,
	"nullable":         objc.NullableAnnotation,
	"null_unspecified": objc.NullUnspecifiedAnnotation,
}

var _receivers = map[string]objc.ReceiverKind{
	"instance":    objc.InstanceReceiver,
	"class":       objc.ClassReceiver,
	"super":       objc.SuperInstanceReceiver,
	"super_class": objc.SuperClassReceiver,
}

var _branches = map[string]string{
	"BreakStmt":    "break",
	"ContinueStmt": "continue",
	"GotoStmt":     "goto",
}

// Resolve converts a dump into a translation unit. Every table entry is resolved at most once, so
// two references to the same declaration (or node) yield the same pointer.
func Resolve(d *Dump) (*objc.TranslationUnit, error) {
	if d.Version != Version {
		return nil, fmt.Errorf("unsupported dump version %d (want %d)", d.Version, Version)
	}

	r := &resolver{
		d:           d,
		types:       make([]*objc.Type, len(d.Types)),
		classes:     make([]*objc.ClassDecl, len(d.Classes)),
		methods:     make([]*objc.MethodDecl, len(d.Methods)),
		properties:  make([]*objc.PropertyDecl, len(d.Properties)),
		ivars:       make([]*objc.IvarDecl, len(d.Ivars)),
		vars:        make([]*objc.VarDecl, len(d.Vars)),
		blocks:      make([]*objc.BlockDecl, len(d.Blocks)),
		exprs:       make([]objc.Expr, len(d.Nodes)),
		stmts:       make([]objc.Stmt, len(d.Nodes)),
		active:      make([]bool, len(d.Nodes)),
		activeTypes: make([]bool, len(d.Types)),
	}

	tu := &objc.TranslationUnit{MainFile: d.MainFile}
	for i := range d.Implementations {
		impl, err := r.implementation(&d.Implementations[i])
		if err != nil {
			return nil, fmt.Errorf("implementation %d: %w", i+1, err)
		}
		tu.Implementations = append(tu.Implementations, impl)
	}
	return tu, nil
}

// resolver memoizes the resolved form of every table entry. Declarations are stored before their
// fields are resolved, which makes reference cycles between them (a method and its container
// class, say) harmless. Types and nodes must be acyclic, so one reached again while it is being
// resolved is reported as an error.
type resolver struct {
	d *Dump

	types       []*objc.Type
	classes     []*objc.ClassDecl
	methods     []*objc.MethodDecl
	properties  []*objc.PropertyDecl
	ivars       []*objc.IvarDecl
	vars        []*objc.VarDecl
	blocks      []*objc.BlockDecl
	exprs       []objc.Expr
	stmts       []objc.Stmt
	active      []bool
	activeTypes []bool
}

// index converts a 1-based reference into a table of size n into a 0-based index. ok is false
// for the null reference.
func index(table string, ref int64, n int) (i int, ok bool, err error) {
	if ref == 0 {
		return 0, false, nil
	}
	i, err = safecast.Conv[int](ref)
	if err != nil || i < 1 || i > n {
		return 0, false, fmt.Errorf("%s reference %d out of range [1, %d]", table, ref, n)
	}
	return i - 1, true, nil
}

// each resolves a list of references, dropping null ones.
func each[T any](refs []int64, resolve func(int64) (T, error)) ([]T, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(refs))
	for _, ref := range refs {
		if ref == 0 {
			continue
		}
		v, err := resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *resolver) pos(p Pos) (token.Position, error) {
	var pos token.Position
	if i, ok, err := index("file", p.File, len(r.d.Files)); err != nil {
		return pos, err
	} else if ok {
		pos.Filename = r.d.Files[i]
	}
	var err error
	if pos.Line, err = safecast.Conv[int](p.Line); err != nil {
		return pos, fmt.Errorf("line: %w", err)
	}
	if pos.Column, err = safecast.Conv[int](p.Col); err != nil {
		return pos, fmt.Errorf("column: %w", err)
	}
	if pos.Offset, err = safecast.Conv[int](p.Offset); err != nil {
		return pos, fmt.Errorf("offset: %w", err)
	}
	return pos, nil
}

func (r *resolver) typ(ref int64) (*objc.Type, error) {
	i, ok, err := index("type", ref, len(r.types))
	if err != nil || !ok {
		return nil, err
	}
	if t := r.types[i]; t != nil {
		return t, nil
	}

	w := &r.d.Types[i]
	kind, ok := _typeKinds[w.Kind]
	if !ok {
		return nil, fmt.Errorf("type %d: unknown kind %q", ref, w.Kind)
	}
	annotation, ok := _annotations[w.Nullability]
	if !ok {
		return nil, fmt.Errorf("type %d: unknown nullability %q", ref, w.Nullability)
	}
	leave, err := enter(r.activeTypes, "type", ref, i)
	if err != nil {
		return nil, err
	}
	defer leave()

	t := &objc.Type{Kind: kind, Name: w.Name, Annotation: annotation, Protocols: w.Protocols}
	if t.Elem, err = r.typ(w.Elem); err != nil {
		return nil, err
	}
	if t.Result, err = r.typ(w.Result); err != nil {
		return nil, err
	}
	if t.Params, err = each(w.Params, r.typ); err != nil {
		return nil, err
	}
	r.types[i] = t
	return t, nil
}

func (r *resolver) class(ref int64) (*objc.ClassDecl, error) {
	i, ok, err := index("class", ref, len(r.classes))
	if err != nil || !ok {
		return nil, err
	}
	if c := r.classes[i]; c != nil {
		return c, nil
	}

	w := &r.d.Classes[i]
	c := &objc.ClassDecl{Name: w.Name, Protocol: w.Protocol}
	r.classes[i] = c
	if c.Pos, err = r.pos(w.Pos); err != nil {
		return nil, fmt.Errorf("class %d: %w", ref, err)
	}
	if c.Super, err = r.class(w.Super); err != nil {
		return nil, err
	}
	if c.Properties, err = each(w.Properties, r.property); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *resolver) method(ref int64) (*objc.MethodDecl, error) {
	i, ok, err := index("method", ref, len(r.methods))
	if err != nil || !ok {
		return nil, err
	}
	if m := r.methods[i]; m != nil {
		return m, nil
	}

	w := &r.d.Methods[i]
	m := &objc.MethodDecl{Selector: w.Selector, ClassMethod: w.ClassMethod, Attrs: w.Attrs}
	r.methods[i] = m
	if m.Pos, err = r.pos(w.Pos); err != nil {
		return nil, fmt.Errorf("method %d: %w", ref, err)
	}
	if m.Result, err = r.typ(w.Result); err != nil {
		return nil, err
	}
	if m.Params, err = each(w.Params, r.variable); err != nil {
		return nil, err
	}
	if m.Container, err = r.class(w.Container); err != nil {
		return nil, err
	}
	if m.Body, err = r.compound(w.Body); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *resolver) property(ref int64) (*objc.PropertyDecl, error) {
	i, ok, err := index("property", ref, len(r.properties))
	if err != nil || !ok {
		return nil, err
	}
	if p := r.properties[i]; p != nil {
		return p, nil
	}

	w := &r.d.Properties[i]
	p := &objc.PropertyDecl{Name: w.Name}
	r.properties[i] = p
	if p.Pos, err = r.pos(w.Pos); err != nil {
		return nil, fmt.Errorf("property %d: %w", ref, err)
	}
	if p.Type, err = r.typ(w.Type); err != nil {
		return nil, err
	}
	if p.Getter, err = r.method(w.Getter); err != nil {
		return nil, err
	}
	if p.Setter, err = r.method(w.Setter); err != nil {
		return nil, err
	}
	if p.Ivar, err = r.ivar(w.Ivar); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *resolver) ivar(ref int64) (*objc.IvarDecl, error) {
	i, ok, err := index("ivar", ref, len(r.ivars))
	if err != nil || !ok {
		return nil, err
	}
	if v := r.ivars[i]; v != nil {
		return v, nil
	}

	w := &r.d.Ivars[i]
	v := &objc.IvarDecl{Name: w.Name}
	r.ivars[i] = v
	if v.Pos, err = r.pos(w.Pos); err != nil {
		return nil, fmt.Errorf("ivar %d: %w", ref, err)
	}
	if v.Type, err = r.typ(w.Type); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *resolver) variable(ref int64) (*objc.VarDecl, error) {
	i, ok, err := index("var", ref, len(r.vars))
	if err != nil || !ok {
		return nil, err
	}
	if v := r.vars[i]; v != nil {
		return v, nil
	}

	w := &r.d.Vars[i]
	v := &objc.VarDecl{Name: w.Name}
	r.vars[i] = v
	if v.Pos, err = r.pos(w.Pos); err != nil {
		return nil, fmt.Errorf("var %d: %w", ref, err)
	}
	if v.Type, err = r.typ(w.Type); err != nil {
		return nil, err
	}
	if v.Init, err = r.expr(w.Init); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *resolver) block(ref int64) (*objc.BlockDecl, error) {
	i, ok, err := index("block", ref, len(r.blocks))
	if err != nil || !ok {
		return nil, err
	}
	if b := r.blocks[i]; b != nil {
		return b, nil
	}

	w := &r.d.Blocks[i]
	b := &objc.BlockDecl{}
	r.blocks[i] = b
	if b.Pos, err = r.pos(w.Pos); err != nil {
		return nil, fmt.Errorf("block %d: %w", ref, err)
	}
	if b.Params, err = each(w.Params, r.variable); err != nil {
		return nil, err
	}
	if b.Result, err = r.typ(w.Result); err != nil {
		return nil, err
	}
	if b.Body, err = r.compound(w.Body); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *resolver) implementation(w *Implementation) (*objc.ImplementationDecl, error) {
	var err error
	impl := &objc.ImplementationDecl{Category: w.Category}
	if impl.Pos, err = r.pos(w.Pos); err != nil {
		return nil, err
	}
	if impl.Class, err = r.class(w.Class); err != nil {
		return nil, err
	}
	if impl.Class == nil {
		return nil, errors.New("missing class")
	}
	if impl.Ivars, err = each(w.Ivars, r.ivar); err != nil {
		return nil, err
	}
	if impl.Methods, err = each(w.Methods, r.method); err != nil {
		return nil, err
	}
	return impl, nil
}

// enter marks entry i of a table as being resolved and returns the function that clears the mark.
func enter(active []bool, table string, ref int64, i int) (func(), error) {
	if active[i] {
		return nil, fmt.Errorf("%s %d: reference cycle", table, ref)
	}
	active[i] = true
	return func() { active[i] = false }, nil
}

func (r *resolver) expr(ref int64) (objc.Expr, error) {
	i, ok, err := index("node", ref, len(r.exprs))
	if err != nil || !ok {
		return nil, err
	}
	if e := r.exprs[i]; e != nil {
		return e, nil
	}
	n := &r.d.Nodes[i]
	if isStmtKind(n.Kind) {
		return nil, fmt.Errorf("node %d: %s used as an expression", ref, n.Kind)
	}

	leave, err := enter(r.active, "node", ref, i)
	if err != nil {
		return nil, err
	}
	defer leave()

	e, err := r.decodeExpr(n)
	if err != nil {
		return nil, fmt.Errorf("node %d (%s): %w", ref, n.Kind, err)
	}
	r.exprs[i] = e
	return e, nil
}

func (r *resolver) stmt(ref int64) (objc.Stmt, error) {
	i, ok, err := index("node", ref, len(r.stmts))
	if err != nil || !ok {
		return nil, err
	}
	if s := r.stmts[i]; s != nil {
		return s, nil
	}
	n := &r.d.Nodes[i]
	if !isStmtKind(n.Kind) {
		x, err := r.expr(ref)
		if err != nil {
			return nil, err
		}
		s := &objc.ExprStmt{X: x}
		r.stmts[i] = s
		return s, nil
	}

	leave, err := enter(r.active, "node", ref, i)
	if err != nil {
		return nil, err
	}
	defer leave()

	s, err := r.decodeStmt(n)
	if err != nil {
		return nil, fmt.Errorf("node %d (%s): %w", ref, n.Kind, err)
	}
	r.stmts[i] = s
	return s, nil
}

func (r *resolver) compound(ref int64) (*objc.CompoundStmt, error) {
	s, err := r.stmt(ref)
	if err != nil || s == nil {
		return nil, err
	}
	c, ok := s.(*objc.CompoundStmt)
	if !ok {
		return nil, fmt.Errorf("node %d: expected CompoundStmt, got %T", ref, s)
	}
	return c, nil
}

func isStmtKind(kind string) bool {
	return strings.HasSuffix(kind, "Stmt") && kind != "StmtExpr"
}

// child returns the reference of the k-th child of n, 0 if there is none.
func child(n *Node, k int) int64 {
	if k < len(n.Children) {
		return n.Children[k]
	}
	return 0
}

// childExprs resolves the children of n starting at the k-th.
func (r *resolver) childExprs(n *Node, k int) ([]objc.Expr, error) {
	if k >= len(n.Children) {
		return nil, nil
	}
	return each(n.Children[k:], r.expr)
}
