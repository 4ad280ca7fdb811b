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

package inference

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/nullcheck/annotation"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/nullchecktest"
	"go.uber.org/nullcheck/objc"
)

// fixture bundles a builder with the Foundation prelude and a test class:
//
//	@interface Foo : NSObject
//	  - (nullable NSString *)foo;
//	  - (nonnull NSString *)bar;
//	  - (nullable instancetype)init;
//	@end
type fixture struct {
	*nullchecktest.Builder
	f         *nullchecktest.Foundation
	class     *objc.ClassDecl
	foo       *objc.MethodDecl
	bar       *objc.MethodDecl
	nilInit   *objc.MethodDecl
	nonnullX  *objc.VarDecl
	nullableX *objc.VarDecl
	plainX    *objc.VarDecl
}

func newFixture() *fixture {
	b := nullchecktest.New("Test.m")
	f := nullchecktest.NewFoundation(b)
	class := b.Class("Foo", f.NSObject)
	return &fixture{
		Builder:   b,
		f:         f,
		class:     class,
		foo:       b.Method(class, "foo", nullchecktest.Nullable("NSString")),
		bar:       b.Method(class, "bar", nullchecktest.Nonnull("NSString")),
		nilInit:   b.Method(class, "init", nullchecktest.Nullable("instancetype")),
		nonnullX:  b.Var("x", nullchecktest.Nonnull("Foo"), nil),
		nullableX: b.Var("y", nullchecktest.Nullable("Foo"), nil),
		plainX:    b.Var("z", nullchecktest.Plain("Foo"), nil),
	}
}

func kindOf(t *testing.T, calc *Calculator, e objc.Expr) annotation.Kind {
	t.Helper()
	return calc.Nullability(e).Kind
}

func TestCalculator_Literals(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	calc := NewCalculator(NewEnv(), nil)
	literals := map[string]objc.Expr{
		"string":     fx.Str("hello"),
		"boxed":      fx.Num("1"),
		"array":      fx.Array(fx.Ref(fx.nullableX)),
		"dictionary": fx.Dict(fx.Str("k"), fx.Ref(fx.nullableX)),
		"selector":   &objc.SelectorExpr{StaticType: nullchecktest.Plain("SEL"), Selector: "foo"},
		"numeric":    &objc.NumericLiteral{StaticType: nullchecktest.Int(), Value: "0"},
		"bool":       &objc.BoolLiteral{StaticType: nullchecktest.Int(), Value: true},
		"unary":      fx.Not(fx.Ref(fx.nullableX)),
		"c string":   &objc.StringLiteral{StaticType: &objc.Type{Kind: objc.Pointer, Name: "char"}, Value: "c"},
	}
	for name, e := range literals {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, annotation.NonNull, kindOf(t, calc, e))
		})
	}
}

func TestCalculator_Self(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	env := NewEnv()
	// Even a bogus environment entry for a variable named self does not matter.
	selfVar := fx.Var("self", nullchecktest.Nullable("Foo"), nil)
	env.Set(selfVar, annotation.ExprNullability{Type: selfVar.Type, Kind: annotation.Nullable})
	calc := NewCalculator(env, nil)

	require.Equal(t, annotation.NonNull, kindOf(t, calc, fx.Self(fx.class)))
	require.Equal(t, annotation.NonNull, kindOf(t, calc, &objc.DeclRef{Name: "super"}))
	require.Equal(t, annotation.NonNull, kindOf(t, calc, &objc.DeclRef{Name: "self", Var: selfVar}))
}

func TestCalculator_Variables(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	env := NewEnv()
	calc := NewCalculator(env, nil)

	require.Equal(t, annotation.NonNull, kindOf(t, calc, fx.Ref(fx.nonnullX)))
	require.Equal(t, annotation.Nullable, kindOf(t, calc, fx.Ref(fx.nullableX)))
	require.Equal(t, annotation.Unspecified, kindOf(t, calc, fx.Ref(fx.plainX)))

	// The environment wins over the declaration.
	env.Set(fx.plainX, annotation.ExprNullability{Type: fx.plainX.Type, Kind: annotation.Nullable})
	env.Narrow(fx.nullableX)
	require.Equal(t, annotation.Nullable, kindOf(t, calc, fx.Ref(fx.plainX)))
	require.Equal(t, annotation.NonNull, kindOf(t, calc, fx.Paren(fx.Ref(fx.nullableX))))
}

func TestCalculator_Conditional(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	calc := NewCalculator(NewEnv(), nil)
	nonnull, nullable, plain := fx.Ref(fx.nonnullX), fx.Ref(fx.nullableX), fx.Ref(fx.plainX)

	tests := []struct {
		name string
		expr objc.Expr
		want annotation.Kind
	}{
		{"ternary both nonnull", fx.Cond(nullable, nonnull, fx.Str("s")), annotation.NonNull},
		{"ternary nullable branch", fx.Cond(nonnull, nonnull, nullable), annotation.Nullable},
		{"ternary unspecified branch", fx.Cond(nonnull, plain, nonnull), annotation.Nullable},
		{"elvis nonnull fallback", fx.Elvis(nullable, nonnull), annotation.NonNull},
		{"elvis nullable fallback", fx.Elvis(nonnull, nullable), annotation.Nullable},
		{"elvis unspecified fallback", fx.Elvis(nonnull, plain), annotation.Unspecified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, kindOf(t, calc, tt.expr))
		})
	}
}

func TestCalculator_Messages(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	calc := NewCalculator(NewEnv(), nil)
	nonnull, nullable, plain := fx.Ref(fx.nonnullX), fx.Ref(fx.nullableX), fx.Ref(fx.plainX)

	tests := []struct {
		name string
		expr objc.Expr
		want annotation.Kind
	}{
		{"nonnull receiver, nonnull return", fx.Send(nonnull, fx.bar), annotation.NonNull},
		{"nonnull receiver, nullable return", fx.Send(nonnull, fx.foo), annotation.Nullable},
		{"nullable receiver short-circuits", fx.Send(nullable, fx.bar), annotation.Nullable},
		{"unspecified receiver short-circuits", fx.Send(plain, fx.bar), annotation.Nullable},
		{"class receiver alloc", fx.ClassSend(fx.class, fx.f.Alloc), annotation.NonNull},
		{"init on alloc", fx.Send(fx.ClassSend(fx.class, fx.f.Alloc), fx.f.Init), annotation.NonNull},
		{"class on nonnull receiver", fx.Send(nonnull, fx.f.Class), annotation.NonNull},
		{"explicit nullable init wins", fx.Send(nonnull, fx.nilInit), annotation.Nullable},
		{"init on nullable receiver", fx.Send(nullable, fx.f.Init), annotation.Nullable},
		{"unannotated class method", fx.ClassSend(fx.f.NSNumber, fx.f.NumberWithInt, fx.Num("1")), annotation.Unspecified},
		{"super send", fx.SuperSend(fx.class, fx.bar), annotation.NonNull},
		{"self receiver", fx.Send(fx.Self(fx.class), fx.bar), annotation.NonNull},
		{"unresolved selector", fx.SendUnresolved(nonnull, "baz"), annotation.Unspecified},
		{"unresolved init", fx.SendUnresolved(nonnull, "init"), annotation.NonNull},
		{"chained through nullable", fx.Send(fx.Send(nonnull, fx.foo), fx.bar), annotation.Nullable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, kindOf(t, calc, tt.expr))
		})
	}
}

func TestCalculator_MessageResultType(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	calc := NewCalculator(NewEnv(), nil)

	n := calc.Nullability(fx.Send(fx.Ref(fx.nonnullX), fx.bar))
	require.Same(t, fx.bar.Result, n.Type)
}

func TestCalculator_Subscripts(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	calc := NewCalculator(NewEnv(), nil)
	array := fx.Var("array", nullchecktest.Nonnull("NSArray"), nil)
	dict := fx.Var("dict", nullchecktest.Nonnull("NSDictionary"), nil)
	nilDict := fx.Var("nilDict", nullchecktest.Nullable("NSDictionary"), nil)

	require.Equal(t, annotation.NonNull,
		kindOf(t, calc, fx.Subscript(fx.Ref(array), fx.Num("0"), fx.f.ObjectAtIndexedSubscript)))
	require.Equal(t, annotation.Nullable,
		kindOf(t, calc, fx.Subscript(fx.Ref(dict), fx.Str("k"), fx.f.ObjectForKeyedSubscript)))
	require.Equal(t, annotation.Nullable,
		kindOf(t, calc, fx.Subscript(fx.Ref(nilDict), fx.Str("k"), fx.f.ObjectAtIndexedSubscript)))
}

func TestCalculator_Properties(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	calc := NewCalculator(NewEnv(), nil)
	name := fx.Property(fx.class, "name", nullchecktest.Nonnull("NSString"), nil)
	title := fx.Property(fx.class, "title", nullchecktest.Nullable("NSString"), nil)

	// Receiver nullability is ignored for property reads.
	require.Equal(t, annotation.NonNull, kindOf(t, calc, fx.Prop(fx.Ref(fx.nullableX), name)))
	require.Equal(t, annotation.Nullable, kindOf(t, calc, fx.Prop(fx.Ref(fx.nonnullX), title)))

	// Implicit property: only the getter is known.
	implicit := &objc.PropertyRefExpr{Receiver: fx.Ref(fx.nonnullX), Getter: fx.foo}
	require.Equal(t, annotation.Nullable, kindOf(t, calc, implicit))

	// A setter expression evaluates to the assigned value.
	require.Equal(t, annotation.NonNull, kindOf(t, calc, fx.SetProp(fx.Self(fx.class), title, fx.Str("t"))))
}

func TestCalculator_StaticAnnotation(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	calc := NewCalculator(NewEnv(), nil)
	blockType := nullchecktest.Block(objc.NoAnnotation, nullchecktest.Void())

	require.Equal(t, annotation.NonNull, kindOf(t, calc, fx.Cast(nullchecktest.Nonnull("Foo"), fx.Ref(fx.nullableX))))
	require.Equal(t, annotation.Unspecified, kindOf(t, calc, fx.Cast(nullchecktest.Plain("Foo"), fx.Ref(fx.nonnullX))))
	require.Equal(t, annotation.Unspecified, kindOf(t, calc, fx.BlockLit(blockType, nil)))
	require.Equal(t, annotation.Nullable, kindOf(t, calc, fx.Call("f", nullchecktest.Nullable("Foo"))))
	require.Equal(t, annotation.Nullable, kindOf(t, calc, fx.Assign(fx.LRef(fx.plainX), fx.Ref(fx.nullableX))))
	ivar := fx.Ivar("_name", nullchecktest.Nonnull("NSString"))
	require.Equal(t, annotation.NonNull, kindOf(t, calc, fx.IvarRef(nil, ivar)))
}

func TestCalculator_Remarks(t *testing.T) {
	t.Parallel()

	var bag diagnostic.Bag
	calc := NewCalculator(NewEnv(), &bag)

	other := &objc.OtherExpr{StaticType: nullchecktest.Nullable("Foo"), Kind: "ObjCIndirectCopyRestoreExpr"}
	require.Equal(t, annotation.Nullable, kindOf(t, calc, other))
	scalar := &objc.OtherExpr{StaticType: nullchecktest.Int(), Kind: "SizeOfExpr"}
	require.Equal(t, annotation.NonNull, kindOf(t, calc, scalar))
	broken := &objc.PseudoObjectExpr{StaticType: nullchecktest.Plain("Foo")}
	require.Equal(t, annotation.Unspecified, kindOf(t, calc, broken))
	require.Equal(t, annotation.Unspecified, kindOf(t, calc, &objc.PropertyRefExpr{}))

	require.Equal(t, []string{"VisitExpr: unknown expr", "Unexpected unspecified", "Unexpected unspecified"},
		bag.Messages(diagnostic.Remark))

	// Without a reporter the calculator stays silent.
	require.NotPanics(t, func() { NewCalculator(NewEnv(), nil).Nullability(other) })
}
