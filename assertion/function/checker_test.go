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

package function

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/nullcheck/nullchecktest"
	"go.uber.org/nullcheck/objc"
)

func TestChecker_Sites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body func(fx *fixture) []objc.Stmt
		want []string
	}{
		{
			name: "declaration with nullable initializer",
			body: func(fx *fixture) []objc.Stmt {
				// NSString * _Nonnull s = [self foo];
				return []objc.Stmt{fx.Decl(fx.Var("s", nullchecktest.Nonnull("NSString"), fx.Send(fx.Self(fx.class), fx.foo)))}
			},
			want: []string{"Nullability mismatch on variable declaration"},
		},
		{
			name: "declaration with nonnull initializer",
			body: func(fx *fixture) []objc.Stmt {
				return []objc.Stmt{fx.Decl(fx.Var("s", nullchecktest.Nonnull("NSString"), fx.Send(fx.Self(fx.class), fx.bar)))}
			},
		},
		{
			name: "declaration with synthesized default value",
			body: func(fx *fixture) []objc.Stmt {
				init := &objc.ImplicitValueInitExpr{StaticType: nullchecktest.Nonnull("NSString")}
				return []objc.Stmt{fx.Decl(fx.Var("s", nullchecktest.Nonnull("NSString"), init))}
			},
		},
		{
			name: "nullable argument",
			body: func(fx *fixture) []objc.Stmt {
				// [self take:[self foo]];
				return []objc.Stmt{fx.Expr(fx.Send(fx.Self(fx.class), fx.take, fx.Send(fx.Self(fx.class), fx.foo)))}
			},
			want: []string{"-[Foo take:] expects nonnull argument"},
		},
		{
			name: "class method argument",
			body: func(fx *fixture) []objc.Stmt {
				create := fx.ClassMethod(fx.class, "make:", nullchecktest.Plain("Foo"), fx.Var("s", nullchecktest.Nonnull("NSString"), nil))
				return []objc.Stmt{fx.Expr(fx.ClassSend(fx.class, create, fx.Send(fx.Self(fx.class), fx.foo)))}
			},
			want: []string{"+[Foo make:] expects nonnull argument"},
		},
		{
			name: "unresolved selector",
			body: func(fx *fixture) []objc.Stmt {
				return []objc.Stmt{fx.Expr(fx.SendUnresolved(fx.Self(fx.class), "take:", fx.Send(fx.Self(fx.class), fx.foo)))}
			},
		},
		{
			name: "assignment to nonnull variable",
			body: func(fx *fixture) []objc.Stmt {
				s := fx.Var("s", nullchecktest.Nonnull("NSString"), nil)
				return []objc.Stmt{fx.Decl(s), fx.Expr(fx.Assign(fx.LRef(s), fx.Send(fx.Self(fx.class), fx.foo)))}
			},
			want: []string{"Nullability mismatch on assignment"},
		},
		{
			name: "assignment to variable inferred nonnull",
			body: func(fx *fixture) []objc.Stmt {
				// NSString *s = @"s"; s = [self foo];
				s := fx.Var("s", nullchecktest.Plain("NSString"), fx.Str("s"))
				return []objc.Stmt{fx.Decl(s), fx.Expr(fx.Assign(fx.LRef(s), fx.Send(fx.Self(fx.class), fx.foo)))}
			},
			want: []string{"Nullability mismatch on assignment"},
		},
		{
			name: "assignment to self",
			body: func(fx *fixture) []objc.Stmt {
				return []objc.Stmt{fx.Expr(fx.Assign(fx.Self(fx.class), fx.Send(fx.Self(fx.class), fx.foo)))}
			},
		},
		{
			name: "assignment to nonnull ivar",
			body: func(fx *fixture) []objc.Stmt {
				ivar := fx.Ivar("_s", nullchecktest.Nonnull("NSString"))
				return []objc.Stmt{fx.Expr(fx.Assign(fx.IvarRef(nil, ivar), fx.Send(fx.Self(fx.class), fx.foo)))}
			},
			want: []string{"Nullability mismatch on assignment"},
		},
		{
			name: "property assignment is checked at the setter",
			body: func(fx *fixture) []objc.Stmt {
				// self.name = [self foo];
				return []objc.Stmt{fx.Expr(fx.SetProp(fx.Self(fx.class), fx.name, fx.Send(fx.Self(fx.class), fx.foo)))}
			},
			want: []string{"-[Foo setName:] expects nonnull argument"},
		},
		{
			name: "array literal",
			body: func(fx *fixture) []objc.Stmt {
				// @[@"a", [self foo], [self bar], [self foo]];
				self := fx.Self(fx.class)
				return []objc.Stmt{fx.Expr(fx.Array(fx.Str("a"), fx.Send(self, fx.foo), fx.Send(self, fx.bar), fx.Send(self, fx.foo)))}
			},
			want: []string{"Array element should be nonnull", "Array element should be nonnull"},
		},
		{
			name: "dictionary literal",
			body: func(fx *fixture) []objc.Stmt {
				// @{[self foo]: @1, @"k": [self foo]};
				self := fx.Self(fx.class)
				return []objc.Stmt{fx.Expr(fx.Dict(fx.Send(self, fx.foo), fx.Num("1"), fx.Str("k"), fx.Send(self, fx.foo)))}
			},
			want: []string{"Dictionary key should be nonnull", "Dictionary value should be nonnull"},
		},
		{
			name: "nested literal is checked once",
			body: func(fx *fixture) []objc.Stmt {
				// self.name = @[[self foo]];
				return []objc.Stmt{fx.Expr(fx.SetProp(fx.Self(fx.class), fx.name, fx.Array(fx.Send(fx.Self(fx.class), fx.foo))))}
			},
			want: []string{"Array element should be nonnull"},
		},
		{
			name: "return in void method",
			body: func(fx *fixture) []objc.Stmt {
				return []objc.Stmt{fx.Return(nil)}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fx := newFixture()
			m := fx.define(nullchecktest.Void(), tt.body(fx)...)
			require.Equal(t, tt.want, messages(check(fx, nil, m)))
		})
	}
}

func TestChecker_Casts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cast func(fx *fixture) objc.Expr
		want []string
	}{
		{
			name: "redundant cast of nonnull value",
			cast: func(fx *fixture) objc.Expr {
				// (NSString * _Nonnull)[self bar]
				return fx.Cast(nullchecktest.Nonnull("NSString"), fx.Send(fx.Self(fx.class), fx.bar))
			},
			want: []string{"Redundant cast to nonnull"},
		},
		{
			name: "redundant cast of nonnull id",
			cast: func(fx *fixture) objc.Expr {
				array := fx.Var("array", nullchecktest.Nonnull("NSArray"), nil)
				return fx.Cast(nullchecktest.Nonnull("NSString"), fx.Subscript(fx.Ref(array), fx.Num("0"), fx.f.ObjectAtIndexedSubscript))
			},
			want: []string{"Redundant cast to nonnull"},
		},
		{
			name: "cast of nullable value to the same type",
			cast: func(fx *fixture) objc.Expr {
				return fx.Cast(nullchecktest.Nonnull("NSString"), fx.Send(fx.Self(fx.class), fx.foo))
			},
		},
		{
			name: "cast of nullable id",
			cast: func(fx *fixture) objc.Expr {
				dict := fx.Var("dict", nullchecktest.Nonnull("NSDictionary"), nil)
				return fx.Cast(nullchecktest.Nonnull("NSString"), fx.Subscript(fx.Ref(dict), fx.Str("k"), fx.f.ObjectForKeyedSubscript))
			},
		},
		{
			name: "cast of nullable value to another type",
			cast: func(fx *fixture) objc.Expr {
				return fx.Cast(nullchecktest.Nonnull("NSNumber"), fx.Send(fx.Self(fx.class), fx.foo))
			},
			want: []string{"Cast on nullability cannot change base type"},
		},
		{
			name: "cast of nonnull value to another type",
			cast: func(fx *fixture) objc.Expr {
				return fx.Cast(nullchecktest.Nonnull("NSNumber"), fx.Send(fx.Self(fx.class), fx.bar))
			},
		},
		{
			name: "cast without nonnull",
			cast: func(fx *fixture) objc.Expr {
				return fx.Cast(nullchecktest.Plain("NSNumber"), fx.Send(fx.Self(fx.class), fx.foo))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fx := newFixture()
			m := fx.define(nullchecktest.Void(), fx.Expr(tt.cast(fx)))
			require.Equal(t, tt.want, messages(check(fx, nil, m)))
		})
	}
}

func TestChecker_BlockTypes(t *testing.T) {
	t.Parallel()

	t.Run("declaration", func(t *testing.T) {
		t.Parallel()

		fx := newFixture()
		// NSString * _Nonnull (^b)(void) = ^NSString * _Nullable { return [self foo]; };
		lit := fx.BlockLit(fx.nullableBlock, nil, fx.Return(fx.Send(fx.Self(fx.class), fx.foo)))
		m := fx.define(nullchecktest.Void(), fx.Decl(fx.Var("b", fx.nonnullBlock, lit)))
		require.Equal(t, []string{"Block type mismatch on variable declaration"}, messages(check(fx, nil, m)))
	})

	t.Run("argument", func(t *testing.T) {
		t.Parallel()

		fx := newFixture()
		lit := fx.BlockLit(fx.nullableBlock, nil, fx.Return(fx.Send(fx.Self(fx.class), fx.foo)))
		m := fx.define(nullchecktest.Void(), fx.Expr(fx.Send(fx.Self(fx.class), fx.takeBlock, lit)))
		require.Equal(t, []string{"-[Foo takeBlock:] expects argument of compatible block type"}, messages(check(fx, nil, m)))
	})

	t.Run("compatible", func(t *testing.T) {
		t.Parallel()

		fx := newFixture()
		lit := fx.BlockLit(fx.nonnullBlock, nil, fx.Return(fx.Send(fx.Self(fx.class), fx.bar)))
		m := fx.define(nullchecktest.Void(), fx.Expr(fx.Send(fx.Self(fx.class), fx.takeBlock, lit)))
		require.Empty(t, check(fx, nil, m))
	})
}

func TestChecker_Blocks(t *testing.T) {
	t.Parallel()

	t.Run("return inside block", func(t *testing.T) {
		t.Parallel()

		fx := newFixture()
		// - (NSString *)m { ^NSString * _Nonnull { return [self foo]; }; return [self foo]; }
		lit := fx.BlockLit(fx.nonnullBlock, nil, fx.Return(fx.Send(fx.Self(fx.class), fx.foo)))
		m := fx.define(nullchecktest.Plain("NSString"), fx.Expr(lit), fx.Return(fx.Send(fx.Self(fx.class), fx.foo)))
		require.Equal(t, []string{"Block in -[Foo m] expects nonnull to return"}, messages(check(fx, nil, m)))
	})

	t.Run("block body gets its own propagation", func(t *testing.T) {
		t.Parallel()

		fx := newFixture()
		// ^{ NSString *s = [self foo]; [self take:s]; };
		s := fx.Var("s", nullchecktest.Plain("NSString"), fx.Send(fx.Self(fx.class), fx.foo))
		lit := fx.BlockLit(nullchecktest.Block(objc.NoAnnotation, nullchecktest.Void()), nil,
			fx.Decl(s), fx.Expr(fx.Send(fx.Self(fx.class), fx.take, fx.Ref(s))))
		m := fx.define(nullchecktest.Void(), fx.Expr(lit))
		require.Equal(t, []string{"-[Foo take:] expects nonnull argument"}, messages(check(fx, nil, m)))
	})

	t.Run("block sees the enclosing environment", func(t *testing.T) {
		t.Parallel()

		fx := newFixture()
		// NSString *s = @"s"; ^{ [self take:s]; };
		s := fx.Var("s", nullchecktest.Plain("NSString"), fx.Str("s"))
		lit := fx.BlockLit(nullchecktest.Block(objc.NoAnnotation, nullchecktest.Void()), nil,
			fx.Expr(fx.Send(fx.Self(fx.class), fx.take, fx.Ref(s))))
		m := fx.define(nullchecktest.Void(), fx.Decl(s), fx.Expr(lit))
		require.Empty(t, check(fx, nil, m))
	})
}
