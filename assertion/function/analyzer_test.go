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
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/nullchecktest"
	"go.uber.org/nullcheck/objc"
)

// fixture declares:
//
//	@interface Foo : NSObject
//	  - (nullable NSString *)foo;
//	  - (nonnull NSString *)bar;
//	  - (void)take:(nonnull NSString *)s;
//	  - (void)takeBlock:(nonnull NSString * _Nonnull (^)(void))b;
//	  @property (nonnull) NSString *name;
//	@end
//	@interface Bar : NSObject
//	  - (nullable Foo *)baz;
//	@end
type fixture struct {
	*nullchecktest.Builder
	f *nullchecktest.Foundation

	class, other        *objc.ClassDecl
	foo, bar, take, baz *objc.MethodDecl
	takeBlock           *objc.MethodDecl
	name                *objc.PropertyDecl
	nonnullBlock        *objc.Type
	nullableBlock       *objc.Type
}

func newFixture() *fixture {
	b := nullchecktest.New("Test.m")
	f := nullchecktest.NewFoundation(b)
	class := b.Class("Foo", f.NSObject)
	other := b.Class("Bar", f.NSObject)
	nonnullBlock := nullchecktest.Block(objc.NoAnnotation, nullchecktest.Nonnull("NSString"))
	nullableBlock := nullchecktest.Block(objc.NoAnnotation, nullchecktest.Nullable("NSString"))
	return &fixture{
		Builder:       b,
		f:             f,
		class:         class,
		other:         other,
		foo:           b.Method(class, "foo", nullchecktest.Nullable("NSString")),
		bar:           b.Method(class, "bar", nullchecktest.Nonnull("NSString")),
		take:          b.Method(class, "take:", nullchecktest.Void(), b.Var("s", nullchecktest.Nonnull("NSString"), nil)),
		takeBlock:     b.Method(class, "takeBlock:", nullchecktest.Void(), b.Var("b", nonnullBlock, nil)),
		baz:           b.Method(other, "baz", nullchecktest.Nullable("Foo")),
		name:          b.Property(class, "name", nullchecktest.Nonnull("NSString"), nil),
		nonnullBlock:  nonnullBlock,
		nullableBlock: nullableBlock,
	}
}

// define returns a method of Foo with the result type and the body.
func (fx *fixture) define(result *objc.Type, stmts ...objc.Stmt) *objc.MethodDecl {
	return nullchecktest.Define(fx.Method(fx.class, "m", result), fx.Body(stmts...))
}

func check(fx *fixture, conf *config.Config, m *objc.MethodDecl) []diagnostic.Diagnostic {
	if conf == nil {
		conf = config.Default()
	}
	var bag diagnostic.Bag
	Run(conf, fx.class, m, &bag)
	return bag.Diagnostics()
}

func messages(ds []diagnostic.Diagnostic) []string {
	var msgs []string
	for _, d := range ds {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func TestRun_ReturnOfNullableVariable(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	// - (nonnull id)m {
	//   NSObject * _Nullable x;
	//   id t = x;
	//   return t;
	// }
	x := fx.Var("x", nullchecktest.Nullable("NSObject"), nil)
	tv := fx.Var("t", nullchecktest.ID(objc.NoAnnotation), fx.Ref(x))
	result := fx.Ref(tv)
	m := fx.define(nullchecktest.ID(objc.NonnullAnnotation), fx.Decl(x), fx.Decl(tv), fx.Return(result))

	ds := check(fx, nil, m)
	require.Len(t, ds, 1)
	require.Equal(t, "-[Foo m] expects nonnull to return", ds[0].Message)
	require.Equal(t, result.Pos(), ds[0].Position)
	require.Equal(t, diagnostic.Warning, ds[0].Severity)
	require.Equal(t, []string{"Foo"}, ds[0].Subjects)
}

func TestRun_ReceiverShortCircuit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		receiver *objc.Type
		want     []string
	}{
		{name: "nonnull receiver", receiver: nullchecktest.Nonnull("Foo")},
		{
			name:     "nullable receiver",
			receiver: nullchecktest.Nullable("Foo"),
			// Nothing at the call site itself, only where the result must be non-null.
			want: []string{"-[Foo m] expects nonnull to return"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fx := newFixture()
			// Foo *f; id t = [f bar]; return t;
			f := fx.Var("f", tt.receiver, nil)
			tv := fx.Var("t", nullchecktest.ID(objc.NoAnnotation), fx.Send(fx.Ref(f), fx.bar))
			m := fx.define(nullchecktest.ID(objc.NonnullAnnotation), fx.Decl(f), fx.Decl(tv), fx.Return(fx.Ref(tv)))
			require.Equal(t, tt.want, messages(check(fx, nil, m)))
		})
	}
}

func TestRun_Filter(t *testing.T) {
	t.Parallel()

	newMethod := func(fx *fixture) *objc.MethodDecl {
		// Bar *b; id t = [b baz]; return t;
		b := fx.Var("b", nullchecktest.Nonnull("Bar"), nil)
		tv := fx.Var("t", nullchecktest.ID(objc.NoAnnotation), fx.Send(fx.Ref(b), fx.baz))
		return fx.define(nullchecktest.ID(objc.NonnullAnnotation), fx.Decl(b), fx.Decl(tv), fx.Return(fx.Ref(tv)))
	}

	tests := []struct {
		name    string
		filters []string
		want    int
	}{
		{name: "no filter", want: 1},
		{name: "enclosing class", filters: []string{"Foo"}, want: 1},
		{name: "class of the culprit send", filters: []string{"Bar"}, want: 1},
		{name: "regexp", filters: []string{"/^B/"}, want: 1},
		{name: "unrelated class", filters: []string{"Baz", "/^NS/"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filter, err := config.ParseFilter(tt.filters)
			require.NoError(t, err)
			conf := config.Default()
			conf.Filter = filter

			fx := newFixture()
			ds := check(fx, conf, newMethod(fx))
			require.Len(t, ds, tt.want)
			if tt.want > 0 {
				require.Equal(t, []string{"Foo", "Bar"}, ds[0].Subjects)
			}
		})
	}
}

func TestRun_Debug(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	// NSString *s = [self foo];
	s := fx.Var("s", nullchecktest.Plain("NSString"), fx.Send(fx.Self(fx.class), fx.foo))
	// return <unclassified expression>;
	other := &objc.OtherExpr{StaticType: nullchecktest.Nullable("NSString"), Kind: "ObjCIndirectCopyRestoreExpr"}
	m := fx.define(nullchecktest.Plain("NSString"), fx.Decl(s), fx.Return(other))

	conf := config.Default()
	require.Empty(t, check(fx, conf, m))

	conf.Debug = true
	var bag diagnostic.Bag
	Run(conf, fx.class, m, &bag)
	require.Equal(t, []string{"Variable nullability: nullable", "VisitExpr: unknown expr"}, bag.Messages(diagnostic.Remark))
	require.Empty(t, bag.Messages(diagnostic.Warning))
}

func TestRun_NoBody(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	require.Empty(t, check(fx, nil, fx.foo))
	require.NotPanics(t, func() { Run(config.Default(), fx.class, nil, diagnostic.Discard) })
}
