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

package initializer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/nullcheck/config"
	"go.uber.org/nullcheck/diagnostic"
	"go.uber.org/nullcheck/nullchecktest"
	"go.uber.org/nullcheck/objc"
)

// fixture declares:
//
//	@interface Test : NSObject
//	@property (nonnull) NSString *hello;
//	@property (nullable) NSNumber *good;
//	@end
//	@interface Test ()
//	@property (nonnull) NSString *extension;
//	@end
//	@interface Test (Cat)
//	@property (nonnull) NSString *category;
//	@end
//	@implementation Test {
//	  NSString * _Nonnull _impl1;
//	  NSString * _Nullable _impl2;
//	}
//	- (instancetype)initWithX:(id)x __attribute__((annotate("nlh_initializer")));
//	- (instancetype)init __attribute__((annotate("nlh_initializer")));
//	@end
type fixture struct {
	*nullchecktest.Builder
	f *nullchecktest.Foundation

	class                             *objc.ClassDecl
	impl                              *objc.ImplementationDecl
	hello, good, extension            *objc.PropertyDecl
	helloIvar, extensionIvar          *objc.IvarDecl
	impl1, impl2                      *objc.IvarDecl
	initWithX, initDefault, notAnInit *objc.MethodDecl
}

func newFixture() *fixture {
	b := nullchecktest.New("Test.m")
	fx := &fixture{Builder: b, f: nullchecktest.NewFoundation(b)}
	fx.class = b.Class("Test", fx.f.NSObject)

	fx.helloIvar = b.Ivar("_hello", nullchecktest.Nonnull("NSString"))
	goodIvar := b.Ivar("_good", nullchecktest.Nullable("NSNumber"))
	fx.extensionIvar = b.Ivar("_extension", nullchecktest.Nonnull("NSString"))
	fx.impl1 = b.Ivar("_impl1", nullchecktest.Nonnull("NSString"))
	fx.impl2 = b.Ivar("_impl2", nullchecktest.Nullable("NSString"))

	fx.hello = b.Property(fx.class, "hello", nullchecktest.Nonnull("NSString"), fx.helloIvar)
	fx.good = b.Property(fx.class, "good", nullchecktest.Nullable("NSNumber"), goodIvar)
	fx.extension = b.Property(fx.class, "extension", nullchecktest.Nonnull("NSString"), fx.extensionIvar)
	// Category properties are not backed by ivars.
	b.Property(fx.class, "category", nullchecktest.Nonnull("NSString"), nil)

	fx.initWithX = b.Initializer(fx.class, "initWithX:", b.Var("x", nullchecktest.ID(objc.NoAnnotation), nil))
	fx.initDefault = b.Initializer(fx.class, "init")
	fx.notAnInit = b.Method(fx.class, "setUp", nullchecktest.Void())
	fx.impl = b.Implementation(fx.class,
		[]*objc.IvarDecl{fx.helloIvar, goodIvar, fx.extensionIvar, fx.impl1, fx.impl2},
		fx.initWithX, fx.initDefault, fx.notAnInit)
	return fx
}

func (fx *fixture) self() *objc.DeclRef {
	return fx.Self(fx.class)
}

// assign returns `ivar = @"v";` through the implicit self.
func (fx *fixture) assign(ivar *objc.IvarDecl) objc.Stmt {
	return fx.Expr(fx.Assign(fx.IvarRef(nil, ivar), fx.Str("v")))
}

func names(ivars []*objc.IvarDecl) []string {
	var out []string
	for _, ivar := range ivars {
		out = append(out, ivar.Name)
	}
	return out
}

func TestNonnullIvars(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	ivars := NonnullIvars(fx.impl)

	if diff := cmp.Diff([]string{"_hello", "_extension", "_impl1"}, names(ivars.Ivars())); diff != "" {
		t.Errorf("unexpected nonnull ivars (-want +got):\n%s", diff)
	}
	require.Same(t, fx.hello, ivars.Property(fx.helloIvar))
	require.Same(t, fx.extension, ivars.Property(fx.extensionIvar))
	require.Nil(t, ivars.Property(fx.impl1))
	require.False(t, ivars.Has(fx.impl2))
}

func TestUninitialized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body func(fx *fixture) []objc.Stmt
		want []string
	}{
		{
			name: "empty body",
			body: func(fx *fixture) []objc.Stmt { return nil },
			want: []string{"_hello", "_extension", "_impl1"},
		},
		{
			name: "direct assignments",
			body: func(fx *fixture) []objc.Stmt {
				// _hello = @"v"; self->_impl1 = @"v";
				return []objc.Stmt{
					fx.assign(fx.helloIvar),
					fx.Expr(fx.Assign(fx.IvarRef(fx.self(), fx.impl1), fx.Str("v"))),
				}
			},
			want: []string{"_extension"},
		},
		{
			name: "assignment through another object",
			body: func(fx *fixture) []objc.Stmt {
				other := fx.Var("other", nullchecktest.Nonnull("Test"), nil)
				return []objc.Stmt{fx.Decl(other), fx.Expr(fx.Assign(fx.IvarRef(fx.Ref(other), fx.impl1), fx.Str("v")))}
			},
			want: []string{"_hello", "_extension", "_impl1"},
		},
		{
			name: "setters",
			body: func(fx *fixture) []objc.Stmt {
				// self.hello = @"v"; [self setExtension:@"v"];
				return []objc.Stmt{
					fx.Expr(fx.SetProp(fx.self(), fx.hello, fx.Str("v"))),
					fx.Expr(fx.Send(fx.self(), fx.extension.Setter, fx.Str("v"))),
				}
			},
			want: []string{"_impl1"},
		},
		{
			name: "if-else assigning on both branches",
			body: func(fx *fixture) []objc.Stmt {
				x := fx.Var("x", nullchecktest.ID(objc.NoAnnotation), nil)
				return []objc.Stmt{fx.Decl(x), fx.If(fx.Ref(x), fx.Body(fx.assign(fx.impl1), fx.assign(fx.helloIvar)), fx.assign(fx.impl1))}
			},
			want: []string{"_hello", "_extension"},
		},
		{
			name: "if without else",
			body: func(fx *fixture) []objc.Stmt {
				x := fx.Var("x", nullchecktest.ID(objc.NoAnnotation), nil)
				return []objc.Stmt{fx.Decl(x), fx.If(fx.Ref(x), fx.assign(fx.impl1), nil)}
			},
			want: []string{"_hello", "_extension", "_impl1"},
		},
		{
			name: "if (self) is not a branch",
			body: func(fx *fixture) []objc.Stmt {
				// self = [super init]; if (self) { _impl1 = @"v"; }
				superInit := fx.SuperSend(fx.f.NSObject, fx.f.Init)
				return []objc.Stmt{
					fx.Expr(fx.Assign(fx.self(), superInit)),
					fx.If(fx.self(), fx.Body(fx.assign(fx.impl1)), nil),
				}
			},
			want: []string{"_hello", "_extension"},
		},
		{
			name: "if (self) with else is a branch",
			body: func(fx *fixture) []objc.Stmt {
				return []objc.Stmt{fx.If(fx.self(), fx.assign(fx.impl1), fx.Body())}
			},
			want: []string{"_hello", "_extension", "_impl1"},
		},
		{
			name: "conditional expression",
			body: func(fx *fixture) []objc.Stmt {
				// x ? (_impl1 = @"v") : (_impl1 = @"w");
				x := fx.Var("x", nullchecktest.ID(objc.NoAnnotation), nil)
				then := fx.Assign(fx.IvarRef(nil, fx.impl1), fx.Str("v"))
				els := fx.Assign(fx.IvarRef(nil, fx.impl1), fx.Str("w"))
				return []objc.Stmt{fx.Decl(x), fx.Expr(fx.Cond(fx.Ref(x), then, els))}
			},
			want: []string{"_hello", "_extension"},
		},
		{
			name: "assignment in the condition",
			body: func(fx *fixture) []objc.Stmt {
				// if ((_impl1 = @"v")) {}
				return []objc.Stmt{fx.If(fx.Paren(fx.Assign(fx.IvarRef(nil, fx.impl1), fx.Str("v"))), fx.Body(), nil)}
			},
			want: []string{"_hello", "_extension"},
		},
		{
			name: "delegation to a designated initializer",
			body: func(fx *fixture) []objc.Stmt {
				// return [self initWithX:nil];
				return []objc.Stmt{fx.Return(fx.Send(fx.self(), fx.initWithX, fx.Num("0")))}
			},
		},
		{
			name: "delegation on one branch only",
			body: func(fx *fixture) []objc.Stmt {
				x := fx.Var("x", nullchecktest.ID(objc.NoAnnotation), nil)
				return []objc.Stmt{
					fx.Decl(x),
					fx.If(fx.Ref(x), fx.Return(fx.Send(fx.self(), fx.initWithX, fx.Ref(x))), fx.assign(fx.helloIvar)),
				}
			},
			want: []string{"_extension", "_impl1"},
		},
		{
			name: "designated initializer of another object",
			body: func(fx *fixture) []objc.Stmt {
				other := fx.Var("other", nullchecktest.Nonnull("Test"), nil)
				return []objc.Stmt{fx.Decl(other), fx.Expr(fx.Send(fx.Ref(other), fx.initDefault))}
			},
			want: []string{"_hello", "_extension", "_impl1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fx := newFixture()
			ivars := NonnullIvars(fx.impl)
			remaining := Uninitialized(ivars, fx.Body(tt.body(fx)...))
			require.Equal(t, tt.want, names(remaining.Ivars()))
			require.Equal(t, 3, ivars.Len(), "the input set is not modified")
		})
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	nullchecktest.Define(fx.initDefault, fx.Body(fx.assign(fx.helloIvar), fx.Return(fx.self())))
	nullchecktest.Define(fx.notAnInit, fx.Body())

	var bag diagnostic.Bag
	Run(config.Default(), fx.impl, fx.initDefault, &bag)
	Run(config.Default(), fx.impl, fx.notAnInit, &bag)

	require.Equal(t, []string{
		"Nonnull ivar `_extension` may not be initialized in -[Test init]",
		"Nonnull ivar `_impl1` may not be initialized in -[Test init]",
	}, bag.Messages(diagnostic.Warning))
	for _, d := range bag.Diagnostics() {
		require.Equal(t, fx.initDefault.Pos, d.Position)
		require.Equal(t, []string{"Test"}, d.Subjects)
	}
}

func TestRun_Filter(t *testing.T) {
	t.Parallel()

	fx := newFixture()
	nullchecktest.Define(fx.initDefault, fx.Body())

	filter, err := config.ParseFilter([]string{"/^NS/"})
	require.NoError(t, err)
	conf := config.Default()
	conf.Filter = filter

	var bag diagnostic.Bag
	Run(conf, fx.impl, fx.initDefault, &bag)
	require.Zero(t, bag.Len())

	conf.Filter, err = config.ParseFilter([]string{"/^Te/"})
	require.NoError(t, err)
	Run(conf, fx.impl, fx.initDefault, &bag)
	require.Equal(t, 3, bag.Len())
}
