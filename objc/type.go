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

import "strings"

// TypeKind classifies a Type.
type TypeKind uint8

const (
	// Scalar is any non-pointer C type (int, BOOL, NSInteger, structs...).
	Scalar TypeKind = iota + 1
	// Void is the C void type.
	Void
	// Pointer is a plain C pointer, e.g., `char *` or `void *`.
	Pointer
	// ObjectPointer is a pointer to an Objective-C class instance, e.g., `NSString *`. `Class`
	// and `instancetype` are also represented as object pointers.
	ObjectPointer
	// ID is the universal object type `id`, optionally qualified with protocols (`id<P>`).
	ID
	// BlockPointer is a block type, e.g., `void (^)(NSString *)`.
	BlockPointer
	// FunctionPointer is a C function pointer, e.g., `int (*)(id)`.
	FunctionPointer
	// Typedef is a named alias of its Elem type.
	Typedef
)

// Annotation is the explicit nullability annotation attached to a type in source. It is purely
// syntactic: the absence of an annotation is represented by NoAnnotation.
type Annotation uint8

const (
	// NoAnnotation means the source does not spell any nullability for the type.
	NoAnnotation Annotation = iota
	// NonnullAnnotation is `nonnull` / `_Nonnull`.
	NonnullAnnotation
	// NullableAnnotation is `nullable` / `_Nullable`.
	NullableAnnotation
	// NullUnspecifiedAnnotation is `null_unspecified` / `_Null_unspecified`.
	NullUnspecifiedAnnotation
)

// String returns the source spelling of the annotation.
func (a Annotation) String() string {
	switch a {
	case NonnullAnnotation:
		return "_Nonnull"
	case NullableAnnotation:
		return "_Nullable"
	case NullUnspecifiedAnnotation:
		return "_Null_unspecified"
	default:
		return ""
	}
}

// Type is a type reference into the frontend's type system. The analyzer never mutates it.
type Type struct {
	Kind TypeKind
	// Name is the spelled name: the class name for object pointers, the typedef name for
	// typedefs, the C spelling for scalars and pointers.
	Name string
	// Annotation is the explicit annotation written directly on this type (not on any typedef
	// it is declared through).
	Annotation Annotation
	// Elem is the aliased type for typedefs and the pointee for plain pointers.
	Elem *Type
	// Params and Result describe block and function pointer signatures.
	Params []*Type
	Result *Type
	// Protocols lists the qualifying protocols of `id<P>` and `NSObject<P> *`.
	Protocols []string
}

// Nullability returns the explicit annotation of the type, looking through typedef sugar the
// same way the source language does: an annotation on the alias wins, otherwise the aliased
// type's annotation applies.
func (t *Type) Nullability() Annotation {
	for cur := t; cur != nil; cur = cur.Elem {
		if cur.Annotation != NoAnnotation {
			return cur.Annotation
		}
		if cur.Kind != Typedef {
			break
		}
	}
	return NoAnnotation
}

// Underlying strips typedef sugar.
func (t *Type) Underlying() *Type {
	cur := t
	for cur != nil && cur.Kind == Typedef && cur.Elem != nil {
		cur = cur.Elem
	}
	return cur
}

// IsPointerLike reports whether values of the type can be nil: C pointers, object pointers,
// `id`, and block pointers.
func (t *Type) IsPointerLike() bool {
	u := t.Underlying()
	if u == nil {
		return false
	}
	switch u.Kind {
	case Pointer, ObjectPointer, ID, BlockPointer, FunctionPointer:
		return true
	default:
		return false
	}
}

// IsID reports whether the type is the universal object type (`id` or `id<P>`).
func (t *Type) IsID() bool {
	u := t.Underlying()
	return u != nil && u.Kind == ID
}

// IsCallable reports whether the type is a block or function pointer, i.e., carries a signature.
func (t *Type) IsCallable() bool {
	u := t.Underlying()
	return u != nil && (u.Kind == BlockPointer || u.Kind == FunctionPointer)
}

// String renders the type roughly the way it is spelled in source.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	switch t.Kind {
	case ObjectPointer:
		b.WriteString(t.Name)
		if len(t.Protocols) > 0 {
			b.WriteString("<" + strings.Join(t.Protocols, ", ") + ">")
		}
		b.WriteString(" *")
	case ID:
		b.WriteString("id")
		if len(t.Protocols) > 0 {
			b.WriteString("<" + strings.Join(t.Protocols, ", ") + ">")
		}
	case Pointer:
		if t.Elem != nil {
			b.WriteString(t.Elem.String())
		} else {
			b.WriteString(t.Name)
		}
		b.WriteString(" *")
	case BlockPointer, FunctionPointer:
		b.WriteString(t.Result.String())
		if t.Kind == BlockPointer {
			b.WriteString(" (^)(")
		} else {
			b.WriteString(" (*)(")
		}
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteString(")")
	default:
		b.WriteString(t.Name)
	}
	if t.Annotation != NoAnnotation {
		b.WriteString(" " + t.Annotation.String())
	}
	return b.String()
}
