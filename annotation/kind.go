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

// Package annotation defines the nullability kinds the analysis reasons about, and the
// compatibility rule that decides whether a value of one nullability may flow into a position
// expecting another.
package annotation

import "go.uber.org/nullcheck/objc"

// Kind is the nullability of a value. NonNull is strictly stronger than the other two, which are
// mutually incomparable for compatibility purposes.
type Kind uint8

const (
	// Unspecified means nothing is known about the value. It is the zero value.
	Unspecified Kind = iota
	// NonNull means the value is never nil.
	NonNull
	// Nullable means the value may be nil.
	Nullable
)

// String returns the name of the kind as spelled in source annotations.
func (k Kind) String() string {
	switch k {
	case NonNull:
		return "nonnull"
	case Nullable:
		return "nullable"
	default:
		return "unspecified"
	}
}

// KindOf returns the kind declared by the explicit annotation of the type, looking through
// typedef sugar. The absence of an annotation yields Unspecified, never a guess.
func KindOf(t *objc.Type) Kind {
	if t == nil {
		return Unspecified
	}
	switch t.Nullability() {
	case objc.NonnullAnnotation:
		return NonNull
	case objc.NullableAnnotation:
		return Nullable
	default:
		return Unspecified
	}
}

// ExprNullability is the nullability computed for an expression (or recorded for a variable),
// together with the static type it was computed for.
type ExprNullability struct {
	Type *objc.Type
	Kind Kind
}

// Declared returns the nullability declared by the type's own annotation.
func Declared(t *objc.Type) ExprNullability {
	return ExprNullability{Type: t, Kind: KindOf(t)}
}

// IsNonNull reports whether the value is known to be non-nil.
func (n ExprNullability) IsNonNull() bool {
	return n.Kind == NonNull
}

func (n ExprNullability) String() string {
	return n.Kind.String()
}
