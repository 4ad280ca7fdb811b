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

package nullchecktest

import "go.uber.org/nullcheck/objc"

// Foundation is a minimal prelude of Foundation classes:
//
//	@interface NSObject
//	  + (instancetype)alloc;
//	  - (instancetype)init;
//	  - (Class)class;
//	@end
//	@interface NSString : NSObject
//	@end
//	@interface NSNumber : NSObject
//	  + (instancetype)numberWithInt:(int)x;
//	@end
//	@interface NSArray<ObjectType> : NSObject
//	  - (nonnull ObjectType)objectAtIndexedSubscript:(unsigned)idx;
//	@end
//	@interface NSDictionary<KeyType, ValueType> : NSObject
//	  - (nullable ValueType)objectForKeyedSubscript:(nonnull KeyType)key;
//	@end
type Foundation struct {
	NSObject, NSString, NSNumber, NSArray, NSDictionary *objc.ClassDecl

	Alloc, Init, Class       *objc.MethodDecl
	NumberWithInt            *objc.MethodDecl
	ObjectAtIndexedSubscript *objc.MethodDecl
	ObjectForKeyedSubscript  *objc.MethodDecl
}

// NewFoundation declares the prelude with the builder.
func NewFoundation(b *Builder) *Foundation {
	f := &Foundation{}
	f.NSObject = b.Class("NSObject", nil)
	f.NSString = b.Class("NSString", f.NSObject)
	f.NSNumber = b.Class("NSNumber", f.NSObject)
	f.NSArray = b.Class("NSArray", f.NSObject)
	f.NSDictionary = b.Class("NSDictionary", f.NSObject)

	instancetype := Plain("instancetype")
	f.Alloc = b.ClassMethod(f.NSObject, "alloc", instancetype)
	f.Init = b.Method(f.NSObject, "init", instancetype)
	f.Class = b.Method(f.NSObject, "class", Plain("Class"))
	f.NumberWithInt = b.ClassMethod(f.NSNumber, "numberWithInt:", instancetype, b.Var("x", Int(), nil))
	f.ObjectAtIndexedSubscript = b.Method(f.NSArray, "objectAtIndexedSubscript:", ID(objc.NonnullAnnotation),
		b.Var("idx", &objc.Type{Kind: objc.Scalar, Name: "unsigned"}, nil))
	f.ObjectForKeyedSubscript = b.Method(f.NSDictionary, "objectForKeyedSubscript:", ID(objc.NullableAnnotation),
		b.Var("key", ID(objc.NonnullAnnotation), nil))
	return f
}
