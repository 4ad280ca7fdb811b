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
	"go.uber.org/nullcheck/annotation"
	"go.uber.org/nullcheck/objc"
	"go.uber.org/nullcheck/util/orderedmap"
)

// IvarSet is the set of non-null instance variables not yet known to be assigned. Each entry
// carries the property backed by the ivar, if any, so that a call to the property setter counts
// as an assignment. Iteration follows declaration order.
type IvarSet struct {
	m *orderedmap.OrderedMap[*objc.IvarDecl, *objc.PropertyDecl]
}

// NonnullIvars returns the instance variables of the implementation that are declared non-null,
// paired with the properties (declared in the interface, a class extension, or a category) they
// back.
func NonnullIvars(impl *objc.ImplementationDecl) *IvarSet {
	s := &IvarSet{m: orderedmap.New[*objc.IvarDecl, *objc.PropertyDecl]()}
	for _, ivar := range impl.Ivars {
		if ivar != nil && annotation.KindOf(ivar.Type) == annotation.NonNull {
			s.m.Store(ivar, nil)
		}
	}
	if impl.Class == nil {
		return s
	}
	for _, p := range impl.Class.Properties {
		if p != nil && p.Ivar != nil && s.m.Has(p.Ivar) {
			s.m.Store(p.Ivar, p)
		}
	}
	return s
}

// Len returns the number of ivars in the set.
func (s *IvarSet) Len() int {
	return s.m.Len()
}

// Has reports whether the ivar is in the set.
func (s *IvarSet) Has(ivar *objc.IvarDecl) bool {
	return s.m.Has(ivar)
}

// Ivars returns the ivars in declaration order.
func (s *IvarSet) Ivars() []*objc.IvarDecl {
	return s.m.Keys()
}

// Property returns the property backed by the ivar, or nil.
func (s *IvarSet) Property(ivar *objc.IvarDecl) *objc.PropertyDecl {
	return s.m.Value(ivar)
}

// Clone returns an independent copy of the set.
func (s *IvarSet) Clone() *IvarSet {
	return &IvarSet{m: s.m.Clone()}
}

func (s *IvarSet) remove(ivar *objc.IvarDecl) {
	s.m.Delete(ivar)
}

// removeSetter removes the ivar whose property has the given setter.
func (s *IvarSet) removeSetter(setter *objc.MethodDecl) {
	if setter == nil {
		return
	}
	var found *objc.IvarDecl
	s.m.OrderedRange(func(ivar *objc.IvarDecl, p *objc.PropertyDecl) bool {
		if p != nil && p.Setter == setter {
			found = ivar
			return false
		}
		return true
	})
	if found != nil {
		s.m.Delete(found)
	}
}

func (s *IvarSet) clear() {
	s.m.Clear()
}

// join keeps the ivars that remain in either branch outcome: (a ∪ b) ∩ s.
func (s *IvarSet) join(a, b *IvarSet) {
	for _, ivar := range s.m.Keys() {
		if !a.Has(ivar) && !b.Has(ivar) {
			s.m.Delete(ivar)
		}
	}
}
