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

// Package orderedmap implements a generic map that remembers the insertion order of its keys, so
// that iterating over it is deterministic.
package orderedmap

// OrderedMap is a map that iterates in insertion order. The zero value is not usable; use New.
type OrderedMap[K comparable, V any] struct {
	inner map[K]V
	keys  []K
}

// New returns an empty ordered map.
func New[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{inner: make(map[K]V)}
}

// Load returns the value stored for the key and whether it is present.
func (m *OrderedMap[K, V]) Load(key K) (V, bool) {
	v, ok := m.inner[key]
	return v, ok
}

// Value returns the value stored for the key, or the zero value if it is absent.
func (m *OrderedMap[K, V]) Value(key K) V {
	return m.inner[key]
}

// Has reports whether the key is present.
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.inner[key]
	return ok
}

// Store sets the value for the key. A new key is appended to the iteration order; an existing
// key keeps its position.
func (m *OrderedMap[K, V]) Store(key K, value V) {
	if _, ok := m.inner[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.inner[key] = value
}

// Delete removes the key, if present.
func (m *OrderedMap[K, V]) Delete(key K) {
	if _, ok := m.inner[key]; !ok {
		return
	}
	delete(m.inner, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Clear removes every key.
func (m *OrderedMap[K, V]) Clear() {
	clear(m.inner)
	m.keys = nil
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Clone returns a shallow copy of the map that preserves the iteration order.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	c := &OrderedMap[K, V]{inner: make(map[K]V, len(m.inner)), keys: make([]K, len(m.keys))}
	copy(c.keys, m.keys)
	for k, v := range m.inner {
		c.inner[k] = v
	}
	return c
}

// OrderedRange calls f for each key and value in insertion order, stopping when f returns false.
func (m *OrderedMap[K, V]) OrderedRange(f func(key K, value V) bool) {
	for _, k := range m.keys {
		if !f(k, m.inner[k]) {
			return
		}
	}
}
