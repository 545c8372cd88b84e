// Package bmap implements map with []byte key type used for token lookups.
package bmap

import (
	"unsafe"
)

// BMap maps byte-slice keys to values.
// Lookups by []byte do not allocate, so scanner tokens can be looked up directly
// from the token buffer. Keys cannot be deleted.
// Added keys are copied, callers may reuse their buffers.
// Keys are remembered in insertion order.
type BMap[T any] struct {
	smap map[string]T
	keys []string
}

// New creates bytes map. size is a capacity hint.
func New[T any](size int) *BMap[T] {
	return &BMap[T]{
		smap: make(map[string]T, size),
	}
}

// FromStrings creates bytes map containing given keys and values.
// Insertion order of keys is unspecified.
func FromStrings[T any](items map[string]T) *BMap[T] {
	m := New[T](len(items))
	for k, v := range items {
		m.SetString(k, v)
	}
	return m
}

// Get returns stored value by key and a flag telling whether this key is stored in the map.
// Returns zero value if the key is not present.
func (m *BMap[T]) Get(key []byte) (T, bool) {
	skey := ""
	if len(key) != 0 {
		skey = unsafe.String(&key[0], len(key))
	}
	result, has := m.smap[skey]
	return result, has
}

// GetString is Get for string keys.
func (m *BMap[T]) GetString(key string) (T, bool) {
	result, has := m.smap[key]
	return result, has
}

// Set adds or rewrites value for given key.
// Returns true if the key was not present.
func (m *BMap[T]) Set(key []byte, value T) bool {
	return m.SetString(string(key), value)
}

// SetString is Set for string keys.
func (m *BMap[T]) SetString(key string, value T) bool {
	_, has := m.smap[key]
	m.smap[key] = value
	if !has {
		m.keys = append(m.keys, key)
	}
	return !has
}

// Len returns number of stored keys.
func (m *BMap[T]) Len() int {
	return len(m.smap)
}

// Keys returns stored keys in insertion order.
func (m *BMap[T]) Keys() []string {
	result := make([]string, len(m.keys))
	copy(result, m.keys)
	return result
}
