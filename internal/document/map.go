// Package document holds the ordered tree loaded from YAML input.
//
// Values in a tree are one of: nil, bool, int, float64, string, []any or
// *Map. Mappings keep their source key order, which the converter relies on
// for stable output and for processing play keys in document order.
package document

// Map is a string-keyed mapping that remembers insertion order.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// MapOf builds a Map from alternating key/value arguments. It panics on an
// odd argument count or a non-string key, so it is meant for literals.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("document.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in order. The slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Get returns the value for key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value for key, or nil.
func (m *Map) Value(key string) any {
	v, _ := m.Get(key)
	return v
}

// String returns the value for key when it is a string.
func (m *Map) String(key string) (string, bool) {
	s, ok := m.Value(key).(string)
	return s, ok
}

// Map returns the value for key when it is a mapping.
func (m *Map) Map(key string) (*Map, bool) {
	sub, ok := m.Value(key).(*Map)
	return sub, ok && sub != nil
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if !m.Has(key) {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	if len(m.keys) == 0 {
		m.keys = nil
	}
	return true
}

// Pop removes key and returns its value.
func (m *Map) Pop(key string) (any, bool) {
	v, ok := m.Get(key)
	if ok {
		m.Delete(key)
	}
	return v, ok
}

// Rename moves the value stored under oldKey to newKey, keeping the
// position of oldKey. An existing newKey entry is dropped.
func (m *Map) Rename(oldKey, newKey string) {
	if oldKey == newKey || !m.Has(oldKey) {
		return
	}
	v := m.values[oldKey]
	m.Delete(newKey)
	for i, k := range m.keys {
		if k == oldKey {
			m.keys[i] = newKey
			break
		}
	}
	delete(m.values, oldKey)
	m.values[newKey] = v
}

// Each calls fn for every entry in order.
func (m *Map) Each(fn func(key string, value any)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := NewMap()
	for _, k := range m.keys {
		out.Set(k, CloneValue(m.values[k]))
	}
	return out
}

// Without returns a deep copy of m minus the given keys.
func (m *Map) Without(keys ...string) *Map {
	out := m.Clone()
	if out == nil {
		return NewMap()
	}
	for _, k := range keys {
		out.Delete(k)
	}
	return out
}

// CloneValue deep-copies a tree value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}
