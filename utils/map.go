package utils

// Hashable is the key constraint for Map. HashCode must be fast but is not
// required to be collision resistant; EqualI resolves collisions.
type Hashable interface {
	HashCode() uint64
	EqualI(Hashable) bool
}

// Map is a hash map keyed by Hashable values, with chaining per hash bucket.
type Map map[uint64][]mapEntry

type mapEntry struct {
	e Hashable
	v interface{}
}

func (m Map) Find(e Hashable) (interface{}, bool) {
	s, ok := m[e.HashCode()]
	if !ok {
		return nil, false
	}
	for _, x := range s {
		if x.e.EqualI(e) {
			return x.v, true
		}
	}
	return nil, false
}

// Set inserts or overwrites the value for e.
func (m Map) Set(e Hashable, v interface{}) {
	h := e.HashCode()
	s := m[h]
	for i := range s {
		if s[i].e.EqualI(e) {
			s[i].v = v
			return
		}
	}
	m[h] = append(s, mapEntry{e: e, v: v})
}

// Add inserts the value for e only if no entry exists yet.
func (m Map) Add(e Hashable, v interface{}) {
	h := e.HashCode()
	s := m[h]
	for i := range s {
		if s[i].e.EqualI(e) {
			return
		}
	}
	m[h] = append(s, mapEntry{e: e, v: v})
}

// FilterKeys returns the keys whose value satisfies f.
func (m Map) FilterKeys(f func(interface{}) bool) []Hashable {
	keys := []Hashable{}
	for _, s := range m {
		for _, x := range s {
			if f(x.v) {
				keys = append(keys, x.e)
			}
		}
	}
	return keys
}

func (m Map) Clear() {
	for k := range m {
		delete(m, k)
	}
}
