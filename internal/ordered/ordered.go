// Package ordered holds the position-preserving edits shared by the
// catalog, template and suite stores. Insertion order of every store is
// user-visible and persisted, so renames keep an entry in place and
// duplicates land right after their original.
package ordered

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Keys returns the keys of m from oldest to newest.
func Keys[V any](m *orderedmap.OrderedMap[string, V]) []string {
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns the values of m from oldest to newest.
func Values[V any](m *orderedmap.OrderedMap[string, V]) []V {
	values := make([]V, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	return values
}

// Rename moves the value stored under oldKey to newKey at the same
// position. The caller checks that oldKey exists and newKey does not.
func Rename[V any](m *orderedmap.OrderedMap[string, V], oldKey, newKey string, v V) error {
	m.Set(newKey, v)
	if err := m.MoveAfter(newKey, oldKey); err != nil {
		m.Delete(newKey)
		return err
	}
	m.Delete(oldKey)
	return nil
}

// SetAfter stores v under key immediately after the entry markKey. The
// caller checks that key is not present.
func SetAfter[V any](m *orderedmap.OrderedMap[string, V], markKey, key string, v V) error {
	m.Set(key, v)
	if err := m.MoveAfter(key, markKey); err != nil {
		m.Delete(key)
		return err
	}
	return nil
}
