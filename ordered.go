package assetkit

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/pretty"
)

// orderedMap is a string keyed map that marshals in insertion order.
// Setting an existing key replaces the value in place.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{values: make(map[string]V)}
}

// Set stores v under k and reports whether an earlier value was replaced.
func (m *orderedMap[V]) Set(k string, v V) bool {
	_, ok := m.values[k]
	if !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
	return ok
}

func (m *orderedMap[V]) Get(k string) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *orderedMap[V]) Has(k string) bool {
	_, ok := m.values[k]
	return ok
}

func (m *orderedMap[V]) Len() int {
	return len(m.keys)
}

func (m *orderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

func (m *orderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var manifestStyle = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "    ",
	SortKeys: false,
}

// marshalManifest encodes v and re-indents it with four spaces, keeping key order.
func marshalManifest(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(raw, manifestStyle), nil
}
