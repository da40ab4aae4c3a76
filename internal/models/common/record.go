package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is an entity as the backend returns it. The frontend holds no schema for most entities: it reads the
// fields a page displays and submits the record back with the edited fields replaced.
type Record map[string]interface{}

// ID returns the record identifier, looking at "id" first and then "_id".
func (r Record) ID() ID {
	for _, key := range []string{"id", "_id"} {
		if v, ok := r[key]; ok && v != nil {
			return ID(stringify(v))
		}
	}

	return ""
}

// Lookup resolves a dotted path such as "categoria.nombre" through nested objects.
func (r Record) Lookup(path string) (interface{}, bool) {
	var current interface{} = map[string]interface{}(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}

		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// String returns the value at the dotted path rendered as text, or "" if it's missing or null.
func (r Record) String(path string) string {
	v, ok := r.Lookup(path)
	if !ok || v == nil {
		return ""
	}

	return stringify(v)
}

// Float returns the value at the dotted path as a float64. Numeric strings are parsed.
func (r Record) Float(path string) (float64, bool) {
	v, ok := r.Lookup(path)
	if !ok || v == nil {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Clone makes a shallow copy of the record.
func (r Record) Clone() Record {
	ret := make(Record, len(r))
	for k, v := range r {
		ret[k] = v
	}

	return ret
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case Record:
		return m, true
	default:
		return nil, false
	}
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64. Integral values should not print as "1e+06".
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
