// Package input holds the raw, request-scoped form state: submitted (or
// pre-filled) string values addressed by field path, and the validation
// messages recorded against those fields.
//
// Leaves are always strings; composite fields (date selects, grouped inputs)
// are nested maps. An absent path means "no input".
package input

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// Model is the input model for one request/response cycle. It is not safe for
// concurrent use.
type Model struct {
	values map[string]any
	errors map[string]string
}

// New returns an empty model, as used when rendering a fresh form.
func New() *Model {
	return &Model{
		values: make(map[string]any),
		errors: make(map[string]string),
	}
}

// FromMap builds a model from nested data, normalising scalar leaves to
// strings.
func FromMap(data map[string]any) *Model {
	m := New()
	for key, value := range data {
		if normalized, ok := normalize(value); ok {
			m.values[key] = normalized
		}
	}
	return m
}

// FromValues builds a model from submitted form values, expanding bracketed
// names ("user[email]") into nested maps. Keys ending in "[]" collect every
// submitted value under index keys "0", "1", ...; other keys keep their first
// value.
func FromValues(values url.Values) *Model {
	m := New()

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		submitted := values[key]
		if len(submitted) == 0 {
			continue
		}
		segments := Segments(key)
		if len(segments) == 0 {
			continue
		}
		if last := segments[len(segments)-1]; last == "" {
			parent := segments[:len(segments)-1]
			if len(parent) == 0 {
				continue
			}
			for idx, value := range submitted {
				m.setSegments(append(append([]string{}, parent...), strconv.Itoa(idx)), value)
			}
			continue
		}
		m.setSegments(segments, submitted[0])
	}
	return m
}

// Get returns the string or nested map stored at path, or nil when absent.
// Maps are returned as copies.
func (m *Model) Get(path string) any {
	value, ok := m.lookup(Segments(path))
	if !ok {
		return nil
	}
	if nested, isMap := value.(map[string]any); isMap {
		return cloneMap(nested)
	}
	return value
}

// Lookup returns the string leaf at path.
func (m *Model) Lookup(path string) (string, bool) {
	value, ok := m.lookup(Segments(path))
	if !ok {
		return "", false
	}
	str, isString := value.(string)
	return str, isString
}

// String returns the string leaf at path, or "" when absent or not a leaf.
func (m *Model) String(path string) string {
	value, _ := m.Lookup(path)
	return value
}

// Has reports whether any input exists at path.
func (m *Model) Has(path string) bool {
	_, ok := m.lookup(Segments(path))
	return ok
}

// Set stores value at path, creating intermediate maps as needed. A nil value
// removes the path. Strings, numbers, booleans, string slices and nested maps
// are accepted; anything else is a programmer error and panics.
func (m *Model) Set(path string, value any) {
	segments := Segments(path)
	if len(segments) == 0 {
		panic(fmt.Sprintf("input: empty path for value %v", value))
	}
	if value == nil {
		m.remove(segments)
		return
	}
	normalized, ok := normalize(value)
	if !ok {
		panic(fmt.Sprintf("input: unsupported value type %T for %q", value, path))
	}
	m.setSegments(segments, normalized)
}

// Child returns a model rooted at path that shares storage with m, so writes
// through the child are visible in the parent. The child has its own error
// set. When a string leaf sits on path the child is detached and empty, and
// the leaf is left untouched.
func (m *Model) Child(path string) *Model {
	segments := Segments(path)
	node := m.values
	for _, segment := range segments {
		existing, found := node[segment]
		next, ok := existing.(map[string]any)
		switch {
		case ok:
		case found:
			return New()
		default:
			next = make(map[string]any)
			node[segment] = next
		}
		node = next
	}
	return &Model{values: node, errors: make(map[string]string)}
}

// Map returns a deep copy of the stored values.
func (m *Model) Map() map[string]any {
	return cloneMap(m.values)
}

// Values flattens the model back into bracket-named form values.
func (m *Model) Values() url.Values {
	out := url.Values{}
	flatten(out, nil, m.values)
	return out
}

// SetError records message for the field at path, replacing any previous one.
func (m *Model) SetError(path, message string) {
	m.errors[Canonical(path)] = message
}

// Error returns the message recorded for path.
func (m *Model) Error(path string) string {
	return m.errors[Canonical(path)]
}

// HasError reports whether a message is recorded for path.
func (m *Model) HasError(path string) bool {
	_, ok := m.errors[Canonical(path)]
	return ok
}

// Errors returns a copy of every recorded message keyed by dotted path.
func (m *Model) Errors() map[string]string {
	out := make(map[string]string, len(m.errors))
	for key, value := range m.errors {
		out[key] = value
	}
	return out
}

// HasErrors reports whether any message is recorded.
func (m *Model) HasErrors() bool {
	return len(m.errors) > 0
}

// ClearError drops the message recorded for path.
func (m *Model) ClearError(path string) {
	delete(m.errors, Canonical(path))
}

// ClearErrors drops every recorded message.
func (m *Model) ClearErrors() {
	m.errors = make(map[string]string)
}

func (m *Model) lookup(segments []string) (any, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	var current any = m.values
	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func (m *Model) setSegments(segments []string, value any) {
	node := m.values
	for _, segment := range segments[:len(segments)-1] {
		next, ok := node[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[segment] = next
		}
		node = next
	}
	node[segments[len(segments)-1]] = value
}

func (m *Model) remove(segments []string) {
	node := m.values
	for _, segment := range segments[:len(segments)-1] {
		next, ok := node[segment].(map[string]any)
		if !ok {
			return
		}
		node = next
	}
	delete(node, segments[len(segments)-1])
}

func normalize(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		return v.String(), true
	case []string:
		out := make(map[string]any, len(v))
		for idx, item := range v {
			out[strconv.Itoa(idx)] = item
		}
		return out, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out, true
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			if item == nil {
				continue
			}
			normalized, ok := normalize(item)
			if !ok {
				return nil, false
			}
			out[key] = normalized
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		if nested, ok := value.(map[string]any); ok {
			out[key] = cloneMap(nested)
			continue
		}
		out[key] = value
	}
	return out
}

func flatten(out url.Values, prefix []string, node map[string]any) {
	for key, value := range node {
		path := append(append([]string{}, prefix...), key)
		switch v := value.(type) {
		case map[string]any:
			flatten(out, path, v)
		case string:
			out.Set(BracketName(path...), v)
		}
	}
}
