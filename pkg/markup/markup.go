// Package markup builds HTML attribute strings and tags.
//
// Attribute values may be strings, numbers, booleans, string slices or nil.
// Attributes render in name order, boolean true renders as a bare attribute
// name, and false or nil omits the attribute. Everything is HTML-encoded.
package markup

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
)

// ClassAttr is merged as an ordered, de-duplicated union rather than
// overridden.
const ClassAttr = "class"

// Attrs maps attribute names to values.
type Attrs map[string]any

// Encode HTML-encodes text for use in element content and attribute values.
func Encode(text string) string {
	return html.EscapeString(text)
}

// Merge returns a new map holding defaults overridden by each of overrides in
// turn. Class lists are unioned instead of replaced.
func Merge(defaults Attrs, overrides ...Attrs) Attrs {
	out := make(Attrs, len(defaults))
	for key, value := range defaults {
		out[key] = value
	}
	for _, override := range overrides {
		for key, value := range override {
			if key == ClassAttr {
				out[key] = MergeClasses(out[key], value)
				continue
			}
			out[key] = value
		}
	}
	return out
}

// MergeClasses unions class lists given as space separated strings or string
// slices, keeping first-seen order.
func MergeClasses(lists ...any) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, class := range classList(list) {
			if _, ok := seen[class]; ok {
				continue
			}
			seen[class] = struct{}{}
			out = append(out, class)
		}
	}
	return out
}

// Render returns the attribute string for attrs, each attribute preceded by
// a space.
func Render(attrs Attrs) string {
	if len(attrs) == 0 {
		return ""
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		value, present := attrValue(name, attrs[name])
		if !present {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(Encode(name))
		if value == nil {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(Encode(*value))
		b.WriteByte('"')
	}
	return b.String()
}

// Tag renders a self-closing element, e.g. <input .../>.
func Tag(name string, attrs Attrs) string {
	return "<" + name + Render(attrs) + "/>"
}

// Element renders an element around already encoded inner HTML.
func Element(name string, attrs Attrs, inner string) string {
	return "<" + name + Render(attrs) + ">" + inner + "</" + name + ">"
}

// Open renders only the opening tag of an element.
func Open(name string, attrs Attrs) string {
	return "<" + name + Render(attrs) + ">"
}

func attrValue(name string, value any) (*string, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case bool:
		if !v {
			return nil, false
		}
		return nil, true
	case string:
		if name == ClassAttr && strings.TrimSpace(v) == "" {
			return nil, false
		}
		return &v, true
	case []string:
		if name == ClassAttr {
			v = MergeClasses(v)
			if len(v) == 0 {
				return nil, false
			}
		}
		joined := strings.Join(v, " ")
		return &joined, true
	case int:
		s := strconv.Itoa(v)
		return &s, true
	case int64:
		s := strconv.FormatInt(v, 10)
		return &s, true
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s, true
	case *string:
		if v == nil {
			return nil, false
		}
		return v, true
	default:
		s := fmt.Sprint(v)
		return &s, true
	}
}

func classList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(v)
	case []string:
		var out []string
		for _, item := range v {
			out = append(out, strings.Fields(item)...)
		}
		return out
	default:
		return strings.Fields(fmt.Sprint(v))
	}
}
