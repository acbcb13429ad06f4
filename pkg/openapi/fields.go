package openapi

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/schema"
)

const extensionKey = "x-formkit"

// hint is the decoded x-formkit extension of a property.
type hint struct {
	kind   string
	label  string
	order  int
	rows   int
	prompt string
	labels map[string]string
}

type property struct {
	order int
	name  string
	spec  schema.FieldSpec
}

func (p *Parser) fields(ref *openapi3.SchemaRef, prefix string, depth int, visiting map[string]bool) ([]schema.FieldSpec, error) {
	if ref == nil || ref.Value == nil || len(ref.Value.Properties) == 0 {
		return nil, nil
	}
	key := ref.Ref
	if key == "" {
		key = fmt.Sprintf("%p", ref.Value)
	}
	if visiting[key] || depth >= p.maxDepth {
		return nil, nil
	}
	visiting[key] = true
	defer delete(visiting, key)
	node := ref.Value

	required := make(map[string]bool, len(node.Required))
	for _, name := range node.Required {
		required[name] = true
	}

	var props []property
	for name, child := range node.Properties {
		if child == nil || child.Value == nil || child.Value.ReadOnly {
			continue
		}
		value := child.Value
		h := readHint(value.Extensions)
		path := joinPath(prefix, name)

		if isType(value, openapi3.TypeObject) && h.kind == "" {
			children, err := p.fields(child, path, depth+1, visiting)
			if err != nil {
				return nil, err
			}
			for _, spec := range children {
				props = append(props, property{order: h.order, name: name, spec: spec})
			}
			continue
		}

		spec, ok, err := fieldSpec(path, name, value, h)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", path, err)
		}
		if !ok {
			continue
		}
		spec.Required = required[name]
		props = append(props, property{order: h.order, name: name, spec: spec})
	}

	sort.SliceStable(props, func(i, j int) bool {
		if props[i].order != props[j].order {
			return props[i].order < props[j].order
		}
		return props[i].name < props[j].name
	})
	out := make([]schema.FieldSpec, 0, len(props))
	for _, prop := range props {
		out = append(out, prop.spec)
	}
	return out, nil
}

func fieldSpec(path, name string, value *openapi3.Schema, h hint) (schema.FieldSpec, bool, error) {
	spec := schema.FieldSpec{
		Name:  path,
		Kind:  h.kind,
		Label: firstNonEmpty(h.label, value.Title, humanize(name)),
		Rows:  h.rows,
	}
	if spec.Kind == "" {
		spec.Kind = kindFor(value)
	}
	if spec.Kind == "" {
		return schema.FieldSpec{}, false, nil
	}

	spec.MinLength = int(value.MinLength)
	if value.MaxLength != nil {
		if *value.MaxLength > math.MaxInt32 {
			return schema.FieldSpec{}, false, fmt.Errorf("maxLength %d out of range", *value.MaxLength)
		}
		spec.MaxLength = int(*value.MaxLength)
	}
	spec.Min = copyFloat(value.Min)
	spec.Max = copyFloat(value.Max)

	if len(value.Enum) > 0 {
		spec.Prompt = firstNonEmpty(h.prompt, "Please select")
		for _, raw := range value.Enum {
			v := enumString(raw)
			spec.Options = append(spec.Options, schema.OptionSpec{Value: v, Label: firstNonEmpty(h.labels[v], v)})
		}
	}
	if value.Pattern != "" {
		spec.Attrs = map[string]string{"pattern": value.Pattern}
	}
	return spec, true, nil
}

func kindFor(value *openapi3.Schema) string {
	switch {
	case isType(value, openapi3.TypeString):
		if len(value.Enum) > 0 {
			return schema.KindSelect
		}
		switch value.Format {
		case "email":
			return schema.KindEmail
		case "password":
			return schema.KindPassword
		case "date-time":
			return schema.KindDateTime
		case "date":
			return schema.KindDate
		}
		return schema.KindText
	case isType(value, openapi3.TypeInteger):
		if len(value.Enum) > 0 {
			return schema.KindSelect
		}
		return schema.KindInt
	case isType(value, openapi3.TypeNumber):
		return schema.KindFloat
	case isType(value, openapi3.TypeBoolean):
		return schema.KindCheckbox
	default:
		return ""
	}
}

func isType(value *openapi3.Schema, typ string) bool {
	if value.Type == nil {
		return typ == openapi3.TypeObject && len(value.Properties) > 0
	}
	for _, candidate := range value.Type.Slice() {
		if candidate == typ {
			return true
		}
	}
	return false
}

func readHint(extensions map[string]any) hint {
	raw, ok := extensions[extensionKey].(map[string]any)
	if !ok {
		return hint{}
	}
	h := hint{
		kind:   stringValue(raw["kind"]),
		label:  stringValue(raw["label"]),
		prompt: stringValue(raw["prompt"]),
		order:  intValue(raw["order"]),
		rows:   intValue(raw["rows"]),
	}
	if labels, ok := raw["labels"].(map[string]any); ok {
		h.labels = make(map[string]string, len(labels))
		for key, label := range labels {
			h.labels[key] = stringValue(label)
		}
	}
	return h
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// humanize turns snake, kebab and camel case names into a label.
func humanize(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current = append(current, unicode.ToLower(r))
		default:
			current = append(current, unicode.ToLower(r))
		}
	}
	flush()
	if len(words) == 0 {
		return name
	}
	first := []rune(words[0])
	first[0] = unicode.ToUpper(first[0])
	words[0] = string(first)
	return strings.Join(words, " ")
}

func enumString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func stringValue(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

func intValue(value any) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
