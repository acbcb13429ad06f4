package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/input"
)

// ErrorMapping splits an error payload into field messages keyed by dotted
// field path and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrors matches the paths of a server error payload against fields.
// JSON pointers ("/body/email"), JSONPath ("$.user.email") and bracket names
// ("user[email]") are all understood; request wrappers such as "body" and
// array indexes are ignored when they do not match. Unknown paths become
// form-level messages so nothing is lost.
func MapErrors(fields []field.Field, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		return mapping
	}

	paths := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if path := input.Canonical(f.Descriptor().Name); path != "" {
			paths[path] = struct{}{}
		}
	}

	for raw, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		path, formLevel := mapErrorPath(raw, paths)
		if formLevel {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[path] = append(mapping.Fields[path], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// Apply records the first message of every mapped field on m, keeping
// messages already present, and returns the form-level messages.
func (e ErrorMapping) Apply(m *input.Model) []string {
	for path, messages := range e.Fields {
		if m.HasError(path) || len(messages) == 0 {
			continue
		}
		m.SetError(path, messages[0])
	}
	return e.Form
}

// MergeFormErrors concatenates message lists, trimming and de-duplicating
// while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, paths map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", true
	}
	segments := errorPathSegments(raw)
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range segmentVariants(segments) {
		path := longestMatch(variant, paths)
		if strings.Count(path, ".") > strings.Count(best, ".") || (best == "" && path != "") {
			best = path
		}
	}
	if best == "" {
		return "", true
	}
	return best, false
}

func errorPathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	if clean == "" {
		return nil
	}

	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var requestWrappers = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
	"form":       {},
}

func segmentVariants(segments []string) [][]string {
	unwrapped := segments
	for len(unwrapped) > 0 {
		if _, ok := requestWrappers[strings.ToLower(unwrapped[0])]; !ok {
			break
		}
		unwrapped = unwrapped[1:]
	}
	return [][]string{
		segments,
		unwrapped,
		withoutIndexes(segments),
		withoutIndexes(unwrapped),
	}
}

func withoutIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatch(segments []string, paths map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := paths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
