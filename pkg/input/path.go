package input

import "strings"

// Segments splits a field path into its keys. Dotted ("a.b.c") and bracketed
// ("a[b][c]") notations are equivalent and may be mixed. An empty bracket pair
// ("a[]") yields an empty segment, which FromValues turns into a list index.
func Segments(path string) []string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil
	}

	var (
		out     []string
		current strings.Builder
		inBrace bool
	)
	flush := func(force bool) {
		if current.Len() > 0 || force {
			out = append(out, current.String())
		}
		current.Reset()
	}

	for i := 0; i < len(clean); i++ {
		ch := clean[i]
		switch {
		case ch == '[' && !inBrace:
			flush(false)
			inBrace = true
		case ch == ']' && inBrace:
			flush(true)
			inBrace = false
		case ch == '.' && !inBrace:
			flush(false)
		default:
			current.WriteByte(ch)
		}
	}
	flush(false)

	return out
}

// Canonical returns the dotted form of path, used as the key for error
// messages so that "a[b]" and "a.b" address the same field.
func Canonical(path string) string {
	return strings.Join(Segments(path), ".")
}

// BracketName renders segments in the HTML form naming convention:
// the first segment bare, the rest in brackets ("a[b][c]").
func BracketName(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(segments[0])
	for _, segment := range segments[1:] {
		b.WriteByte('[')
		b.WriteString(segment)
		b.WriteByte(']')
	}
	return b.String()
}
