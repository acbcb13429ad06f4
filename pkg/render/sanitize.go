package render

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// SoftEncode implements field.Renderer. It keeps a few inline elements so
// checkbox and radio labels can carry emphasis or a link, and encodes the
// rest.
func (r *InputRenderer) SoftEncode(text string) string {
	return labelSanitizer().Sanitize(text)
}

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("em", "strong", "b", "i", "span", "br")
		policy.AllowAttrs("class").OnElements("span", "em", "strong")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href", "title").OnElements("a")
		policy.RequireNoFollowOnLinks(false)
		labelPolicy = policy
	})
	return labelPolicy
}
