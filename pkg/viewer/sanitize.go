package viewer

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

// sanitizeFragment strips everything but list markup from a rendered
// micro-template before it is embedded in the page.
func sanitizeFragment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(fragmentSanitizer().Sanitize(trimmed))
}

func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("ul", "li", "span", "b", "em", "strong")
		policy.AllowDataAttributes()
		policy.AllowAttrs("class", "title").OnElements("ul", "li", "span")
		policy.AllowAttrs("role", "aria-selected", "aria-controls", "aria-current").Globally()
		fragmentPolicy = policy
	})
	return fragmentPolicy
}
