package catalog

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizer strips unsafe markup from admin-authored rich text.
type sanitizer struct {
	policy *bluemonday.Policy
}

func newSanitizer() *sanitizer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &sanitizer{policy: p}
}

func (s *sanitizer) clean(html string) string {
	return strings.TrimSpace(s.policy.Sanitize(html))
}
