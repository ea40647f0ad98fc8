package render

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	literalPolicyOnce sync.Once
	literalPolicy     *bluemonday.Policy
)

// LiteralPolicy returns a shared sanitising policy suitable for html-literal
// fields whose content is not fully trusted: user-generated-content markup
// plus class attributes and inline SVG icons.
func LiteralPolicy() *bluemonday.Policy {
	literalPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()

		policy.AllowElements("svg", "g", "path", "circle", "rect", "title")
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "aria-hidden", "role", "focusable",
		).OnElements("svg")
		for _, el := range []string{"path", "circle", "rect"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "rx", "ry", "fill", "stroke", "stroke-width",
			).OnElements(el)
		}

		literalPolicy = policy
	})
	return literalPolicy
}
