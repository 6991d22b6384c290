package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text strips all markup from a free-text form field. Lead and submission
// text ends up in admin views and email bodies, so it never carries HTML.
func Text(input string) string {
	return strings.TrimSpace(policy.Sanitize(input))
}

// Slice sanitizes each element in place and drops entries that end up empty.
func Slice(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if cleaned := Text(in); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
