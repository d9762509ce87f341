// Package template renders message templates with {{field}} placeholders.
// The syntax is deliberately tiny: no conditionals, no loops, no escaping.
// Template bodies come from the record store and are edited by staff, so
// an unknown placeholder is left verbatim rather than treated as an error.
package template

import "regexp"

// placeholderRe matches {{field}} with optional inner whitespace.
// Field names are word characters only.
var placeholderRe = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Render substitutes every known placeholder in body in a single pass.
// Values are inserted literally, so a value containing {{...}} is never
// re-expanded. Unknown placeholders survive unchanged.
func Render(body string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}
