// Package validation holds the request-side checks applied before a payload
// or a lookup key reaches a repository.
package validation

import "strings"

var stripper = strings.NewReplacer(`'`, "", `"`, "", ";", "", `\`, "")

// Sanitize removes quotes, semicolons and backslashes from a lookup value
// taken from the URL, then trims surrounding whitespace. Sanitize is
// idempotent.
func Sanitize(s string) string {
	return strings.TrimSpace(stripper.Replace(s))
}
