package core

import "strings"

// CleanString trims surrounding whitespace from s. Passing true also folds the
// result to lower case; usernames and emails are stored folded.
func CleanString(s string, lower ...bool) string {
	cleaned := strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		cleaned = strings.ToLower(cleaned)
	}
	return cleaned
}
