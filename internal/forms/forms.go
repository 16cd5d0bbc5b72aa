// Package forms declares roster's concrete forms: users, posts and comments.
// Each form pairs a typed field set with its rules and a submit func that
// calls the API.
package forms

import (
	"regexp"
	"unicode/utf8"
)

// Field describes how a field is presented.
type Field struct {
	Label       string
	Placeholder string
	// Limit is the maximum length shown in a character counter; 0 hides it.
	Limit     int
	Multiline bool
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^[\d\s()+-]+$`)
	websitePattern  = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
)

// Remaining returns how many characters are left before limit. It goes
// negative once value is too long.
func Remaining(limit int, value string) int {
	return limit - utf8.RuneCountInString(value)
}
