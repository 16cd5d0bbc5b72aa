package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule constrains a single field. Zero MinLength and MaxLength mean unset.
// Lengths count runes.
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// Custom runs last and returns an error message, or "" when valid.
	Custom func(value string) string
}

// Check validates value and returns the first failing message, or "".
// The order is fixed: required, optional-empty, min length, max length,
// pattern, custom.
func (r Rule) Check(label, value string) string {
	blank := strings.TrimSpace(value) == ""
	if r.Required && blank {
		return fmt.Sprintf("%s is required", label)
	}
	if blank {
		return ""
	}
	n := utf8.RuneCountInString(value)
	if r.MinLength > 0 && n < r.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", label, r.MinLength)
	}
	if r.MaxLength > 0 && n > r.MaxLength {
		return fmt.Sprintf("%s must be no more than %d characters", label, r.MaxLength)
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return fmt.Sprintf("%s format is invalid", label)
	}
	if r.Custom != nil {
		return r.Custom(value)
	}
	return ""
}
