package common

import "strings"

// Blank reports whether s is empty or whitespace only.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FirstNonBlank returns the first value that is not blank, or "" if all are.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if !Blank(v) {
			return v
		}
	}
	return ""
}
