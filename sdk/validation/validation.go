// Package validation holds small helpers shared by request decoding and the
// core packages: pointer helpers, tri-state optional fields and date parsing.
package validation

import "strings"

func StringPtr(s string) *string {
	return &s
}

func BoolPtr(b bool) *bool {
	return &b
}

func StringPtrValue(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}

// NonBlankPtr returns nil for nil, empty or whitespace-only strings and the
// original pointer otherwise.
func NonBlankPtr(s *string) *string {
	if s == nil || IsBlank(*s) {
		return nil
	}
	return s
}

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
