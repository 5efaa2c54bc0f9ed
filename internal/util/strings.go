package util

import (
	"strings"
	"unicode"
)

// SanitizeComment makes s safe to embed in a single-line G-code comment.
// Parentheses would close the comment early on most controllers, and a
// newline or semicolon would end it on the rest.
func SanitizeComment(s string) string {
	sb := strings.Builder{}
	for _, r := range s {
		switch {
		case r == '(':
			sb.WriteRune('[')
		case r == ')':
			sb.WriteRune(']')
		case r == ';':
			sb.WriteRune(',')
		case unicode.IsPrint(r) && r < unicode.MaxASCII:
			sb.WriteRune(r)
		default:
			sb.WriteRune('?')
		}
	}
	return sb.String()
}
