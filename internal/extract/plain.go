package extract

import (
	"strings"
	"unicode/utf8"
)

// sanitizeText returns s with invalid UTF-8 sequences replaced by the replacement character,
// so every export format stays valid UTF-8.
func sanitizeText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\ufffd")
}
