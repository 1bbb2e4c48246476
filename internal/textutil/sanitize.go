package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName turns a folder name into a safe archive entry name.
// Path separators, colons and asterisks become dashes; quotes, angle
// brackets, pipes, question marks and control characters are dropped.
// Leading dots are removed so entries never become hidden files.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(cleaned), "."))
}
