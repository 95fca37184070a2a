package textutil

import "strings"

// SanitizeKey converts a name into a lowercase storage-safe key. Letters and
// digits are kept, interior whitespace becomes a single underscore, and
// punctuation is dropped. Returns "unknown" for empty input.
func SanitizeKey(value string) string {
	value = Normalize(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
