package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts a string to snake_case. Acronyms keep their grouping,
// so HTTPServer becomes http_server and userID becomes user_id.
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]

			// Break on a lower/digit to upper transition, or between the
			// tail of an acronym and the next word.
			lowerFollows := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && lowerFollows) {
				b.WriteRune('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
