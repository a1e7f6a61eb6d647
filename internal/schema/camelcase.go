package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToCamelCase converts a field label into its camelCase data-key form.
// Already-camelCase input is returned unchanged and the function is
// idempotent: ToCamelCase(ToCamelCase(s)) == ToCamelCase(s).
func ToCamelCase(label string) string {
	if label == "" {
		return ""
	}

	first, firstSize := utf8.DecodeRuneInString(label)

	// Already starts lowercase: leave as-is.
	if unicode.IsLower(first) {
		return label
	}

	// PascalCase ("CtaButton"): lowercase only the first rune.
	if second, _ := utf8.DecodeRuneInString(label[firstSize:]); unicode.IsUpper(first) && unicode.IsLower(second) {
		rest := label[firstSize:]
		if !strings.ContainsFunc(rest, unicode.IsSpace) {
			return string(unicode.ToLower(first)) + rest
		}
	}

	words := strings.Fields(label)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	for i, word := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(word))
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		b.WriteString(string(unicode.ToUpper(r)))
		b.WriteString(strings.ToLower(word[size:]))
	}
	return b.String()
}
