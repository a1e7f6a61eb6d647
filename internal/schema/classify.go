package schema

import (
	"regexp"
	"strings"
)

// Rule is one guarded arm of the string classifier. The first rule whose
// predicate matches decides the field kind.
type Rule struct {
	Kind  Kind
	Match func(s string) bool
}

// Classifier is an ordered rule list ending in an implicit text arm. Hosts
// may extend or reorder rules without touching inference itself.
type Classifier []Rule

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telRe   = regexp.MustCompile(`^[+]?[0-9\-()]{7,}$`)
)

var imageMarkers = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", "images/", "logo"}

// DefaultClassifier returns the built-in precedence chain:
// email, url, tel, image, textarea.
func DefaultClassifier() Classifier {
	return Classifier{
		{Kind: KindEmail, Match: isEmail},
		{Kind: KindURL, Match: isURL},
		{Kind: KindTel, Match: isTel},
		{Kind: KindImage, Match: isImage},
		{Kind: KindTextarea, Match: isLongText},
	}
}

// Classify returns the field kind for a string value. It never fails; the
// fallback arm is plain text.
func (c Classifier) Classify(s string) Kind {
	for _, rule := range c {
		if rule.Match(s) {
			return rule.Kind
		}
	}
	return KindText
}

func isEmail(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".") && emailRe.MatchString(s)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.") ||
		strings.HasPrefix(s, "/")
}

func isTel(s string) bool {
	stripped := strings.Join(strings.Fields(s), "")
	return telRe.MatchString(stripped)
}

func isImage(s string) bool {
	for _, marker := range imageMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func isLongText(s string) bool {
	return len(s) > 100 || strings.Contains(s, "\n") || len(strings.Fields(s)) > 10
}
