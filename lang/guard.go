package lang

import (
	"regexp"
	"strings"
)

// Punctuation shared by both scripts. The backtick cannot live in a raw string.
const asciiPunct = `.,!@#$%^&*()_+\-=\[\]{};':"\\|<>/?~` + "`"

// Whitespace includes the Unicode space separators (NBSP, thin space) that
// pasted text often carries.
var (
	arabicText  = regexp.MustCompile(`^[\x{0600}-\x{06FF}\s\p{Zs}\x{2028}\x{2029}\x{FEFF}0-9` + asciiPunct + `؟،؛\x{0660}-\x{0669}]+$`)
	englishText = regexp.MustCompile(`^[A-Za-z\s\p{Zs}\x{2028}\x{2029}\x{FEFF}0-9` + asciiPunct + `]+$`)
	htmlTag     = regexp.MustCompile(`<[^>]*>?`)
)

// Guard reports whether text is written in the script of l.
//
// Text that looks like markup or a link (contains "<", "http" or "www.") is
// always accepted, as is the empty string. Mixed-script text is rejected.
func Guard(text string, l Lang) bool {
	if text == "" || Exempt(text) {
		return true
	}
	switch l {
	case Arabic:
		return arabicText.MatchString(text)
	case English:
		return englishText.MatchString(text)
	}
	return false
}

// GuardRich strips HTML tags before applying Guard. Used for rich-text bodies.
func GuardRich(text string, l Lang) bool {
	return Guard(StripHTML(text), l)
}

func Exempt(text string) bool {
	return strings.Contains(text, "<") ||
		strings.Contains(text, "http") ||
		strings.Contains(text, "www.")
}

func StripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}
