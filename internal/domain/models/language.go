package models

import "strings"

type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Kannada Language = "kn"

	DefaultLanguage = English
)

// ToLanguage accepts codes such as "hi" or "hi-IN". ok is false for
// unsupported languages, in which case DefaultLanguage is returned.
func ToLanguage(code string) (Language, bool) {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(code)), "-")
	switch Language(base) {
	case English, Hindi, Kannada:
		return Language(base), true
	default:
		return DefaultLanguage, false
	}
}
