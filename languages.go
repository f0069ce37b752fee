package chatlate

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// BaseLanguage returns the lower-case base language of a code
// (e.g., "ar" from "ar_SA" or "ar-EG").
func BaseLanguage(langCode string) string {
	tag, err := language.Parse(NormalizeTag(langCode))
	if err != nil {
		return fallbackBase(langCode)
	}
	base, conf := tag.Base()
	if conf == language.No {
		return fallbackBase(langCode)
	}
	return base.String()
}

func fallbackBase(langCode string) string {
	code := strings.ToLower(strings.TrimSpace(langCode))
	if i := strings.IndexAny(code, "_-"); i >= 0 {
		code = code[:i]
	}
	return code
}

// GetLanguageName returns the English name for a language code.
// Falls back to the code itself if it cannot be parsed.
func GetLanguageName(langCode string) string {
	tag, err := language.Parse(NormalizeTag(langCode))
	if err != nil {
		return langCode
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return langCode
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[BaseLanguage(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// WrapRTL encloses text in right-to-left embedding controls.
func WrapRTL(text string) string {
	return RTLEmbeddingStart + text + RTLEmbeddingEnd
}

// SameLanguage reports whether two codes share a base language, in which
// case translation can be bypassed.
func SameLanguage(a, b string) bool {
	return BaseLanguage(a) == BaseLanguage(b)
}

// NormalizeTag converts a locale code to BCP 47 form (e.g., "es_ES" → "es-ES").
func NormalizeTag(langCode string) string {
	return strings.ReplaceAll(strings.TrimSpace(langCode), "_", "-")
}
