// Package i18n resolves the display language and translates message keys for
// the two supported locales.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Lang is a two-letter language code.
type Lang string

const (
	EN Lang = "en"
	VI Lang = "vi"
)

// Default is used when nothing better matches.
const Default = EN

var supported = []language.Tag{language.English, language.Vietnamese}

var matcher = language.NewMatcher(supported)

// Resolve picks a supported language from an explicit lang parameter and/or an
// Accept-Language header. The explicit parameter wins when it is supported.
func Resolve(lang string, acceptLanguage string) Lang {
	if l, ok := Parse(lang); ok {
		return l
	}
	if acceptLanguage == "" {
		return Default
	}
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	return fromTag(supported[idx])
}

// Parse accepts exact or region-qualified codes such as "vi" or "vi-VN".
func Parse(s string) (Lang, bool) {
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	switch base.String() {
	case "en":
		return EN, true
	case "vi":
		return VI, true
	}
	return "", false
}

func fromTag(t language.Tag) Lang {
	if t == language.Vietnamese {
		return VI
	}
	return EN
}

// T translates key into lang, falling back to English and then to the key.
func T(lang Lang, key string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages[EN][key]; ok {
		return s
	}
	return key
}

// Tf is T with fmt.Sprintf formatting.
func Tf(lang Lang, key string, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}

// Pick returns the translation for lang from a per-language pair.
func Pick(lang Lang, en, vi string) string {
	if lang == VI && vi != "" {
		return vi
	}
	return en
}
