// Package i18n localises validation and authentication messages. Core logic
// never branches on locale; only the text shown to the client does.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English, // fallback
	language.Turkish,
}

var matcher = language.NewMatcher(supported)

var messages = map[string]map[string]string{
	"en": {
		"COMMON.VALIDATION_ERROR_TITLE": "Validation Error!",
		"COMMON.FIELD_MUST_BE_FILLED":   "{} field must be filled",
		"COMMON.ALREADY_EXIST":          "Already Exists!",
		"COMMON.UNKNOWN_ERROR":          "Unknown Error!",
		"COMMON.FIELD_MUST_BE_TYPE":     "{} field must be {}",
		"COMMON.UNAUTHORIZED_ACCESS":    "Insufficient privileges to access this resource",
		"USERS.AUTH_ERROR":              "Wrong! Email or password",
		"USERS.FIELD_VALID_FORMAT":      "{} field must be in a valid {} format",
		"USERS.PASSWORD_LENGTH_ERROR":   "Password length must be at least {}",
	},
	"tr": {
		"COMMON.VALIDATION_ERROR_TITLE": "Doğrulama Hatası!",
		"COMMON.FIELD_MUST_BE_FILLED":   "{} alanı dolu olmalıdır",
		"COMMON.ALREADY_EXIST":          "Zaten var!",
		"COMMON.UNKNOWN_ERROR":          "Bilinmeyen Hata!",
		"COMMON.FIELD_MUST_BE_TYPE":     "{} alanı {} tipinde olmalıdır",
		"COMMON.UNAUTHORIZED_ACCESS":    "Bu kaynağa erişim yetkiniz yok",
		"USERS.AUTH_ERROR":              "Yanlış! Email ya da şifre",
		"USERS.FIELD_VALID_FORMAT":      "{} alanı geçerli {} formatında olmalıdır",
		"USERS.PASSWORD_LENGTH_ERROR":   "Şifre uzunluğu en az {} olmalıdır",
	},
}

// Translator resolves message keys to localised text.
type Translator struct {
	defaultLocale string
}

// New constructs a Translator with the given default locale.
func New(defaultLocale string) *Translator {
	if _, ok := messages[defaultLocale]; !ok {
		defaultLocale = "en"
	}
	return &Translator{defaultLocale: defaultLocale}
}

// Translate looks up key for the given locale and substitutes each "{}"
// placeholder in order. Unknown locales fall back through language matching
// to the default; an unknown key returns the key itself.
func (t *Translator) Translate(key, locale string, params ...string) string {
	table, ok := messages[t.base(locale)]
	if !ok {
		table = messages[t.defaultLocale]
	}
	val, ok := table[key]
	if !ok {
		if val, ok = messages[t.defaultLocale][key]; !ok {
			return key
		}
	}
	for _, p := range params {
		val = strings.Replace(val, "{}", p, 1)
	}
	return val
}

// DefaultLocale returns the configured fallback locale.
func (t *Translator) DefaultLocale() string {
	return t.defaultLocale
}

func (t *Translator) base(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return t.defaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return t.defaultLocale
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return t.defaultLocale
	}
	base, _ := supported[idx].Base()
	return base.String()
}
