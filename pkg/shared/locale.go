package shared

import "strings"

// Locale identifies one of the supported site languages.
type Locale string

const (
	LocaleAr Locale = "ar"
	LocaleEn Locale = "en"
)

// DefaultLocale is used whenever a requested locale has no value.
const DefaultLocale = LocaleEn

// SupportedLocales lists the locales in display order.
var SupportedLocales = []Locale{LocaleAr, LocaleEn}

// ParseLocale normalises raw input into a supported locale, falling back to
// DefaultLocale for anything unknown.
func ParseLocale(raw string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case LocaleAr:
		return LocaleAr
	case LocaleEn:
		return LocaleEn
	default:
		return DefaultLocale
	}
}

// IsSupported reports whether locale is one of SupportedLocales.
func (l Locale) IsSupported() bool {
	return l == LocaleAr || l == LocaleEn
}

// Direction returns the text direction used when rendering the locale.
func (l Locale) Direction() string {
	if l == LocaleAr {
		return "rtl"
	}
	return "ltr"
}

// BilingualText carries the same content in every supported locale. Both
// fields are always present, possibly empty.
type BilingualText struct {
	Ar string `bun:"ar" json:"ar"`
	En string `bun:"en" json:"en"`
}

// NewBilingualText is a convenience constructor.
func NewBilingualText(ar, en string) BilingualText {
	return BilingualText{Ar: ar, En: en}
}

// Get returns the raw value stored for locale without fallback.
func (t BilingualText) Get(locale Locale) string {
	switch locale {
	case LocaleAr:
		return t.Ar
	case LocaleEn:
		return t.En
	default:
		return ""
	}
}

// Set returns a copy with the locale value replaced.
func (t BilingualText) Set(locale Locale, value string) BilingualText {
	switch locale {
	case LocaleAr:
		t.Ar = value
	case LocaleEn:
		t.En = value
	}
	return t
}

// IsEmpty reports whether both locales are blank.
func (t BilingualText) IsEmpty() bool {
	return strings.TrimSpace(t.Ar) == "" && strings.TrimSpace(t.En) == ""
}

// IsComplete reports whether every locale carries a non-blank value.
func (t BilingualText) IsComplete() bool {
	return len(t.Missing()) == 0
}

// Missing lists locales whose value is blank.
func (t BilingualText) Missing() []Locale {
	var missing []Locale
	for _, locale := range SupportedLocales {
		if strings.TrimSpace(t.Get(locale)) == "" {
			missing = append(missing, locale)
		}
	}
	return missing
}

// Trimmed returns a copy with surrounding whitespace removed from each value.
func (t BilingualText) Trimmed() BilingualText {
	return BilingualText{Ar: strings.TrimSpace(t.Ar), En: strings.TrimSpace(t.En)}
}

// GetLocalizedValue resolves value for locale using DefaultLocale as the
// fallback. A nil value yields the empty string.
func GetLocalizedValue(value *BilingualText, locale Locale) string {
	return Localizer{Default: DefaultLocale}.Value(value, locale)
}

// Localizer resolves bilingual values against a configured default locale.
type Localizer struct {
	Default Locale
}

// Value returns the string for locale, or the default locale's string when the
// requested one is empty. Absent input yields "".
func (l Localizer) Value(value *BilingualText, locale Locale) string {
	if value == nil {
		return ""
	}
	if v := value.Get(locale); v != "" {
		return v
	}
	fallback := l.Default
	if !fallback.IsSupported() {
		fallback = DefaultLocale
	}
	return value.Get(fallback)
}

// Text is the value-receiver variant of Value.
func (l Localizer) Text(value BilingualText, locale Locale) string {
	return l.Value(&value, locale)
}
