package domain

import (
	"fmt"
	"strings"
)

// Locale is a supported language code for localized names.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFI Locale = "fi"

	// DefaultLocale is mandatory for every species and region name.
	DefaultLocale = LocaleEN
)

// LocalizedNames holds one name per supported locale.
type LocalizedNames struct {
	EN string `json:"en,omitempty"`
	FI string `json:"fi,omitempty"`
}

type localizedNameField struct {
	locale Locale
	get    func(n *LocalizedNames) string
	set    func(n *LocalizedNames, name string)
}

// localizedNameFields is the single declaration of which name field belongs to which locale.
// Iteration order is the declaration order.
var localizedNameFields = []localizedNameField{
	{
		locale: LocaleEN,
		get:    func(n *LocalizedNames) string { return n.EN },
		set:    func(n *LocalizedNames, name string) { n.EN = name },
	},
	{
		locale: LocaleFI,
		get:    func(n *LocalizedNames) string { return n.FI },
		set:    func(n *LocalizedNames, name string) { n.FI = name },
	},
}

// SupportedLocales returns the supported locales in declaration order.
func SupportedLocales() []Locale {
	locales := make([]Locale, 0, len(localizedNameFields))
	for _, f := range localizedNameFields {
		locales = append(locales, f.locale)
	}
	return locales
}

// ParseLocale validates a locale code. An empty code yields the default locale.
func ParseLocale(code string) (Locale, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return DefaultLocale, nil
	}
	for _, f := range localizedNameFields {
		if string(f.locale) == code {
			return f.locale, nil
		}
	}
	return "", NewInvalidInputError(fmt.Sprintf("unsupported locale: %s", code))
}

func fieldFor(locale Locale) (localizedNameField, bool) {
	for _, f := range localizedNameFields {
		if f.locale == locale {
			return f, true
		}
	}
	return localizedNameField{}, false
}

// Get returns the name stored for locale, or "" when the locale is unknown or the name is unset.
func (n LocalizedNames) Get(locale Locale) string {
	f, ok := fieldFor(locale)
	if !ok {
		return ""
	}
	return f.get(&n)
}

// Set stores name under locale. Unknown locales are ignored.
func (n *LocalizedNames) Set(locale Locale, name string) {
	if f, ok := fieldFor(locale); ok {
		f.set(n, name)
	}
}

// Resolve returns the name for locale, falling back to the default locale when it is empty.
func (n LocalizedNames) Resolve(locale Locale) string {
	if name := n.Get(locale); name != "" {
		return name
	}
	return n.Get(DefaultLocale)
}

// All returns the non-empty names in declaration order.
func (n LocalizedNames) All() []string {
	names := make([]string, 0, len(localizedNameFields))
	for _, f := range localizedNameFields {
		if name := f.get(&n); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Merge copies every non-empty name of other into n.
func (n *LocalizedNames) Merge(other LocalizedNames) {
	for _, f := range localizedNameFields {
		if name := f.get(&other); name != "" {
			f.set(n, name)
		}
	}
}
