// Package i18n provides the user-facing string tables. The content is data;
// callers look strings up by key.
package i18n

import (
	_ "embed"
	"fmt"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed strings.yaml
var stringsData []byte

// Fallback is used when no requested language is supported.
const Fallback = "en"

// Supported lists the languages with a string table, fallback first.
var Supported = []string{"en", "ru", "uz", "es", "de"}

type Bundle struct {
	tables  map[string]map[string]string
	matcher language.Matcher
}

// Table is the string table of one language.
type Table struct {
	Lang     string
	strings  map[string]string
	fallback map[string]string
}

func Load() (*Bundle, error) {
	var tables map[string]map[string]string
	if err := yaml.Unmarshal(stringsData, &tables); err != nil {
		return nil, fmt.Errorf("decode strings: %w", err)
	}
	tags := make([]language.Tag, 0, len(Supported))
	for _, lang := range Supported {
		if _, ok := tables[lang]; !ok {
			return nil, fmt.Errorf("strings: missing table for %q", lang)
		}
		tags = append(tags, language.MustParse(lang))
	}
	return &Bundle{tables: tables, matcher: language.NewMatcher(tags)}, nil
}

func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// Match picks the supported language for an Accept-Language header or a
// stored locale such as "ru-RU".
func (b *Bundle) Match(preference string) string {
	tags, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(tags) == 0 {
		return Fallback
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return Fallback
	}
	return Supported[index]
}

// Strings returns the table for lang, falling back to English.
func (b *Bundle) Strings(lang string) Table {
	t, ok := b.tables[lang]
	if !ok {
		lang = Fallback
		t = b.tables[Fallback]
	}
	return Table{Lang: lang, strings: t, fallback: b.tables[Fallback]}
}

// Get returns the string for key; unknown keys come back unchanged.
func (t Table) Get(key string) string {
	if s, ok := t.strings[key]; ok {
		return s
	}
	if s, ok := t.fallback[key]; ok {
		return s
	}
	return key
}

func (t Table) Format(key string, args ...any) string {
	return fmt.Sprintf(t.Get(key), args...)
}

// MilestoneTitle is the default title of a milestone at percent.
func (t Table) MilestoneTitle(percent int) string {
	return t.Format("milestoneComplete", percent)
}
