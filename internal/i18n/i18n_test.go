package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	b := MustLoad()

	assert.Equal(t, "ru", b.Match("ru-RU,ru;q=0.9,en;q=0.8"))
	assert.Equal(t, "de", b.Match("de-AT"))
	assert.Equal(t, "en", b.Match(""))
	assert.Equal(t, "en", b.Match("ja"))
	assert.Equal(t, "en", b.Match("not a language !!"))
}

func TestStrings(t *testing.T) {
	b := MustLoad()

	en := b.Strings("en")
	assert.Equal(t, "25% Complete", en.MilestoneTitle(25))
	assert.Equal(t, "unknownKey", en.Get("unknownKey"))

	unknown := b.Strings("fr")
	assert.Equal(t, "en", unknown.Lang)

	for _, lang := range Supported {
		table := b.Strings(lang)
		assert.NotEqual(t, "missingTitle", table.Get("missingTitle"), lang)
		assert.NotEqual(t, "invalidTarget", table.Get("invalidTarget"), lang)
	}
}
