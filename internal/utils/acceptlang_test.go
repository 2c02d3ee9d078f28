package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLocale_QueryParamWins(t *testing.T) {
	got := DetermineLocale("en-GB", "sw-TZ,sw;q=0.9,en;q=0.8", SupportedLocales, DefaultLocale)
	assert.Equal(t, "en", got)
}

func TestDetermineLocale_AcceptLanguageOrder(t *testing.T) {
	got := DetermineLocale("", "sw-TZ,sw;q=0.9,en;q=0.8", SupportedLocales, DefaultLocale)
	assert.Equal(t, "sw", got)
}

func TestDetermineLocale_AcceptLanguagePrefersHigherQ(t *testing.T) {
	got := DetermineLocale("", "sw;q=0.4,en;q=0.8", SupportedLocales, DefaultLocale)
	assert.Equal(t, "en", got)
}

func TestDetermineLocale_SkipsZeroAndMalformedQ(t *testing.T) {
	got := DetermineLocale("", "en;q=0,sw;q=abc", SupportedLocales, "en")
	assert.Equal(t, "en", got, "no usable candidate falls back to def")
}

func TestDetermineLocale_DefaultFallback(t *testing.T) {
	got := DetermineLocale("", "fr-FR,es;q=0.9", SupportedLocales, DefaultLocale)
	assert.Equal(t, "sw", got)
}

func TestDetermineLocale_UnsupportedDefaultUsesFirstSupported(t *testing.T) {
	got := DetermineLocale("", "", []string{"en", "sw"}, "de")
	assert.Equal(t, "en", got)
}
