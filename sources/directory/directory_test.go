package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory() *Directory {
	x := &Directory{
		records: make(map[string]*LocationRecord),
		aliases: make(map[string]string),
	}

	germany := &LocationRecord{Code: "DE", Name: "Germany", ISO3: "DEU", Kind: KindCountry, Flag: Flag("DE")}
	x.add(germany, "de", "deu", "germany", Normalize("Germany"), germany.Flag)

	france := &LocationRecord{Code: "FR", Name: "France", ISO3: "FRA", Kind: KindCountry, Flag: Flag("FR")}
	x.add(france, "fr", "fra", "france", Normalize("France"), france.Flag)

	newYork := &LocationRecord{Code: "us_new_york", Name: "New York", Kind: KindUSState, Flag: Flag("US")}
	x.add(newYork, "new york", Normalize("New York"))

	return x
}

func TestResolveAliases(t *testing.T) {
	dir := newTestDirectory()

	tests := []struct {
		name     string
		alias    string
		expected string
	}{
		{name: "ISO2 lowercase", alias: "de", expected: "DE"},
		{name: "ISO2 uppercase", alias: "DE", expected: "DE"},
		{name: "ISO3", alias: "deu", expected: "DE"},
		{name: "Full name", alias: "Germany", expected: "DE"},
		{name: "Name with surrounding spaces", alias: "  france  ", expected: "FR"},
		{name: "Flag emoji", alias: Flag("DE"), expected: "DE"},
		{name: "State name", alias: "New York", expected: "us_new_york"},
		{name: "Normalized state name", alias: "new_york", expected: "us_new_york"},
		{name: "State code", alias: "us_new_york", expected: "us_new_york"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := dir.Resolve(tt.alias)
			require.True(t, ok)
			assert.Equal(t, tt.expected, record.Code)
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	dir := newTestDirectory()

	for _, alias := range []string{"atlantis", "", "zz", "\U0001F1FF\U0001F1FF"} {
		_, ok := dir.Resolve(alias)
		assert.False(t, ok, "alias %q should not resolve", alias)
	}
}

func TestSearchPrefix(t *testing.T) {
	dir := newTestDirectory()

	assert.Equal(t, []string{"germany"}, dir.Search("ger", 5))
	assert.Equal(t, []string{"france"}, dir.Search("FRA", 5))
	assert.Empty(t, dir.Search("", 5))
	assert.Empty(t, dir.Search("xyz", 5))
}

func TestSearchLimit(t *testing.T) {
	dir := newTestDirectory()

	// Every entry shares no prefix here, so pad with similar names.
	extra := &LocationRecord{Code: "GE", Name: "Georgia", ISO3: "GEO", Kind: KindCountry, Flag: Flag("GE")}
	dir.add(extra, "ge", "geo", "georgia")

	matches := dir.Search("ge", 1)
	assert.Len(t, matches, 1)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Germany", expected: "germany"},
		{input: "New York", expected: "new_york"},
		{input: "Baden-Württemberg", expected: "baden_w_rttemberg"},
		{input: "Côte d'Ivoire", expected: "c_te_d_ivoire"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestFlagRoundTrip(t *testing.T) {
	for _, iso2 := range []string{"DE", "FR", "US", "GB"} {
		flag := Flag(iso2)
		require.NotEmpty(t, flag)

		code, ok := CodeFromFlag(flag)
		require.True(t, ok, "flag for %s should decode", iso2)
		assert.Equal(t, iso2, code)
	}
}

func TestCodeFromFlagRejectsText(t *testing.T) {
	for _, input := range []string{"", "DE", "hello", "🦠"} {
		_, ok := CodeFromFlag(input)
		assert.False(t, ok, "input %q should not decode as flag", input)
	}
}
