package localization

import (
	"strings"
	"testing"

	"coronabot/sources/configuration"
	"coronabot/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *LocalizationManager {
	t.Helper()

	config := &configuration.Config{}
	config.Localization.DefaultLanguage = "en"
	config.Localization.SupportedLanguages = []string{"en", "de"}

	manager, err := NewLocalizationManager(config, tracing.NewConsoleLogger())
	require.NoError(t, err)
	return manager
}

func TestLangMapping(t *testing.T) {
	manager := newTestManager(t)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Exact match", input: "de", expected: "de"},
		{name: "Regional variant", input: "de-AT", expected: "de"},
		{name: "Uppercase", input: "DE", expected: "de"},
		{name: "English", input: "en-US", expected: "en"},
		{name: "Unsupported falls back", input: "fr", expected: "en"},
		{name: "Empty falls back", input: "", expected: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, manager.Lang(tt.input))
		})
	}
}

func TestLocalizePerLanguage(t *testing.T) {
	manager := newTestManager(t)

	en := manager.Localize("en", "MsgNoData")
	de := manager.Localize("de", "MsgNoData")

	assert.NotEmpty(t, en)
	assert.NotEmpty(t, de)
	assert.NotEqual(t, en, de)
}

// A language without its own catalog serves the default one instead of
// failing.
func TestLocalizeFallsBackToDefault(t *testing.T) {
	manager := newTestManager(t)

	assert.Equal(t, manager.Localize("en", "MsgNoData"), manager.Localize("fr", "MsgNoData"))
}

func TestLocalizeTemplateData(t *testing.T) {
	manager := newTestManager(t)

	msg := manager.LocalizeTd("en", "MsgGraphCaption", map[string]interface{}{
		"Name": "Germany",
		"Days": 45,
	})

	assert.True(t, strings.Contains(msg, "Germany"))
	assert.True(t, strings.Contains(msg, "45"))
}

func TestLocalizeUnknownMessageReturnsID(t *testing.T) {
	manager := newTestManager(t)

	assert.Equal(t, "MsgDoesNotExist", manager.Localize("en", "MsgDoesNotExist"))
}
