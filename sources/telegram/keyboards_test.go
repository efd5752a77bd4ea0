package telegram

import (
	"testing"

	"coronabot/sources/configuration"
	"coronabot/sources/localization"
	"coronabot/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeyboards(t *testing.T) *Keyboards {
	t.Helper()

	config := &configuration.Config{}
	config.Localization.DefaultLanguage = "en"
	config.Localization.SupportedLanguages = []string{"en"}

	localizer, err := localization.NewLocalizationManager(config, tracing.NewConsoleLogger())
	require.NoError(t, err)

	return NewKeyboards(NewCodec(), localizer)
}

func payloads(markup tgbotapi.InlineKeyboardMarkup) [][]string {
	var rows [][]string
	for _, row := range markup.InlineKeyboard {
		var data []string
		for _, button := range row {
			data = append(data, *button.CallbackData)
		}
		rows = append(rows, data)
	}
	return rows
}

func TestListKeyboardFirstPage(t *testing.T) {
	keyboards := newTestKeyboards(t)

	markup := keyboards.ListKeyboard("en", 0, 5, false)

	assert.Equal(t, [][]string{
		{"list 1 5"},
		{"list -1 5"},
		{"list_order_menu 1 0 5 0"},
	}, payloads(markup))
}

// Past the first page the jump button goes back to the start, never to
// the end; the two are mutually exclusive.
func TestListKeyboardMiddlePage(t *testing.T) {
	keyboards := newTestKeyboards(t)

	markup := keyboards.ListKeyboard("en", 2, 5, false)

	assert.Equal(t, [][]string{
		{"list 1 5", "list 3 5"},
		{"list 0 5"},
		{"list_order_menu 1 2 5 0"},
	}, payloads(markup))
}

func TestListKeyboardLastPage(t *testing.T) {
	keyboards := newTestKeyboards(t)

	markup := keyboards.ListKeyboard("en", 3, 5, true)

	assert.Equal(t, [][]string{
		{"list 2 5"},
		{"list 0 5"},
		{"list_order_menu 1 3 5 1"},
	}, payloads(markup))
}

// A list that fits on one page still carries the to-end jump.
func TestListKeyboardSinglePage(t *testing.T) {
	keyboards := newTestKeyboards(t)

	markup := keyboards.ListKeyboard("en", 0, 5, true)

	assert.Equal(t, [][]string{
		{"list -1 5"},
		{"list_order_menu 1 0 5 1"},
	}, payloads(markup))
}

// The back button must carry the page the menu was opened from, so
// closing the menu restores the exact keyboard.
func TestOrderMenuKeyboard(t *testing.T) {
	keyboards := newTestKeyboards(t)

	markup := keyboards.OrderMenuKeyboard("en", 1, 5, false)

	assert.Equal(t, [][]string{
		{"list_order cases 5", "list_order todayCases 5"},
		{"list_order deaths 5", "list_order todayDeaths 5"},
		{"list_order active 5", "list_order recovered 5"},
		{"list_order_menu 0 1 5 0"},
	}, payloads(markup))
}

func TestStatsKeyboardOffersOppositeState(t *testing.T) {
	keyboards := newTestKeyboards(t)

	compact := keyboards.StatsKeyboard("en", "DE", false)
	assert.Equal(t, [][]string{{"stats DE 1"}}, payloads(compact))

	detailed := keyboards.StatsKeyboard("en", "DE", true)
	assert.Equal(t, [][]string{{"stats DE 0"}}, payloads(detailed))
}
