package telegram

import (
	"coronabot/sources/localization"
	"coronabot/sources/paging"
	"coronabot/sources/statistics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Keyboards mints the inline keyboards attached to stats cards and the
// country list.
type Keyboards struct {
	codec     *Codec
	localizer *localization.LocalizationManager
}

func NewKeyboards(codec *Codec, localizer *localization.LocalizationManager) *Keyboards {
	return &Keyboards{codec: codec, localizer: localizer}
}

// ListKeyboard navigates the paginated country list. Page is the
// resolved zero-based index of the rendered page; labels show
// one-based numbers.
func (x *Keyboards) ListKeyboard(lang string, page, size int, last bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			x.localizer.LocalizeTd(lang, "MsgPageLeft", map[string]interface{}{"Page": page}),
			x.codec.EncodeList(page-1, size),
		))
	}
	if !last {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			x.localizer.LocalizeTd(lang, "MsgPageRight", map[string]interface{}{"Page": page + 2}),
			x.codec.EncodeList(page+1, size),
		))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	// One jump button: back to the start from anywhere past it,
	// otherwise to the end via the last-page sentinel.
	jump := tgbotapi.NewInlineKeyboardButtonData(
		x.localizer.Localize(lang, "MsgToEnd"),
		x.codec.EncodeList(paging.LastPage, size),
	)
	if page > 0 {
		jump = tgbotapi.NewInlineKeyboardButtonData(
			x.localizer.Localize(lang, "MsgToStart"),
			x.codec.EncodeList(0, size),
		)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(jump))

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			x.localizer.Localize(lang, "MsgOrderMenu"),
			x.codec.EncodeOrderMenu(true, page, size, last),
		),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// OrderMenuKeyboard lists the sort keys two per row, with a back
// button carrying the page the menu was opened from.
func (x *Keyboards) OrderMenuKeyboard(lang string, page, size int, last bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var row []tgbotapi.InlineKeyboardButton
	for _, key := range statistics.SortKeys() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			x.localizer.Localize(lang, sortLabel(key)),
			x.codec.EncodeOrder(key, size),
		))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			x.localizer.Localize(lang, "MsgOrderBack"),
			x.codec.EncodeOrderMenu(false, page, size, last),
		),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// StatsKeyboard offers the opposite of the card's current detail
// level.
func (x *Keyboards) StatsKeyboard(lang, location string, detailed bool) tgbotapi.InlineKeyboardMarkup {
	label := "MsgDetailsMore"
	if detailed {
		label = "MsgDetailsLess"
	}

	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			x.localizer.Localize(lang, label),
			x.codec.EncodeStats(location, !detailed),
		),
	))
}

func sortLabel(key statistics.SortKey) string {
	switch key {
	case statistics.SortCases:
		return "MsgSortCases"
	case statistics.SortTodayCases:
		return "MsgSortTodayCases"
	case statistics.SortDeaths:
		return "MsgSortDeaths"
	case statistics.SortTodayDeaths:
		return "MsgSortTodayDeaths"
	case statistics.SortActive:
		return "MsgSortActive"
	case statistics.SortRecovered:
		return "MsgSortRecovered"
	}
	return "MsgSortCases"
}
