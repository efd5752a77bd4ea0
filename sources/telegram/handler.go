package telegram

import (
	"errors"
	"strings"

	"coronabot/sources/charts"
	"coronabot/sources/configuration"
	"coronabot/sources/dialog"
	"coronabot/sources/directory"
	"coronabot/sources/features"
	"coronabot/sources/localization"
	"coronabot/sources/metrics"
	"coronabot/sources/paging"
	"coronabot/sources/repository"
	"coronabot/sources/statistics"
	"coronabot/sources/throttler"
	"coronabot/sources/tracing"
	"coronabot/sources/wikidata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
)

const defaultPageSize = 7

// Handler routes every inbound event: commands, free text, button
// presses and inline queries.
type Handler struct {
	diplomat    *Diplomat
	renderer    *Renderer
	keyboards   *Keyboards
	codec       *Codec
	statistics  *statistics.Client
	directory   *directory.Directory
	maps        *wikidata.MapProvider
	charts      *charts.Renderer
	localizer   *localization.LocalizationManager
	chats       *repository.ChatsRepository
	subscribers *repository.SubscribersRepository
	machine     *dialog.Machine
	throttler   *throttler.Throttler
	features    *features.FeatureManager
	metrics     *metrics.MetricsService
	config      *configuration.Config
	log         *tracing.Logger
}

type HandlerParams struct {
	fx.In

	Diplomat    *Diplomat
	Renderer    *Renderer
	Keyboards   *Keyboards
	Codec       *Codec
	Statistics  *statistics.Client
	Directory   *directory.Directory
	Maps        *wikidata.MapProvider
	Charts      *charts.Renderer
	Localizer   *localization.LocalizationManager
	Chats       *repository.ChatsRepository
	Subscribers *repository.SubscribersRepository
	Machine     *dialog.Machine
	Throttler   *throttler.Throttler
	Features    *features.FeatureManager
	Metrics     *metrics.MetricsService
	Config      *configuration.Config
	Log         *tracing.Logger
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{
		diplomat:    p.Diplomat,
		renderer:    p.Renderer,
		keyboards:   p.Keyboards,
		codec:       p.Codec,
		statistics:  p.Statistics,
		directory:   p.Directory,
		maps:        p.Maps,
		charts:      p.Charts,
		localizer:   p.Localizer,
		chats:       p.Chats,
		subscribers: p.Subscribers,
		machine:     p.Machine,
		throttler:   p.Throttler,
		features:    p.Features,
		metrics:     p.Metrics,
		config:      p.Config,
		log:         p.Log,
	}
}

func (x *Handler) HandleMessage(logger *tracing.Logger, message *tgbotapi.Message) {
	lang := x.language(message.From)

	if message.IsCommand() {
		x.handleCommand(logger, message, lang)
		return
	}

	x.handleFreeText(logger, message, lang)
}

// handleFreeText gives an open set-location dialog first claim on the
// text; otherwise the text is treated as a location lookup.
func (x *Handler) handleFreeText(logger *tracing.Logger, message *tgbotapi.Message, lang string) {
	chatID := message.Chat.ID

	outcome, code, err := x.machine.HandleText(logger, chatID, message.Text)
	if err != nil {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgError"))
		return
	}

	switch outcome {
	case dialog.OutcomeSaved:
		flag, name := "", code
		if record, ok := x.directory.Get(code); ok {
			flag, name = record.Flag, record.Name
		}
		x.diplomat.SendText(logger, chatID, x.localizer.LocalizeTd(lang, "MsgSetLocationSaved", map[string]interface{}{
			"Flag": flag,
			"Name": name,
		}))
		return
	case dialog.OutcomeUnknown:
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgUnknownPlace"))
		return
	}

	if record, ok := x.directory.Resolve(message.Text); ok {
		x.sendLocationCard(logger, chatID, lang, record.Code, false)
		return
	}
	if strings.Contains(strings.ToLower(message.Text), directory.WorldIdent) {
		x.sendLocationCard(logger, chatID, lang, directory.WorldIdent, false)
		return
	}
	if message.Text == "" {
		return
	}

	x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgUnknownPlace"))
}

func (x *Handler) HandleCallback(logger *tracing.Logger, query *tgbotapi.CallbackQuery) {
	defer x.diplomat.AnswerCallback(logger, query.ID)

	if query.Message == nil {
		return
	}

	lang := x.language(query.From)
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	callback, err := x.codec.Decode(query.Data)
	if err != nil {
		logger.W("Dropping unrecognized callback", tracing.CallbackData, query.Data)
		x.metrics.RecordCallbackHandled("unrecognized")
		return
	}

	x.metrics.RecordCallbackHandled(string(callback.Kind))
	logger.D("Callback decoded", tracing.CallbackData, query.Data, tracing.ChatId, chatID)

	switch callback.Kind {
	case CallbackList:
		x.renderListPage(logger, chatID, messageID, lang, callback.Page, callback.Size, "")

	case CallbackOrderMenu:
		if callback.Open {
			markup := x.keyboards.OrderMenuKeyboard(lang, callback.Page, callback.Size, callback.Last)
			x.diplomat.EditMarkup(logger, chatID, messageID, markup)
		} else {
			markup := x.keyboards.ListKeyboard(lang, callback.Page, callback.Size, callback.Last)
			x.diplomat.EditMarkup(logger, chatID, messageID, markup)
		}

	case CallbackOrder:
		if err := x.chats.SetSortOrder(logger, chatID, string(callback.Sort)); err != nil {
			logger.W("Failed to persist sort order", tracing.InnerError, err)
		}
		// Re-ordering moves every row, so restart from the front.
		x.renderListPage(logger, chatID, messageID, lang, 0, callback.Size, callback.Sort)

	case CallbackStats:
		x.toggleStatsCard(logger, query, lang, callback.Location, callback.Detailed)
	}
}

// renderListPage fetches the ordered list, slices the requested
// window and edits it into the existing message. An empty sort falls
// back to the chat's stored preference.
func (x *Handler) renderListPage(logger *tracing.Logger, chatID int64, messageID int, lang string, page, size int, sort statistics.SortKey) {
	if sort == "" {
		sort = x.sortPreference(logger, chatID)
	}

	entries, err := x.statistics.CountryList(logger, sort)
	if err != nil {
		x.metrics.RecordUpstreamFailure("statistics")
	}
	if err != nil || len(entries) == 0 {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgNoData"))
		return
	}

	window, resolved, last := paging.Slice(entries, page, size)
	text := x.renderer.ListPage(lang, window)
	markup := x.keyboards.ListKeyboard(lang, resolved, size, last)
	x.diplomat.EditText(logger, chatID, messageID, text, markup)
}

// toggleStatsCard re-renders the pressed card at the requested detail
// level, editing caption or body depending on how it was sent.
func (x *Handler) toggleStatsCard(logger *tracing.Logger, query *tgbotapi.CallbackQuery, lang, location string, detailed bool) {
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	snapshot, err := x.fetchSnapshot(logger, location, detailed)
	if err != nil {
		x.metrics.RecordUpstreamFailure("statistics")
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgNoData"))
		return
	}

	text := x.renderer.StatsCard(lang, snapshot, detailed)
	markup := x.keyboards.StatsKeyboard(lang, location, detailed)

	if len(query.Message.Photo) > 0 {
		x.diplomat.EditCaption(logger, chatID, messageID, text, markup)
	} else {
		x.diplomat.EditText(logger, chatID, messageID, text, markup)
	}
}

// sendLocationCard is the one path every stats request funnels
// through: throttle, fetch, render, deliver.
func (x *Handler) sendLocationCard(logger *tracing.Logger, chatID int64, lang, code string, detailed bool) {
	if !x.throttler.IsAllowed(chatID) {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgThrottled"))
		return
	}

	x.diplomat.SendChatAction(logger, chatID, tgbotapi.ChatUploadPhoto)

	snapshot, err := x.fetchSnapshot(logger, code, detailed)
	if err != nil {
		x.metrics.RecordUpstreamFailure("statistics")
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgNoData"))
		return
	}

	text := x.renderer.StatsCard(lang, snapshot, detailed)
	markup := x.keyboards.StatsKeyboard(lang, code, detailed)
	x.diplomat.SendCard(logger, chatID, x.mapFor(logger, code), text, markup)
}

// mapFor is best-effort: a missing map never blocks the card.
func (x *Handler) mapFor(logger *tracing.Logger, code string) string {
	if code == directory.WorldIdent {
		return x.maps.WorldMap()
	}

	record, ok := x.directory.Get(code)
	if !ok || record.Kind != directory.KindCountry {
		return ""
	}

	url, err := x.maps.CountryMap(logger, record.Code)
	if err != nil {
		if !errors.Is(err, wikidata.ErrNoMap) {
			x.metrics.RecordUpstreamFailure("wikidata")
		}
		return ""
	}
	return url
}

func (x *Handler) fetchSnapshot(logger *tracing.Logger, code string, detailed bool) (*statistics.Snapshot, error) {
	includeVaccinations := detailed && x.features.IsEnabledDefault(features.FeatureVaccinations, true)

	if code == directory.WorldIdent {
		return x.statistics.World(logger, includeVaccinations)
	}

	record, ok := x.directory.Get(code)
	if !ok {
		return nil, statistics.ErrDataUnavailable
	}

	switch record.Kind {
	case directory.KindUSState:
		return x.statistics.USState(logger, record.Name)
	case directory.KindDEState:
		return x.statistics.DEState(logger, record.Name)
	default:
		return x.statistics.Country(logger, record.Code, includeVaccinations)
	}
}

func (x *Handler) sortPreference(logger *tracing.Logger, chatID int64) statistics.SortKey {
	chat, err := x.chats.GetChat(logger, chatID)
	if err != nil || chat.SortOrder == nil {
		return statistics.SortCases
	}

	sort, ok := statistics.ParseSortKey(*chat.SortOrder)
	if !ok {
		return statistics.SortCases
	}
	return sort
}

func (x *Handler) language(user *tgbotapi.User) string {
	if user == nil {
		return x.config.Localization.DefaultLanguage
	}
	return x.localizer.Lang(user.LanguageCode)
}
