package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"coronabot/sources/directory"
	"coronabot/sources/paging"
	"coronabot/sources/statistics"
	"coronabot/sources/texting"
	"coronabot/sources/tracing"

	"github.com/alecthomas/kong"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type listCommandArgs struct {
	Sort string `arg:"" optional:"" help:"Sort key for the list."`
	Size int    `arg:"" optional:"" help:"Rows per page."`
}

type graphCommandArgs struct {
	Days  int      `arg:"" optional:"" help:"Number of days to chart."`
	Place []string `arg:"" optional:"" help:"Country name, ISO code or flag."`
}

func (x *Handler) handleCommand(logger *tracing.Logger, message *tgbotapi.Message, lang string) {
	command := message.Command()
	chatID := message.Chat.ID

	logger.I("Command received", tracing.CommandIssued, command, tracing.ChatId, chatID)
	x.metrics.RecordCommandUsed(command)

	switch command {
	case "start":
		x.commandStart(logger, message, lang)
	case "help":
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgHelp"))
	case "today":
		x.commandToday(logger, chatID, lang)
	case "world":
		x.sendLocationCard(logger, chatID, lang, directory.WorldIdent, false)
	case "list":
		x.commandList(logger, message, lang)
	case "graph":
		x.commandGraph(logger, message, lang)
	case "setlocation":
		x.commandSetLocation(logger, chatID, lang)
	case "mylocation":
		x.commandMyLocation(logger, chatID, lang)
	case "subscribe":
		x.commandSubscribe(logger, chatID, lang)
	case "unsubscribe":
		x.commandUnsubscribe(logger, chatID, lang)
	case "cancel":
		x.commandCancel(logger, chatID, lang)
	default:
		// Every listed country doubles as a command, /germany style.
		if record, ok := x.directory.Resolve(strings.ReplaceAll(command, "_", " ")); ok {
			x.sendLocationCard(logger, chatID, lang, record.Code, false)
			return
		}
		if record, ok := x.directory.Resolve(command); ok {
			x.sendLocationCard(logger, chatID, lang, record.Code, false)
			return
		}
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgUnknownCommand"))
	}
}

func (x *Handler) commandStart(logger *tracing.Logger, message *tgbotapi.Message, lang string) {
	name := ""
	if message.From != nil {
		name = message.From.FirstName
	}

	x.diplomat.SendText(logger, message.Chat.ID, x.localizer.LocalizeTd(lang, "MsgStart", map[string]interface{}{
		"Name": name,
	}))
}

func (x *Handler) commandToday(logger *tracing.Logger, chatID int64, lang string) {
	if !x.throttler.IsAllowed(chatID) {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgThrottled"))
		return
	}

	snapshot, err := x.statistics.World(logger, false)
	if err != nil {
		x.metrics.RecordUpstreamFailure("statistics")
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgNoData"))
		return
	}

	x.diplomat.SendText(logger, chatID, x.renderer.TodayReport(lang, snapshot))
}

func (x *Handler) commandList(logger *tracing.Logger, message *tgbotapi.Message, lang string) {
	chatID := message.Chat.ID

	var args listCommandArgs
	if err := parseCommandArgs(&args, message.CommandArguments()); err != nil {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgUnknownCommand"))
		return
	}

	// "/list 10" means a page size, not a sort key.
	if n, err := strconv.Atoi(args.Sort); err == nil {
		args.Sort, args.Size = "", n
	}

	size := paging.ClampSize(args.Size)
	if args.Size == 0 {
		size = defaultPageSize
	}

	sort := x.sortPreference(logger, chatID)
	if args.Sort != "" {
		parsed, ok := statistics.ParseSortKey(args.Sort)
		if ok {
			sort = parsed
			if err := x.chats.SetSortOrder(logger, chatID, string(sort)); err != nil {
				logger.W("Failed to persist sort order", tracing.InnerError, err)
			}
		}
	}

	entries, err := x.statistics.CountryList(logger, sort)
	if err != nil {
		x.metrics.RecordUpstreamFailure("statistics")
	}
	if err != nil || len(entries) == 0 {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgNoData"))
		return
	}

	window, resolved, last := paging.Slice(entries, 0, size)
	text := x.renderer.ListPage(lang, window)
	markup := x.keyboards.ListKeyboard(lang, resolved, size, last)
	x.diplomat.SendTextWithKeyboard(logger, chatID, text, &markup)
}

func (x *Handler) commandGraph(logger *tracing.Logger, message *tgbotapi.Message, lang string) {
	chatID := message.Chat.ID

	var args graphCommandArgs
	if err := parseCommandArgs(&args, message.CommandArguments()); err != nil {
		// "/graph germany" without a day count is fine too.
		args = graphCommandArgs{Place: texting.ParseCmdArgs(message.CommandArguments())}
	}

	days := args.Days
	if days <= 0 {
		days = x.config.Statistics.DefaultDays
	}

	iso2 := ""
	if len(args.Place) > 0 {
		record, ok := x.directory.Resolve(strings.Join(args.Place, " "))
		if !ok || record.Kind != directory.KindCountry {
			x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgUnknownPlace"))
			return
		}
		iso2 = record.Code
	}

	if !x.throttler.IsAllowed(chatID) {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgThrottled"))
		return
	}

	x.diplomat.SendChatAction(logger, chatID, tgbotapi.ChatUploadPhoto)

	series, err := x.statistics.Timeseries(logger, iso2, days)
	if err != nil {
		x.metrics.RecordUpstreamFailure("statistics")
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgNoData"))
		return
	}

	image, err := x.charts.RenderTimeseries(logger, series)
	if err != nil {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgError"))
		return
	}

	caption := x.localizer.LocalizeTd(lang, "MsgGraphCaption", map[string]interface{}{
		"Name": series.Name,
		"Days": days,
	})
	x.diplomat.SendPhotoBytes(logger, chatID, fmt.Sprintf("graph_%s.png", directory.Normalize(series.Name)), image, caption)
}

func (x *Handler) commandSetLocation(logger *tracing.Logger, chatID int64, lang string) {
	if err := x.machine.Begin(logger, chatID); err != nil {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgError"))
		return
	}

	x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgSetLocationPrompt"))
}

func (x *Handler) commandMyLocation(logger *tracing.Logger, chatID int64, lang string) {
	chat, err := x.chats.GetChat(logger, chatID)
	if err != nil || chat.HomeLocation == nil {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgMyLocationUnset"))
		return
	}

	record, ok := x.directory.Get(*chat.HomeLocation)
	if !ok {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgMyLocationUnset"))
		return
	}

	x.sendLocationCard(logger, chatID, lang, record.Code, false)
}

func (x *Handler) commandSubscribe(logger *tracing.Logger, chatID int64, lang string) {
	added, err := x.subscribers.Subscribe(logger, chatID)
	if err != nil {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgError"))
		return
	}

	messageID := "MsgAlreadySubscribed"
	if added {
		messageID = "MsgSubscribed"
	}
	x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, messageID))
}

func (x *Handler) commandUnsubscribe(logger *tracing.Logger, chatID int64, lang string) {
	removed, err := x.subscribers.Unsubscribe(logger, chatID)
	if err != nil {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgError"))
		return
	}

	messageID := "MsgNotSubscribed"
	if removed {
		messageID = "MsgUnsubscribed"
	}
	x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, messageID))
}

func (x *Handler) commandCancel(logger *tracing.Logger, chatID int64, lang string) {
	if _, err := x.machine.Cancel(logger, chatID); err != nil {
		x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgError"))
		return
	}

	x.diplomat.SendText(logger, chatID, x.localizer.Localize(lang, "MsgSetLocationCancelled"))
}

// parseCommandArgs binds slash-command arguments onto a kong grammar.
func parseCommandArgs(grammar any, raw string) error {
	parser, err := kong.New(grammar,
		kong.Exit(func(int) {}),
		kong.Writers(nopWriter{}, nopWriter{}),
	)
	if err != nil {
		return err
	}

	_, err = parser.Parse(texting.ParseCmdArgs(raw))
	return err
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
