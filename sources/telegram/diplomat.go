package telegram

import (
	"coronabot/sources/configuration"
	"coronabot/sources/metrics"
	"coronabot/sources/texting/transform"
	"coronabot/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Diplomat is the single outbound gate to the Telegram API. Long texts
// are chunked, every send is counted, and failures are logged but not
// retried.
type Diplomat struct {
	bot     *tgbotapi.BotAPI
	config  *configuration.Config
	metrics *metrics.MetricsService
	log     *tracing.Logger
}

func NewDiplomat(bot *tgbotapi.BotAPI, config *configuration.Config, metrics *metrics.MetricsService, log *tracing.Logger) *Diplomat {
	return &Diplomat{bot: bot, config: config, metrics: metrics, log: log}
}

func (x *Diplomat) SendText(logger *tracing.Logger, chatID int64, text string) {
	x.SendTextWithKeyboard(logger, chatID, text, nil)
}

func (x *Diplomat) SendTextWithKeyboard(logger *tracing.Logger, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	for _, chunk := range transform.Chunks(text, x.config.Telegram.DiplomatChunkSize) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if markup != nil {
			msg.ReplyMarkup = *markup
		}

		if _, err := x.bot.Send(msg); err != nil {
			logger.E("Failed to send message", tracing.ChatId, chatID, tracing.InnerError, err)
			x.metrics.RecordMessageSent("failure")
			return
		}
		x.metrics.RecordMessageSent("success")
	}
}

func (x *Diplomat) SendPhotoURL(logger *tracing.Logger, chatID int64, url, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown

	if _, err := x.bot.Send(photo); err != nil {
		logger.E("Failed to send photo", tracing.ChatId, chatID, tracing.UpstreamUrl, url, tracing.InnerError, err)
		x.metrics.RecordMessageSent("failure")
		return
	}
	x.metrics.RecordMessageSent("success")
}

func (x *Diplomat) SendPhotoBytes(logger *tracing.Logger, chatID int64, name string, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown

	if _, err := x.bot.Send(photo); err != nil {
		logger.E("Failed to send photo upload", tracing.ChatId, chatID, tracing.InnerError, err)
		x.metrics.RecordMessageSent("failure")
		return
	}
	x.metrics.RecordMessageSent("success")
}

// SendCard delivers one stats card: a captioned map photo when a map
// is available, plain text otherwise. The keyboard rides along either
// way.
func (x *Diplomat) SendCard(logger *tracing.Logger, chatID int64, photoURL, caption string, markup tgbotapi.InlineKeyboardMarkup) {
	if photoURL == "" {
		x.SendTextWithKeyboard(logger, chatID, caption, &markup)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	photo.ReplyMarkup = markup

	if _, err := x.bot.Send(photo); err != nil {
		logger.W("Failed to send card photo, falling back to text", tracing.ChatId, chatID, tracing.UpstreamUrl, photoURL, tracing.InnerError, err)
		x.SendTextWithKeyboard(logger, chatID, caption, &markup)
		return
	}
	x.metrics.RecordMessageSent("success")
}

// EditText replaces the body and keyboard of an existing message. Used
// by the sort-order actions so the list mutates in place.
func (x *Diplomat) EditText(logger *tracing.Logger, chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeMarkdown

	if _, err := x.bot.Send(edit); err != nil {
		logger.E("Failed to edit message", tracing.ChatId, chatID, tracing.MessageId, messageID, tracing.InnerError, err)
		x.metrics.RecordMessageSent("failure")
		return
	}
	x.metrics.RecordMessageSent("success")
}

// EditCaption is EditText for photo messages, where the card lives in
// the caption.
func (x *Diplomat) EditCaption(logger *tracing.Logger, chatID int64, messageID int, caption string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, caption)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = &markup

	if _, err := x.bot.Send(edit); err != nil {
		logger.E("Failed to edit caption", tracing.ChatId, chatID, tracing.MessageId, messageID, tracing.InnerError, err)
	}
}

// EditMarkup swaps only the keyboard, leaving the body untouched. Used
// when the order menu opens and closes.
func (x *Diplomat) EditMarkup(logger *tracing.Logger, chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup)

	if _, err := x.bot.Send(edit); err != nil {
		logger.E("Failed to edit markup", tracing.ChatId, chatID, tracing.MessageId, messageID, tracing.InnerError, err)
	}
}

// AnswerCallback acknowledges a button press so the client spinner
// stops, including for payloads we could not decode.
func (x *Diplomat) AnswerCallback(logger *tracing.Logger, callbackID string) {
	if _, err := x.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		logger.W("Failed to answer callback", tracing.InnerError, err)
	}
}

func (x *Diplomat) AnswerInline(logger *tracing.Logger, inline tgbotapi.InlineConfig) {
	if _, err := x.bot.Request(inline); err != nil {
		logger.E("Failed to answer inline query", tracing.InnerError, err)
	}
}

func (x *Diplomat) SendChatAction(logger *tracing.Logger, chatID int64, action string) {
	if _, err := x.bot.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		logger.D("Failed to send chat action", tracing.ChatId, chatID, tracing.InnerError, err)
	}
}

// SendReport delivers one broadcast message and surfaces the raw
// transport error so the dispatcher can classify it.
func (x *Diplomat) SendReport(logger *tracing.Logger, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := x.bot.Send(msg); err != nil {
		x.metrics.RecordMessageSent("failure")
		return err
	}

	x.metrics.RecordMessageSent("success")
	return nil
}
