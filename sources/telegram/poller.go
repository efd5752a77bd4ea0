package telegram

import (
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/metrics"
	"coronabot/sources/repository"
	"coronabot/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Poller runs the long-polling loop and fans each update out to the
// handler on its own goroutine.
type Poller struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	usage   *repository.UsageRepository
	chats   *repository.ChatsRepository
	metrics *metrics.MetricsService
	config  *configuration.Config
	log     *tracing.Logger
	done    chan struct{}
}

func NewPoller(bot *tgbotapi.BotAPI, handler *Handler, usage *repository.UsageRepository, chats *repository.ChatsRepository, metrics *metrics.MetricsService, config *configuration.Config, log *tracing.Logger) *Poller {
	return &Poller{
		bot:     bot,
		handler: handler,
		usage:   usage,
		chats:   chats,
		metrics: metrics,
		config:  config,
		log:     log,
		done:    make(chan struct{}),
	}
}

func (x *Poller) Start() {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = x.config.Telegram.PollerTimeout
	updateConfig.AllowedUpdates = x.config.Telegram.AllowedUpdates

	updates := x.bot.GetUpdatesChan(updateConfig)
	x.log.I("Poller started", "timeout", x.config.Telegram.PollerTimeout)

	go func() {
		defer close(x.done)
		for update := range updates {
			go x.dispatch(update)
		}
	}()
}

func (x *Poller) Stop() {
	x.bot.StopReceivingUpdates()
	select {
	case <-x.done:
	case <-time.After(5 * time.Second):
		x.log.W("Poller did not drain in time")
	}
	x.log.I("Poller stopped")
}

func (x *Poller) dispatch(update tgbotapi.Update) {
	started := time.Now()
	logger := x.log.With("update_id", update.UpdateID)

	defer func() {
		if r := recover(); r != nil {
			logger.E("Recovered from panic in update handling", tracing.InnerError, r)
			x.metrics.RecordEventHandled("panic", "failure")
		}
		x.metrics.ObserveEventProcessing(time.Since(started).Seconds())
	}()

	switch {
	case update.Message != nil:
		x.observe(logger, update.Message)
		x.handler.HandleMessage(logger, update.Message)
		x.metrics.RecordEventHandled("message", "success")

	case update.CallbackQuery != nil:
		x.handler.HandleCallback(logger, update.CallbackQuery)
		x.metrics.RecordEventHandled("callback", "success")

	case update.InlineQuery != nil:
		x.handler.HandleInline(logger, update.InlineQuery)
		x.metrics.RecordEventHandled("inline", "success")
	}
}

// observe records usage and keeps the chat's stored language fresh so
// broadcasts speak the subscriber's language.
func (x *Poller) observe(logger *tracing.Logger, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	// /start greets first-time users; it does not count as usage.
	if !message.IsCommand() || message.Command() != "start" {
		if err := x.usage.Touch(logger, chatID); err != nil {
			logger.W("Failed to record usage", tracing.ChatId, chatID, tracing.InnerError, err)
		}
	}

	if message.From == nil || message.From.LanguageCode == "" {
		return
	}

	chat, err := x.chats.GetChat(logger, chatID)
	if err == nil && chat.Language != nil && *chat.Language == message.From.LanguageCode {
		return
	}

	if err := x.chats.SetLanguage(logger, chatID, message.From.LanguageCode); err != nil {
		logger.W("Failed to store chat language", tracing.ChatId, chatID, tracing.InnerError, err)
	}
}
