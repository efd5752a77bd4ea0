package telegram

import (
	"net/http"

	"coronabot/sources/configuration"
	"coronabot/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func NewBotAPI(config *configuration.Config, client *http.Client, log *tracing.Logger) (*tgbotapi.BotAPI, error) {
	endpoint := config.Telegram.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(config.Telegram.BotToken, endpoint, client)
	if err != nil {
		log.E("Failed to create bot api", tracing.InnerError, err)
		return nil, err
	}

	log.I("Bot api created", tracing.UserName, bot.Self.UserName)
	return bot, nil
}
