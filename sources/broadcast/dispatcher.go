package broadcast

import (
	"errors"
	"strings"
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/metrics"
	"coronabot/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Courier delivers one report and surfaces the raw transport error.
type Courier interface {
	SendReport(logger *tracing.Logger, chatID int64, text string) error
}

// Registry is the subscriber set the dispatcher walks and prunes.
type Registry interface {
	List(logger *tracing.Logger) ([]int64, error)
	Unsubscribe(logger *tracing.Logger, chatID int64) (bool, error)
}

// ReportBuilder renders the per-subscriber report body.
type ReportBuilder interface {
	Build(logger *tracing.Logger, chatID int64) (string, error)
}

// Dispatcher walks the subscriber registry once per scheduled run.
// Chats that rejected the bot for good are removed from the registry,
// so the list heals itself; transient failures are left alone.
type Dispatcher struct {
	courier  Courier
	registry Registry
	reports  ReportBuilder
	metrics  *metrics.MetricsService
	config   *configuration.Config
	log      *tracing.Logger
}

func NewDispatcher(courier Courier, registry Registry, reports ReportBuilder, metrics *metrics.MetricsService, config *configuration.Config, log *tracing.Logger) *Dispatcher {
	return &Dispatcher{
		courier:  courier,
		registry: registry,
		reports:  reports,
		metrics:  metrics,
		config:   config,
		log:      log,
	}
}

func (x *Dispatcher) Run(logger *tracing.Logger) {
	defer tracing.ProfilePoint(logger, "Broadcast run completed", "broadcast.run")()

	chatIDs, err := x.registry.List(logger)
	if err != nil {
		logger.E("Failed to snapshot subscriber registry", tracing.InnerError, err)
		return
	}

	logger.I("Broadcast run started", "subscribers", len(chatIDs))

	var delivered, pruned, failed int
	for i, chatID := range chatIDs {
		if i > 0 && x.config.Broadcast.SendDelay > 0 {
			time.Sleep(x.config.Broadcast.SendDelay)
		}

		text, err := x.reports.Build(logger, chatID)
		if err != nil {
			logger.W("Failed to build report, skipping chat", tracing.ChatId, chatID, tracing.InnerError, err)
			x.metrics.RecordBroadcastDelivery("failed")
			failed++
			continue
		}

		err = x.courier.SendReport(logger, chatID, text)
		if err == nil {
			x.metrics.RecordBroadcastDelivery("delivered")
			delivered++
			continue
		}

		if permanentFailure(err) {
			logger.I("Pruning unreachable subscriber", tracing.ChatId, chatID, tracing.InnerError, err)
			if _, err := x.registry.Unsubscribe(logger, chatID); err != nil {
				logger.E("Failed to prune subscriber", tracing.ChatId, chatID, tracing.InnerError, err)
			}
			x.metrics.RecordBroadcastDelivery("pruned")
			pruned++
			continue
		}

		logger.W("Broadcast delivery failed", tracing.ChatId, chatID, tracing.InnerError, err)
		x.metrics.RecordBroadcastDelivery("failed")
		failed++
	}

	logger.I("Broadcast run finished", "delivered", delivered, "pruned", pruned, "failed", failed)
}

// permanentFailure classifies by the transport error code: 403 means
// the chat blocked or removed the bot, 400 chat-not-found means the
// chat no longer exists. Anything else may succeed tomorrow.
func permanentFailure(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.Code == 403 {
		return true
	}
	return apiErr.Code == 400 && strings.Contains(strings.ToLower(apiErr.Message), "chat not found")
}
