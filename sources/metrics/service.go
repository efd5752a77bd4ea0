package metrics

import (
	"coronabot/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	messagesHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coronabot_messages_handled_total",
			Help: "Total number of inbound events handled by the poller",
		},
		[]string{"kind", "status"},
	)

	commandsUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coronabot_commands_used_total",
			Help: "Total number of commands used",
		},
		[]string{"command"},
	)

	callbacksHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coronabot_callbacks_handled_total",
			Help: "Total number of callback presses handled",
		},
		[]string{"action"},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coronabot_messages_sent_total",
			Help: "Total number of messages sent by the diplomat",
		},
		[]string{"status"},
	)

	upstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coronabot_upstream_failures_total",
			Help: "Total number of failed upstream data fetches",
		},
		[]string{"upstream"},
	)

	broadcastDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coronabot_broadcast_deliveries_total",
			Help: "Total number of broadcast delivery attempts",
		},
		[]string{"outcome"},
	)

	eventProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coronabot_event_processing_duration_seconds",
			Help:    "Total duration of inbound event processing",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(messagesHandled)
	prometheus.MustRegister(commandsUsed)
	prometheus.MustRegister(callbacksHandled)
	prometheus.MustRegister(messagesSent)
	prometheus.MustRegister(upstreamFailures)
	prometheus.MustRegister(broadcastDeliveries)
	prometheus.MustRegister(eventProcessingDuration)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{
		log: log,
	}
}

func (s *MetricsService) RecordEventHandled(kind, status string) {
	messagesHandled.WithLabelValues(kind, status).Inc()
}

func (s *MetricsService) RecordCommandUsed(command string) {
	commandsUsed.WithLabelValues(command).Inc()
}

func (s *MetricsService) RecordCallbackHandled(action string) {
	callbacksHandled.WithLabelValues(action).Inc()
}

func (s *MetricsService) RecordMessageSent(status string) {
	messagesSent.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordUpstreamFailure(upstream string) {
	upstreamFailures.WithLabelValues(upstream).Inc()
}

func (s *MetricsService) RecordBroadcastDelivery(outcome string) {
	broadcastDeliveries.WithLabelValues(outcome).Inc()
}

func (s *MetricsService) ObserveEventProcessing(seconds float64) {
	eventProcessingDuration.Observe(seconds)
}
