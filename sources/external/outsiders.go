package external

import (
	"fmt"
	"net/http"

	"coronabot/sources/configuration"
	"coronabot/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outsiders hosts the sidecar HTTP surfaces: liveness and metrics.
type Outsiders struct {
	log    *tracing.Logger
	config *configuration.Config
	ss     *http.Server
	ms     *http.Server
}

func NewOutsiders(log *tracing.Logger, config *configuration.Config) *Outsiders {
	prometheus.DefaultRegisterer.MustRegister(
		collectors.NewBuildInfoCollector(),
	)

	startupMux := http.NewServeMux()
	startupMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		startuphandler(log, w, r)
	})

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	return &Outsiders{
		log:    log,
		config: config,
		ss: &http.Server{
			Addr:    fmt.Sprintf(":%d", config.Service.StartupPort),
			Handler: startupMux,
		},
		ms: &http.Server{
			Addr:    fmt.Sprintf(":%d", config.Service.MetricsPort),
			Handler: metricsMux,
		},
	}
}

func (x *Outsiders) startup() {
	x.log.I("Startup server is starting", tracing.OutsiderKind, "startup", "port", x.config.Service.StartupPort)

	if err := x.ss.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start startup server", tracing.OutsiderKind, "startup", tracing.InnerError, err)
	}
}

func (x *Outsiders) metrics() {
	x.log.I("Metrics server is starting", tracing.OutsiderKind, "metrics", "port", x.config.Service.MetricsPort)

	if err := x.ms.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		x.log.F("Failed to start metrics server", tracing.OutsiderKind, "metrics", tracing.InnerError, err)
	}
}

func startuphandler(log *tracing.Logger, w http.ResponseWriter, r *http.Request) {
	log.I("Outsider service got a ping", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"coronabot"}`))
}
