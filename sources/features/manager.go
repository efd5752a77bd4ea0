package features

import (
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/tracing"

	"github.com/Unleash/unleash-client-go/v4"
)

const (
	FeatureInlineQueries = "bot/inline-queries"
	FeatureVaccinations  = "bot/vaccinations"
)

type FeatureManager struct {
	client *unleash.Client
	log    *tracing.Logger
}

func NewFeatureManager(config *configuration.Config, log *tracing.Logger) (*FeatureManager, error) {
	client, err := unleash.NewClient(
		unleash.WithUrl(config.Features.UnleashAPIURL),
		unleash.WithAppName(config.Features.UnleashAppName),
		unleash.WithInstanceId(config.Features.UnleashInstanceID),
		unleash.WithRefreshInterval(time.Duration(config.Features.RefreshInterval)*time.Second),
		unleash.WithListener(&unleashListener{log: log}),
	)

	if err != nil {
		log.E("Failed to initialize Unleash client", tracing.InnerError, err)
		return nil, err
	}

	log.I("Unleash client initialized successfully",
		"api_url", config.Features.UnleashAPIURL,
		"app_name", config.Features.UnleashAppName,
	)

	return &FeatureManager{client: client, log: log}, nil
}

func (f *FeatureManager) IsEnabledDefault(featureName string, defaultValue bool) bool {
	return f.client.IsEnabled(featureName, unleash.WithFallback(defaultValue))
}

func (f *FeatureManager) Close() error {
	f.log.I("Closing Unleash client")
	f.client.Close()
	return nil
}

type unleashListener struct {
	log *tracing.Logger
}

func (l *unleashListener) OnReady() {
	l.log.I("Unleash client ready")
}

func (l *unleashListener) OnError(err error) {
	l.log.E("Unleash client error", tracing.InnerError, err)
}

func (l *unleashListener) OnWarning(warning error) {
	l.log.W("Unleash client warning", tracing.InnerError, warning)
}

func (l *unleashListener) OnCount(name string, enabled bool) {
}

func (l *unleashListener) OnSent(payload unleash.MetricsData) {
}

func (l *unleashListener) OnRegistered(payload unleash.ClientData) {
	l.log.I("Unleash client registered", "instance_id", payload.InstanceID)
}
