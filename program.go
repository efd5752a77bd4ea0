package main

import (
	"context"
	"coronabot/sources/broadcast"
	"coronabot/sources/charts"
	"coronabot/sources/configuration"
	"coronabot/sources/dialog"
	"coronabot/sources/directory"
	"coronabot/sources/external"
	"coronabot/sources/features"
	"coronabot/sources/localization"
	"coronabot/sources/metrics"
	"coronabot/sources/network"
	"coronabot/sources/persistence"
	"coronabot/sources/platform"
	"coronabot/sources/repository"
	"coronabot/sources/statistics"
	"coronabot/sources/telegram"
	"coronabot/sources/throttler"
	"coronabot/sources/tracing"
	"coronabot/sources/wikidata"

	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

func main() {
	fx.New(
		tracing.Module,
		platform.Module,
		configuration.Module,
		external.Module,
		network.Module,
		persistence.Module,
		repository.Module,
		metrics.Module,
		features.Module,
		throttler.Module,
		localization.Module,
		statistics.Module,
		directory.Module,
		wikidata.Module,
		charts.Module,
		dialog.Module,
		telegram.Module,
		broadcast.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("Corona bot started successfully", "version", version, "build_time", buildTime)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("Corona bot stopped", "version", version, "build_time", buildTime)
					return nil
				},
			})
		}),
	).Run()
}
