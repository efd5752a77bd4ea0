package external

import (
	"context"

	"coronabot/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("external",
	fx.Provide(
		NewOutsiders,
	),

	fx.Invoke(func(lc fx.Lifecycle, outsiders *Outsiders, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go outsiders.startup()
				go outsiders.metrics()
				log.I("Outsider servers started")
				return nil
			},
			OnStop: func(ctx context.Context) error {
				outsiders.ss.Shutdown(ctx)
				outsiders.ms.Shutdown(ctx)
				log.I("Outsider servers stopped")
				return nil
			},
		})
	}),
)
