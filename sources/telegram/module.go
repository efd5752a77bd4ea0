package telegram

import (
	"context"

	"coronabot/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("telegram",
	fx.Provide(
		NewBotAPI,
		NewCodec,
		NewKeyboards,
		NewRenderer,
		NewDiplomat,
		NewHandler,
		NewPoller,
	),

	fx.Invoke(func(lc fx.Lifecycle, poller *Poller, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				poller.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				poller.Stop()
				return nil
			},
		})
	}),
)
