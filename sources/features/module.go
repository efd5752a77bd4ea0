package features

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("features",
	fx.Provide(
		NewFeatureManager,
	),

	fx.Invoke(func(lc fx.Lifecycle, manager *FeatureManager) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return manager.Close()
			},
		})
	}),
)
