package charts

import "go.uber.org/fx"

var Module = fx.Module("charts",
	fx.Provide(
		NewRenderer,
	),
)
