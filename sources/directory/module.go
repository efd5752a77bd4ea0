package directory

import "go.uber.org/fx"

var Module = fx.Module("directory",
	fx.Provide(
		NewDirectory,
	),
)
