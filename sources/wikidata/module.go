package wikidata

import "go.uber.org/fx"

var Module = fx.Module("wikidata",
	fx.Provide(
		NewMapProvider,
	),
)
