package harvested

import (
	"go.uber.org/fx"
)

var Module = fx.Module("harvested_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)
