package published

import (
	"go.uber.org/fx"
)

var Module = fx.Module("published_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)
