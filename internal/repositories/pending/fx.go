package pending

import (
	"go.uber.org/fx"
)

var Module = fx.Module("pending_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)
