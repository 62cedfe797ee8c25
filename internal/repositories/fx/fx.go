package fx

import (
	"github.com/panoramablock/zico-x-bot/internal/repositories/harvested"
	"github.com/panoramablock/zico-x-bot/internal/repositories/pending"
	"github.com/panoramablock/zico-x-bot/internal/repositories/published"
	"go.uber.org/fx"
)

var Module = fx.Options(
	harvested.Module,
	pending.Module,
	published.Module,
)
