package dedup

import (
	"context"
	"fmt"

	"github.com/panoramablock/zico-x-bot/internal/repositories/published"
	apperrors "github.com/panoramablock/zico-x-bot/pkg/errors"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
	"go.uber.org/fx"
)

// Checker suppresses re-publication of content that already went out.
// Publication is irreversible, so the check runs before any network call.
type Checker interface {
	IsDuplicate(ctx context.Context, parts []string) (bool, error)
}

type Opts struct {
	fx.In

	Published published.Repository
	Logger    logger.Logger
}

type Impl struct {
	published published.Repository
	logger    logger.Logger
}

func New(opts Opts) *Impl {
	return &Impl{
		published: opts.Published,
		logger:    opts.Logger.WithComponent("Deduplicator"),
	}
}

var _ Checker = (*Impl)(nil)

// IsDuplicate reports whether any part's text already exists among the
// published posts. Returns true on the first hit.
func (d *Impl) IsDuplicate(ctx context.Context, parts []string) (bool, error) {
	for _, part := range parts {
		exists, err := d.published.ExistsByText(ctx, part)
		if err != nil {
			return false, fmt.Errorf("%w: dedup lookup: %v", apperrors.ErrStore, err)
		}
		if exists {
			d.logger.Warn("Part already published, suppressing item", "part", truncate(part, 30))
			return true, nil
		}
	}
	return false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
