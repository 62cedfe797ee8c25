package harvesterimpl

import (
	"context"
	"fmt"

	"github.com/panoramablock/zico-x-bot/internal/harvester"
	"github.com/panoramablock/zico-x-bot/internal/platform"
	"github.com/panoramablock/zico-x-bot/internal/repositories/harvested"
	"github.com/panoramablock/zico-x-bot/internal/repositories/published"
	"github.com/panoramablock/zico-x-bot/pkg/config"
	apperrors "github.com/panoramablock/zico-x-bot/pkg/errors"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Platform  platform.Client
	Harvested harvested.Repository
	Published published.Repository
	Logger    logger.Logger
	Config    *config.Config
}

type Impl struct {
	platform  platform.Client
	harvested harvested.Repository
	published published.Repository
	logger    logger.Logger
	config    *config.Config
}

func New(opts Opts) *Impl {
	return &Impl{
		platform:  opts.Platform,
		harvested: opts.Harvested,
		published: opts.Published,
		logger:    opts.Logger.WithComponent("Harvester"),
		config:    opts.Config,
	}
}

var _ harvester.Client = (*Impl)(nil)

// HarvestListPosts upserts the configured list feed. Re-harvesting the
// same post overwrites the stored copy, so repeated runs are idempotent.
func (h *Impl) HarvestListPosts(ctx context.Context) error {
	listID := h.config.Platform.ListID

	posts, err := h.platform.FetchListPosts(ctx, listID)
	if err != nil {
		return fmt.Errorf("harvest list posts: %w", err)
	}

	saved := 0
	for _, post := range posts {
		if post.ID == "" {
			continue
		}
		if err := h.harvested.Upsert(ctx, post); err != nil {
			h.logger.Error("Failed to save harvested post",
				"post_id", post.ID,
				"error", fmt.Errorf("%w: %v", apperrors.ErrStore, err),
			)
			continue
		}
		saved++
	}

	h.logger.Info("Harvested list posts", "list_id", listID, "fetched", len(posts), "saved", saved)
	return nil
}

// SyncPublishedPosts mirrors the bot account's own timeline into the
// published collection.
func (h *Impl) SyncPublishedPosts(ctx context.Context) error {
	userID := h.config.Platform.UserID

	posts, err := h.platform.FetchUserPosts(ctx, userID)
	if err != nil {
		return fmt.Errorf("sync published posts: %w", err)
	}

	saved := 0
	for _, post := range posts {
		if post.ID == "" {
			continue
		}
		if err := h.published.Upsert(ctx, post); err != nil {
			h.logger.Error("Failed to save published post",
				"post_id", post.ID,
				"error", fmt.Errorf("%w: %v", apperrors.ErrStore, err),
			)
			continue
		}
		saved++
	}

	h.logger.Info("Synced published posts", "user_id", userID, "fetched", len(posts), "saved", saved)
	return nil
}
