package publisherimpl

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panoramablock/zico-x-bot/internal/domain"
	"github.com/panoramablock/zico-x-bot/internal/platform"
	"github.com/panoramablock/zico-x-bot/internal/publisher"
	"github.com/panoramablock/zico-x-bot/internal/repositories/published"
	"github.com/panoramablock/zico-x-bot/pkg/config"
	apperrors "github.com/panoramablock/zico-x-bot/pkg/errors"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
	"github.com/panoramablock/zico-x-bot/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Platform  platform.Client
	Published published.Repository
	Logger    logger.Logger
	Config    *config.Config
	Clock     clockwork.Clock
}

type Impl struct {
	platform  platform.Client
	published published.Repository
	logger    logger.Logger
	config    *config.Config
	clock     clockwork.Clock
}

func New(opts Opts) *Impl {
	return &Impl{
		platform:  opts.Platform,
		published: opts.Published,
		logger:    opts.Logger.WithComponent("ThreadPublisher"),
		config:    opts.Config,
		clock:     opts.Clock,
	}
}

var _ publisher.Client = (*Impl)(nil)

// Publish sends parts in order, each one (after the first) as a reply to
// the previous part's post. Every part gets up to MaxAttempts tries with
// a fixed backoff; once a part exhausts its attempts the rest of the
// thread is abandoned. Parts already sent stay up.
func (p *Impl) Publish(ctx context.Context, parts []string) (string, error) {
	lastID := ""

	for idx, part := range parts {
		created, err := p.publishPart(ctx, part, lastID, idx, len(parts))
		if err != nil {
			return lastID, fmt.Errorf("%w: part %d/%d: %v", apperrors.ErrExhaustedRetries, idx+1, len(parts), err)
		}

		// Record what went out before continuing the chain. A store
		// failure here is logged, not fatal: the post is already on the
		// platform and cannot be taken back.
		if err := p.published.Upsert(ctx, *created); err != nil {
			p.logger.Error("Failed to record published post",
				"post_id", created.ID,
				"error", fmt.Errorf("%w: %v", apperrors.ErrStore, err),
			)
		}

		lastID = created.ID

		if idx < len(parts)-1 {
			p.humanPause(ctx)
		}
	}

	return lastID, nil
}

func (p *Impl) publishPart(ctx context.Context, text, replyTo string, idx, total int) (*domain.Post, error) {
	var created *domain.Post

	attempt := func() error {
		post, err := p.platform.CreatePost(ctx, text, replyTo)
		if err != nil {
			return err
		}
		if post == nil || post.ID == "" {
			return fmt.Errorf("%w: platform returned no post id", apperrors.ErrTransientPublish)
		}
		created = post
		return nil
	}

	p.logger.Info("Publishing thread part", "part", idx+1, "total", total, "reply_to", replyTo)

	err := retry.Do(ctx, p.logger, "create post", attempt,
		retry.FixedConfig(p.config.Publisher.MaxAttempts, p.config.Publisher.RetryBackoff))
	if err != nil {
		return nil, err
	}
	return created, nil
}

// humanPause sleeps a few seconds, uniformly random within the configured
// range, so consecutive parts don't land with machine-like timing.
func (p *Impl) humanPause(ctx context.Context) {
	d := p.config.Publisher.PauseMin
	if span := p.config.Publisher.PauseMax - p.config.Publisher.PauseMin; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	if d <= 0 {
		return
	}

	p.logger.Debug("Pausing before next part", "delay", d.Round(time.Millisecond).String())
	select {
	case <-p.clock.After(d):
	case <-ctx.Done():
	}
}
