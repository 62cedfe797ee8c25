package pipelineimpl

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/panoramablock/zico-x-bot/internal/dedup"
	"github.com/panoramablock/zico-x-bot/internal/harvester"
	"github.com/panoramablock/zico-x-bot/internal/pipeline"
	"github.com/panoramablock/zico-x-bot/internal/platform"
	"github.com/panoramablock/zico-x-bot/internal/publisher"
	"github.com/panoramablock/zico-x-bot/internal/repositories/pending"
	"github.com/panoramablock/zico-x-bot/internal/scheduler"
	"github.com/panoramablock/zico-x-bot/pkg/config"
	apperrors "github.com/panoramablock/zico-x-bot/pkg/errors"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Scheduler *scheduler.Scheduler
	Harvester harvester.Client
	Publisher publisher.Client
	Dedup     dedup.Checker
	Pending   pending.Repository
	Platform  platform.Client
	Logger    logger.Logger
	Config    *config.Config
	Clock     clockwork.Clock
}

type Impl struct {
	scheduler *scheduler.Scheduler
	harvester harvester.Client
	publisher publisher.Client
	dedup     dedup.Checker
	pending   pending.Repository
	platform  platform.Client
	logger    logger.Logger
	config    *config.Config
	clock     clockwork.Clock
}

func New(opts Opts) *Impl {
	return &Impl{
		scheduler: opts.Scheduler,
		harvester: opts.Harvester,
		publisher: opts.Publisher,
		dedup:     opts.Dedup,
		pending:   opts.Pending,
		platform:  opts.Platform,
		logger:    opts.Logger.WithComponent("Pipeline"),
		config:    opts.Config,
		clock:     opts.Clock,
	}
}

var _ pipeline.Client = (*Impl)(nil)

// Run registers the recurring jobs, runs the startup one-offs, then
// drives the tick loop until ctx is cancelled. In-flight jobs are not
// awaited on shutdown.
func (p *Impl) Run(ctx context.Context) error {
	p.registerJobs()

	if p.config.Intro.Enabled {
		if err := p.withSession(p.introJob)(ctx); err != nil {
			p.logger.Error("Intro post failed", "error", err)
		}
	}

	// One immediate publication cycle before the first tick.
	if err := p.withSession(p.publishJob)(ctx); err != nil {
		p.logger.Error("Startup publish cycle failed", "error", err)
	}

	ticker := p.clock.NewTicker(p.config.Scheduler.TickInterval)
	defer ticker.Stop()
	defer p.scheduler.Release()

	p.logger.Info("Tick loop started", "interval", p.config.Scheduler.TickInterval.String())

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutdown signal observed, stopping tick loop")
			return nil
		case <-ticker.Chan():
			p.tick(ctx)
		}
	}
}

// tick runs one scheduler evaluation. Nothing a job does may take the
// loop down.
func (p *Impl) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Tick panicked, loop re-armed", "panic", r)
		}
	}()

	p.scheduler.Tick(ctx, p.clock.Now().UTC())
}

func (p *Impl) registerJobs() {
	p.scheduler.Register("harvest list posts", scheduler.MinuteOfHour(0), p.withSession(p.harvestJob))
	p.scheduler.Register("sync published posts", scheduler.MinuteOfHour(0), p.withSession(p.syncPublishedJob))

	for _, gateHour := range p.config.Scheduler.GateHours {
		name := fmt.Sprintf("publish thread %02d:30", gateHour)
		p.scheduler.Register(name, scheduler.GatedHalfHour(gateHour), p.withSession(p.publishJob))
	}
}

// withSession makes sure a valid platform session exists before the job
// body runs, authenticating afresh when the cached one is missing or
// expired. An AuthError skips the job for this cycle only.
func (p *Impl) withSession(action scheduler.Action) scheduler.Action {
	return func(ctx context.Context) error {
		if err := p.ensureSession(ctx); err != nil {
			return err
		}
		return action(ctx)
	}
}

func (p *Impl) ensureSession(ctx context.Context) error {
	path := p.config.Platform.SessionFile

	err := p.platform.LoadSession(path)
	if err == nil {
		return nil
	}
	if !apperrors.IsSessionNotFound(err) {
		return fmt.Errorf("load session: %w", err)
	}

	p.logger.Info("No usable cached session, authenticating")
	if err := p.platform.Authenticate(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	if err := p.platform.SaveSession(path); err != nil {
		p.logger.Warn("Failed to cache session", "error", err)
	}
	return nil
}

func (p *Impl) harvestJob(ctx context.Context) error {
	return p.harvester.HarvestListPosts(ctx)
}

func (p *Impl) syncPublishedJob(ctx context.Context) error {
	return p.harvester.SyncPublishedPosts(ctx)
}

// publishJob runs one publication cycle: select the newest unposted item,
// suppress duplicates, publish the thread, mark the item consumed.
func (p *Impl) publishJob(ctx context.Context) error {
	item, err := p.pending.GetLatestUnposted(ctx)
	if err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			p.logger.Info("No unposted items, nothing to publish")
			return nil
		}
		return fmt.Errorf("%w: select pending item: %v", apperrors.ErrStore, err)
	}

	dup, err := p.dedup.IsDuplicate(ctx, item.Parts)
	if err != nil {
		return err
	}
	if dup {
		// Mark it consumed anyway, or the scheduler would retry the same
		// doomed item every cycle.
		p.logger.Warn("Item duplicates already published content, marking posted", "item_id", item.ID)
		if err := p.pending.MarkPosted(ctx, item.ID); err != nil {
			return fmt.Errorf("%w: mark duplicate item posted: %v", apperrors.ErrStore, err)
		}
		return nil
	}

	lastID, err := p.publisher.Publish(ctx, item.Parts)
	if err != nil {
		// Item stays unposted; a later cycle retries it from part 0.
		return fmt.Errorf("publish item %d (last part id %q): %w", item.ID, lastID, err)
	}

	if err := p.pending.MarkPosted(ctx, item.ID); err != nil {
		return fmt.Errorf("%w: mark item posted: %v", apperrors.ErrStore, err)
	}

	p.logger.Info("Thread published", "item_id", item.ID, "parts", len(item.Parts), "last_post_id", lastID)

	// Refresh the dedup index right after publishing, like the hourly sync.
	if err := p.harvester.SyncPublishedPosts(ctx); err != nil {
		p.logger.Warn("Post-publish sync failed", "error", err)
	}
	return nil
}

// introJob posts the one-off introduction as a single-part thread, which
// also records it in the published collection.
func (p *Impl) introJob(ctx context.Context) error {
	if p.config.Intro.Text == "" {
		p.logger.Warn("Intro post enabled but no text configured, skipping")
		return nil
	}

	dup, err := p.dedup.IsDuplicate(ctx, []string{p.config.Intro.Text})
	if err != nil {
		return err
	}
	if dup {
		p.logger.Info("Intro post already published, skipping")
		return nil
	}

	postID, err := p.publisher.Publish(ctx, []string{p.config.Intro.Text})
	if err != nil {
		return fmt.Errorf("publish intro post: %w", err)
	}
	p.logger.Info("Intro post published", "post_id", postID)
	return nil
}
