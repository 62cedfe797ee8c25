package pipelineimpl

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panoramablock/zico-x-bot/internal/domain"
	"github.com/panoramablock/zico-x-bot/internal/repositories/pending"
	"github.com/panoramablock/zico-x-bot/internal/scheduler"
	"github.com/panoramablock/zico-x-bot/pkg/config"
	apperrors "github.com/panoramablock/zico-x-bot/pkg/errors"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
)

type fakePlatform struct {
	sessionMissing bool
	authErr        error
	authCalls      int
	saveCalls      int
}

func (f *fakePlatform) Authenticate(ctx context.Context) error {
	f.authCalls++
	return f.authErr
}

func (f *fakePlatform) LoadSession(path string) error {
	if f.sessionMissing {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

func (f *fakePlatform) SaveSession(path string) error {
	f.saveCalls++
	return nil
}

func (f *fakePlatform) FetchListPosts(ctx context.Context, listID int64) ([]domain.Post, error) {
	return nil, nil
}

func (f *fakePlatform) FetchUserPosts(ctx context.Context, userID int64) ([]domain.Post, error) {
	return nil, nil
}

func (f *fakePlatform) CreatePost(ctx context.Context, text string, replyToID string) (*domain.Post, error) {
	return nil, nil
}

func (f *fakePlatform) FetchPostByID(ctx context.Context, id string) (*domain.Post, error) {
	return nil, nil
}

type fakeHarvester struct {
	harvests atomic.Int32
	syncs    atomic.Int32
}

func (f *fakeHarvester) HarvestListPosts(ctx context.Context) error {
	f.harvests.Add(1)
	return nil
}

func (f *fakeHarvester) SyncPublishedPosts(ctx context.Context) error {
	f.syncs.Add(1)
	return nil
}

type fakePublisher struct {
	published [][]string
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, parts []string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.published = append(f.published, parts)
	return "last-id", nil
}

type fakeDedup struct {
	dup bool
	err error
}

func (f *fakeDedup) IsDuplicate(ctx context.Context, parts []string) (bool, error) {
	return f.dup, f.err
}

type fakePending struct {
	item        *domain.PendingItem
	markedIDs   []int64
	markPostedE error
}

func (f *fakePending) GetLatestUnposted(ctx context.Context) (*domain.PendingItem, error) {
	if f.item == nil || f.item.Posted {
		return nil, pending.ErrNotFound
	}
	return f.item, nil
}

func (f *fakePending) MarkPosted(ctx context.Context, id int64) error {
	if f.markPostedE != nil {
		return f.markPostedE
	}
	f.markedIDs = append(f.markedIDs, id)
	if f.item != nil && f.item.ID == id {
		f.item.Posted = true
	}
	return nil
}

type fixture struct {
	impl      *Impl
	platform  *fakePlatform
	harvester *fakeHarvester
	publisher *fakePublisher
	dedup     *fakeDedup
	pending   *fakePending
	clock     *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Scheduler.TickInterval = 30 * time.Second
	cfg.Scheduler.GateHours = []int{6, 12, 18, 22}
	cfg.Platform.SessionFile = "session.json"

	sched, err := scheduler.New(logger.NewNop(), 4)
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		platform:  &fakePlatform{},
		harvester: &fakeHarvester{},
		publisher: &fakePublisher{},
		dedup:     &fakeDedup{},
		pending:   &fakePending{},
		clock:     clockwork.NewFakeClockAt(time.Date(2025, time.March, 10, 9, 59, 30, 0, time.UTC)),
	}
	f.impl = New(Opts{
		Scheduler: sched,
		Harvester: f.harvester,
		Publisher: f.publisher,
		Dedup:     f.dedup,
		Pending:   f.pending,
		Platform:  f.platform,
		Logger:    logger.NewNop(),
		Config:    cfg,
		Clock:     f.clock,
	})
	return f
}

func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPublishJobEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.pending.item = &domain.PendingItem{ID: 7, Parts: []string{"hello", "world"}}

	if err := f.impl.publishJob(context.Background()); err != nil {
		t.Fatalf("publish job: %v", err)
	}

	if len(f.publisher.published) != 1 {
		t.Fatalf("expected one published thread, got %d", len(f.publisher.published))
	}
	if len(f.pending.markedIDs) != 1 || f.pending.markedIDs[0] != 7 {
		t.Fatalf("expected item 7 marked posted exactly once, got %v", f.pending.markedIDs)
	}
	if f.harvester.syncs.Load() != 1 {
		t.Fatal("expected a post-publish sync of the published collection")
	}

	// The item is consumed: a second cycle publishes nothing.
	if err := f.impl.publishJob(context.Background()); err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if len(f.publisher.published) != 1 {
		t.Fatal("consumed item must never be re-selected")
	}
}

func TestPublishJobSuppressesDuplicates(t *testing.T) {
	f := newFixture(t)
	f.pending.item = &domain.PendingItem{ID: 3, Parts: []string{"A", "B"}}
	f.dedup.dup = true

	if err := f.impl.publishJob(context.Background()); err != nil {
		t.Fatalf("publish job: %v", err)
	}

	if len(f.publisher.published) != 0 {
		t.Fatal("duplicate item must not reach the publisher")
	}
	if len(f.pending.markedIDs) != 1 || f.pending.markedIDs[0] != 3 {
		t.Fatalf("duplicate item must still be marked posted, got %v", f.pending.markedIDs)
	}
}

func TestPublishJobLeavesItemOnFailure(t *testing.T) {
	f := newFixture(t)
	f.pending.item = &domain.PendingItem{ID: 5, Parts: []string{"p0", "p1"}}
	f.publisher.err = apperrors.ErrExhaustedRetries

	err := f.impl.publishJob(context.Background())
	if !apperrors.IsExhaustedRetries(err) {
		t.Fatalf("expected exhausted-retries, got %v", err)
	}
	if len(f.pending.markedIDs) != 0 {
		t.Fatal("failed item must stay unposted for a later retry")
	}
}

func TestPublishJobNoPendingItems(t *testing.T) {
	f := newFixture(t)

	if err := f.impl.publishJob(context.Background()); err != nil {
		t.Fatalf("empty queue is not an error: %v", err)
	}
	if len(f.publisher.published) != 0 {
		t.Fatal("nothing should be published")
	}
}

func TestEnsureSessionAuthenticatesWhenCacheMissing(t *testing.T) {
	f := newFixture(t)
	f.platform.sessionMissing = true

	if err := f.impl.ensureSession(context.Background()); err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if f.platform.authCalls != 1 {
		t.Fatalf("expected one authenticate call, got %d", f.platform.authCalls)
	}
	if f.platform.saveCalls != 1 {
		t.Fatalf("expected the fresh session to be cached, got %d saves", f.platform.saveCalls)
	}
}

func TestEnsureSessionSkipsAuthWhenCached(t *testing.T) {
	f := newFixture(t)

	if err := f.impl.ensureSession(context.Background()); err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if f.platform.authCalls != 0 {
		t.Fatal("cached session must not trigger authentication")
	}
}

func TestWithSessionAuthFailureSkipsJob(t *testing.T) {
	f := newFixture(t)
	f.platform.sessionMissing = true
	f.platform.authErr = apperrors.ErrAuth

	ran := false
	action := f.impl.withSession(func(ctx context.Context) error {
		ran = true
		return nil
	})

	err := action(context.Background())
	if !apperrors.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if ran {
		t.Fatal("job body must not run without a session")
	}
}

func TestRunTickLoopFiresHourlyJobsAndStops(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.impl.Run(ctx) }()

	// Wait for the ticker, then step onto the top of the hour.
	f.clock.BlockUntil(1)
	f.clock.Advance(30 * time.Second)

	waitFor(t, time.Second, func() bool { return f.harvester.harvests.Load() == 1 })
	waitFor(t, time.Second, func() bool { return f.harvester.syncs.Load() == 1 })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("clean shutdown expected, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
