package harvesterimpl

import (
	"context"
	"errors"
	"testing"

	"github.com/panoramablock/zico-x-bot/internal/domain"
	"github.com/panoramablock/zico-x-bot/pkg/config"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
)

type fakePlatform struct {
	listPosts []domain.Post
	userPosts []domain.Post
	err       error
}

func (f *fakePlatform) Authenticate(ctx context.Context) error { return nil }
func (f *fakePlatform) LoadSession(path string) error          { return nil }
func (f *fakePlatform) SaveSession(path string) error          { return nil }

func (f *fakePlatform) FetchListPosts(ctx context.Context, listID int64) ([]domain.Post, error) {
	return f.listPosts, f.err
}

func (f *fakePlatform) FetchUserPosts(ctx context.Context, userID int64) ([]domain.Post, error) {
	return f.userPosts, f.err
}

func (f *fakePlatform) CreatePost(ctx context.Context, text string, replyToID string) (*domain.Post, error) {
	return nil, nil
}

func (f *fakePlatform) FetchPostByID(ctx context.Context, id string) (*domain.Post, error) {
	return nil, nil
}

type fakePostRepo struct {
	upserts map[string]domain.Post
	err     error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{upserts: make(map[string]domain.Post)}
}

func (f *fakePostRepo) Upsert(ctx context.Context, post domain.Post) error {
	if f.err != nil {
		return f.err
	}
	f.upserts[post.ID] = post
	return nil
}

func (f *fakePostRepo) GetByPostID(ctx context.Context, postID string) (*domain.Post, error) {
	p, ok := f.upserts[postID]
	if !ok {
		return nil, errors.New("not found")
	}
	return &p, nil
}

func (f *fakePostRepo) ExistsByText(ctx context.Context, text string) (bool, error) {
	for _, p := range f.upserts {
		if p.Text == text {
			return true, nil
		}
	}
	return false, nil
}

func newHarvester(pf *fakePlatform, harvestedRepo, publishedRepo *fakePostRepo) *Impl {
	cfg := &config.Config{}
	cfg.Platform.ListID = 7
	cfg.Platform.UserID = 9
	return New(Opts{
		Platform:  pf,
		Harvested: harvestedRepo,
		Published: publishedRepo,
		Logger:    logger.NewNop(),
		Config:    cfg,
	})
}

func TestHarvestListPostsUpsertsAll(t *testing.T) {
	pf := &fakePlatform{listPosts: []domain.Post{
		{ID: "1", Text: "a"},
		{ID: "2", Text: "b"},
		{ID: "", Text: "skipped, no id"},
	}}
	harvestedRepo := newFakePostRepo()
	h := newHarvester(pf, harvestedRepo, newFakePostRepo())

	if err := h.HarvestListPosts(context.Background()); err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if len(harvestedRepo.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(harvestedRepo.upserts))
	}
}

func TestHarvestIsIdempotent(t *testing.T) {
	pf := &fakePlatform{listPosts: []domain.Post{{ID: "1", Text: "old"}}}
	harvestedRepo := newFakePostRepo()
	h := newHarvester(pf, harvestedRepo, newFakePostRepo())

	if err := h.HarvestListPosts(context.Background()); err != nil {
		t.Fatal(err)
	}
	pf.listPosts = []domain.Post{{ID: "1", Text: "new"}}
	if err := h.HarvestListPosts(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(harvestedRepo.upserts) != 1 {
		t.Fatalf("re-harvesting the same id must not duplicate, got %d rows", len(harvestedRepo.upserts))
	}
	if harvestedRepo.upserts["1"].Text != "new" {
		t.Fatal("last write must win")
	}
}

func TestHarvestPropagatesFetchError(t *testing.T) {
	pf := &fakePlatform{err: errors.New("network down")}
	h := newHarvester(pf, newFakePostRepo(), newFakePostRepo())

	if err := h.HarvestListPosts(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestSyncPublishedPosts(t *testing.T) {
	pf := &fakePlatform{userPosts: []domain.Post{
		{ID: "10", Text: "sent earlier"},
	}}
	publishedRepo := newFakePostRepo()
	h := newHarvester(pf, newFakePostRepo(), publishedRepo)

	if err := h.SyncPublishedPosts(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(publishedRepo.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(publishedRepo.upserts))
	}
}

func TestSyncSurvivesStoreErrors(t *testing.T) {
	pf := &fakePlatform{userPosts: []domain.Post{{ID: "10"}, {ID: "11"}}}
	publishedRepo := newFakePostRepo()
	publishedRepo.err = errors.New("store down")
	h := newHarvester(pf, newFakePostRepo(), publishedRepo)

	// Per-post store failures are logged, the job itself succeeds.
	if err := h.SyncPublishedPosts(context.Background()); err != nil {
		t.Fatalf("store errors must not fail the job: %v", err)
	}
}
