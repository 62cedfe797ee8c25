package platform

import (
	"context"

	"github.com/panoramablock/zico-x-bot/internal/domain"
)

// Client is the narrow surface this service needs from the platform.
// Authenticate verifies credentials and establishes a fresh session;
// LoadSession/SaveSession round-trip the session cache file so restarts
// do not re-authenticate every run.
type Client interface {
	Authenticate(ctx context.Context) error
	LoadSession(path string) error
	SaveSession(path string) error

	FetchListPosts(ctx context.Context, listID int64) ([]domain.Post, error)
	FetchUserPosts(ctx context.Context, userID int64) ([]domain.Post, error)
	CreatePost(ctx context.Context, text string, replyToID string) (*domain.Post, error)
	FetchPostByID(ctx context.Context, id string) (*domain.Post, error)
}
