package harvested

import (
	"context"
	"errors"

	"github.com/panoramablock/zico-x-bot/internal/domain"
)

var ErrNotFound = errors.New("harvested post not found")

// Repository stores posts ingested from the platform feed. Upsert is keyed
// by the platform post id, so re-harvesting the same post overwrites.
type Repository interface {
	Upsert(ctx context.Context, post domain.Post) error
	GetByPostID(ctx context.Context, postID string) (*domain.Post, error)
}
