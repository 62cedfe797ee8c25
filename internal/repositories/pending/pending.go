package pending

import (
	"context"
	"errors"

	"github.com/panoramablock/zico-x-bot/internal/domain"
)

var ErrNotFound = errors.New("no unposted pending item")

// Repository reads the queue of items awaiting publication. Items are
// produced by an upstream generator; this service only consumes them.
type Repository interface {
	// GetLatestUnposted returns the most recently created item that has
	// not been posted yet, or ErrNotFound.
	GetLatestUnposted(ctx context.Context) (*domain.PendingItem, error)

	// MarkPosted flips the posted flag for one item. Applied exactly once
	// per item, after a fully successful (or dedup-suppressed) publication.
	MarkPosted(ctx context.Context, id int64) error
}
