package published

import (
	"context"
	"errors"

	"github.com/panoramablock/zico-x-bot/internal/domain"
)

var ErrNotFound = errors.New("published post not found")

// Repository is the audit log of everything the bot actually sent, and
// the dedup index queried before spending a publish attempt. Rows are
// only ever inserted or overwritten, never deleted.
type Repository interface {
	Upsert(ctx context.Context, post domain.Post) error
	ExistsByText(ctx context.Context, text string) (bool, error)
}
