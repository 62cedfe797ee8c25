package published

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/panoramablock/zico-x-bot/internal/domain"
	"github.com/panoramablock/zico-x-bot/internal/repositories"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PublishedPostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Upsert records a post the bot published, keyed by the platform post id.
func (p *Pgx) Upsert(ctx context.Context, post domain.Post) error {
	query, args, err := repositories.SqBuilder.
		Insert("published_posts").
		Columns("post_id", "username", "user_image", "text", "favorite_count", "media", "created_at_raw", "created_at", "recorded_at").
		Values(post.ID, post.Username, post.UserImage, post.Text, post.FavoriteCount, post.Media, post.CreatedAtRaw, post.CreatedAt, time.Now()).
		Suffix(`ON CONFLICT (post_id) DO UPDATE SET
			username = EXCLUDED.username,
			user_image = EXCLUDED.user_image,
			text = EXCLUDED.text,
			favorite_count = EXCLUDED.favorite_count,
			media = EXCLUDED.media,
			created_at_raw = EXCLUDED.created_at_raw,
			created_at = EXCLUDED.created_at,
			recorded_at = EXCLUDED.recorded_at`).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

// ExistsByText reports whether a post with exactly this text was already
// published.
func (p *Pgx) ExistsByText(ctx context.Context, text string) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From("published_posts").
		Where(sq.Eq{"text": text}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var one int
	err = p.pg.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
