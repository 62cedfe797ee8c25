package harvested

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
		logger: logger.WithComponent("HarvestedPostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Upsert inserts or overwrites a harvested post by its platform id.
func (p *Pgx) Upsert(ctx context.Context, post domain.Post) error {
	query, args, err := repositories.SqBuilder.
		Insert("harvested_posts").
		Columns("post_id", "username", "user_image", "text", "favorite_count", "media", "created_at_raw", "created_at", "harvested_at").
		Values(post.ID, post.Username, post.UserImage, post.Text, post.FavoriteCount, post.Media, post.CreatedAtRaw, post.CreatedAt, time.Now()).
		Suffix(`ON CONFLICT (post_id) DO UPDATE SET
			username = EXCLUDED.username,
			user_image = EXCLUDED.user_image,
			text = EXCLUDED.text,
			favorite_count = EXCLUDED.favorite_count,
			media = EXCLUDED.media,
			created_at_raw = EXCLUDED.created_at_raw,
			created_at = EXCLUDED.created_at,
			harvested_at = EXCLUDED.harvested_at`).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

// GetByPostID returns one harvested post by its platform id.
func (p *Pgx) GetByPostID(ctx context.Context, postID string) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select("post_id", "username", "user_image", "text", "favorite_count", "media", "created_at_raw", "created_at").
		From("harvested_posts").
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var post domain.Post
	err = p.pg.QueryRow(ctx, query, args...).Scan(
		&post.ID, &post.Username, &post.UserImage, &post.Text,
		&post.FavoriteCount, &post.Media, &post.CreatedAtRaw, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}
