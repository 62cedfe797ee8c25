package pending

import (
	"context"
	"errors"

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
		logger: logger.WithComponent("PendingItemRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func latestUnpostedQuery() (string, []interface{}, error) {
	return repositories.SqBuilder.
		Select("id", "parts", "posted", "created_at").
		From("pending_items").
		Where(sq.Eq{"posted": false}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
}

// GetLatestUnposted returns the newest item still awaiting publication.
func (p *Pgx) GetLatestUnposted(ctx context.Context) (*domain.PendingItem, error) {
	query, args, err := latestUnpostedQuery()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var item domain.PendingItem
	err = p.pg.QueryRow(ctx, query, args...).Scan(&item.ID, &item.Parts, &item.Posted, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// MarkPosted flips the posted flag for one item.
func (p *Pgx) MarkPosted(ctx context.Context, id int64) error {
	query, args, err := repositories.SqBuilder.
		Update("pending_items").
		Set("posted", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
