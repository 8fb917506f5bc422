package profile

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/community-feed-bot/internal/domain"
	"github.com/orgball2608/community-feed-bot/internal/repositories"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("ProfileRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	query, args, err := selectByUserID(userID)
	if err != nil {
		return domain.Profile{}, repositories.ErrBadQuery
	}

	profile := domain.Profile{UserID: userID}
	err = p.pg.QueryRow(ctx, query, args...).Scan(&profile.Nickname, &profile.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrNotFound
		}
		return domain.Profile{}, err
	}

	return profile, nil
}

func selectByUserID(userID string) (string, []any, error) {
	return repositories.SqBuilder.
		Select("nickname", "image_url").
		From("users").
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
}
