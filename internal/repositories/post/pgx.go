package post

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/community-feed-bot/internal/domain"
	"github.com/orgball2608/community-feed-bot/internal/repositories"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
)

const table = "community_post"

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// ListLatest returns every post, newest first
func (p *Pgx) ListLatest(ctx context.Context) ([]domain.Post, error) {
	query, args, err := selectLatest()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.ID, &post.CreatedAt, &post.Content, &post.Image, &post.ProfileImage, &post.UserID); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	p.logger.Debug("Loaded posts", "count", len(posts))
	return posts, nil
}

// ListImageURLs returns the image URLs referenced by stored posts
func (p *Pgx) ListImageURLs(ctx context.Context) ([]string, error) {
	query, args, err := selectImageURLs()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

func selectLatest() (string, []any, error) {
	return repositories.SqBuilder.
		Select("id", "created_at", "post_content", "image", "profile_image", "user_id").
		From(table).
		OrderBy("created_at DESC").
		ToSql()
}

func selectImageURLs() (string, []any, error) {
	return repositories.SqBuilder.
		Select("image").
		From(table).
		Where(sq.NotEq{"image": nil}).
		ToSql()
}
