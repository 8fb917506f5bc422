package post

import (
	"context"

	"github.com/orgball2608/community-feed-bot/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	// ListLatest returns every post, newest first
	ListLatest(ctx context.Context) ([]domain.Post, error)

	// ListImageURLs returns the image URLs referenced by stored posts
	ListImageURLs(ctx context.Context) ([]string, error)
}
