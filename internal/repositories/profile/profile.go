package profile

import (
	"context"
	"fmt"

	"github.com/orgball2608/community-feed-bot/internal/domain"
	apperrors "github.com/orgball2608/community-feed-bot/pkg/errors"
)

var ErrNotFound = fmt.Errorf("profile: %w", apperrors.ErrNotFound)

//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=mocks/mock.go
type Repository interface {
	// GetByUserID returns nickname and avatar for an identity id
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
}
