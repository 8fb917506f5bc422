package api

import (
	"context"
	"fmt"

	"github.com/orgball2608/community-feed-bot/internal/domain"
	apperrors "github.com/orgball2608/community-feed-bot/pkg/errors"
)

var (
	ErrNoSession          = apperrors.New("no active session")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
)

// StatusError is returned when the backend answers with an unexpected status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return apperrors.ErrUpstream
}

//go:generate go run go.uber.org/mock/mockgen -source=api.go -destination=mocks/mock.go
type Client interface {
	// Me probes the current session. ErrNoSession when the backend reports none.
	Me(ctx context.Context) (domain.Identity, error)

	// LogIn checks credentials. ErrInvalidCredentials on 401.
	LogIn(ctx context.Context, creds domain.Credentials) (domain.Identity, error)

	// SignUp registers and authenticates. ErrInvalidCredentials on 401.
	SignUp(ctx context.Context, creds domain.Credentials) (domain.Identity, error)

	// LogOut terminates the remote session.
	LogOut(ctx context.Context) error

	// CreatePost persists a post and returns the stored record.
	CreatePost(ctx context.Context, post domain.NewPost) (domain.Post, error)
}
