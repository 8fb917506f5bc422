package apiimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/orgball2608/community-feed-bot/internal/domain"
	apperrors "github.com/orgball2608/community-feed-bot/pkg/errors"
)

// CreatePost sends the post and returns the first record of the backend's reply.
func (a *APIImpl) CreatePost(ctx context.Context, post domain.NewPost) (domain.Post, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return domain.Post{}, fmt.Errorf("%s: encode: %w", postPath, err)
	}

	resp, err := a.do(ctx, http.MethodPost, postPath, body)
	if err != nil {
		return domain.Post{}, err
	}
	defer safeClose(resp.Body, a)

	if err := checkResp(resp, postPath); err != nil {
		return domain.Post{}, err
	}

	var records []domain.Post
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return domain.Post{}, fmt.Errorf("%s: decode: %w: %w", postPath, apperrors.ErrUpstream, err)
	}
	if len(records) == 0 {
		return domain.Post{}, fmt.Errorf("%s: empty reply: %w", postPath, apperrors.ErrUpstream)
	}

	a.Logger.Info("Post created", "post_id", records[0].ID, "user_id", records[0].UserID)
	return records[0], nil
}
