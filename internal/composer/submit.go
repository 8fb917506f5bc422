package composer

import (
	"context"
	"fmt"

	"github.com/orgball2608/community-feed-bot/internal/domain"
	"github.com/orgball2608/community-feed-bot/internal/storage"
	apperrors "github.com/orgball2608/community-feed-bot/pkg/errors"
	"github.com/orgball2608/community-feed-bot/pkg/formatter"
)

const (
	msgClosed       = "Open the composer first with /compose."
	msgNotLoggedIn  = "Please log in to post."
	msgEmptyContent = "Write something before posting."
	msgBusy         = "Your post is still being submitted."
	msgImageType    = "Only PNG and JPG/JPEG images can be uploaded."
	msgUploadFailed = "The image could not be uploaded, your post was not published."
	msgCreateFailed = "The post could not be published, please try again."
	msgPublished    = "Your post has been published!"
)

// Submit validates the draft, uploads its image if any and creates the post.
// Any failure leaves the dialog open with the draft untouched. A failed create
// after a successful upload leaves the uploaded object in place.
func (c *Composer) Submit(ctx context.Context) (domain.Post, error) {
	draft, generation, open := c.snapshot()
	identity, err := c.guard(draft, open)
	if err != nil {
		return domain.Post{}, err
	}

	if !c.submitting.CompareAndSwap(false, true) {
		c.notifier.Alert(msgBusy)
		return domain.Post{}, apperrors.Wrap(apperrors.ErrBusy, msgBusy)
	}
	defer c.submitting.Store(false)

	if err := c.validate(draft.Image); err != nil {
		return domain.Post{}, err
	}

	imageURL, err := c.upload(ctx, draft.Image)
	if err != nil {
		return domain.Post{}, err
	}

	req := domain.NewPost{
		Content: draft.Content,
		Image:   imageURL,
		UserID:  identity.ID,
	}
	if p, ok := c.session.Profile(); ok {
		req.ProfileImage = p.ImageURL
	}

	post, err := c.api.CreatePost(ctx, req)
	if err != nil {
		c.logger.Error("Error creating post", "user_id", identity.ID, "image_uploaded", imageURL != nil, "error", err)
		c.notifier.Alert(msgCreateFailed)
		return domain.Post{}, apperrors.WrapWithCode(err, apperrors.CodeCreateFailed, msgCreateFailed)
	}

	c.feed.Prepend(post)
	if !c.finish(generation) {
		c.logger.Debug("Composer changed during submit, leaving it as is", "post_id", post.ID)
	}
	c.notifier.Info(msgPublished)
	c.logger.Info("Post published", "post_id", post.ID, "user_id", identity.ID)
	return post, nil
}

// guard returns the identity the post will be attributed to.
func (c *Composer) guard(draft domain.Draft, open bool) (domain.Identity, error) {
	var msg string
	var cause error
	identity, loggedIn := c.session.Identity()
	switch {
	case !open:
		msg, cause = msgClosed, apperrors.ErrValidation
	case !loggedIn:
		msg, cause = msgNotLoggedIn, apperrors.ErrNotAuthenticated
	case draft.Content == "":
		c.notifier.Alert(msgEmptyContent)
		return domain.Identity{}, apperrors.WrapWithCode(apperrors.ErrValidation, apperrors.CodeEmptyContent, msgEmptyContent)
	default:
		return identity, nil
	}

	c.notifier.Alert(msg)
	return domain.Identity{}, apperrors.Wrap(cause, msg)
}

func (c *Composer) validate(img *domain.Image) error {
	if img == nil {
		return nil
	}

	if img.Size() > c.maxImage {
		msg := fmt.Sprintf("Images cannot exceed %s.", formatter.FormatSize(c.maxImage))
		c.notifier.Alert(msg)
		return apperrors.WrapWithCode(apperrors.ErrValidation, apperrors.CodeImageTooLarge, msg)
	}

	if !allowedImageTypes[img.ContentType] {
		c.notifier.Alert(msgImageType)
		return apperrors.WrapWithCode(apperrors.ErrValidation, apperrors.CodeImageType, msgImageType)
	}

	return nil
}

func (c *Composer) upload(ctx context.Context, img *domain.Image) (*string, error) {
	if img == nil {
		return nil, nil
	}

	key := storage.ObjectKey(img.Name)
	if err := c.storage.Upload(ctx, key, img.Data, img.ContentType); err != nil {
		c.logger.Error("Error uploading image", "key", key, "error", err)
		c.notifier.Alert(msgUploadFailed)
		return nil, apperrors.WrapWithCode(fmt.Errorf("%w: %w", apperrors.ErrUpstream, err), apperrors.CodeUploadFailed, msgUploadFailed)
	}

	url := c.storage.PublicURL(key)
	return &url, nil
}
