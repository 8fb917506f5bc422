package commandimpl

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/community-feed-bot/internal/domain"
)

func (c *CommandImpl) handleCompose(chatID int64) {
	c.Composer.Open()
	c.reply(chatID, "New post started. Send the text with /text or as a plain message, attach a photo if you like, then /submit.")
}

func (c *CommandImpl) handleCancel(chatID int64) {
	if !c.Composer.IsOpen() {
		c.reply(chatID, "There is no draft to discard.")
		return
	}
	c.Composer.Close()
	c.reply(chatID, "Draft discarded.")
}

func (c *CommandImpl) handleText(chatID int64, text string) {
	if !c.Composer.SetText(text) {
		c.reply(chatID, msgOpenFirst)
		return
	}
	if strings.TrimSpace(text) != "" {
		c.reply(chatID, "Text saved.")
	}
}

// handleSubmit relies on the composer to report the outcome.
func (c *CommandImpl) handleSubmit(ctx context.Context) {
	if _, err := c.Composer.Submit(ctx); err != nil {
		c.Logger.Debug("Submit failed", "error", err)
	}
}

// handleAttachment turns a photo or document into the draft image. Telegram
// re-encodes photos as JPEG; documents keep their declared type.
func (c *CommandImpl) handleAttachment(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	if !c.Composer.IsOpen() {
		c.reply(chatID, msgOpenFirst)
		return nil
	}

	var img domain.Image
	var fileID string
	if len(msg.Photo) > 0 {
		largest := msg.Photo[len(msg.Photo)-1]
		fileID = largest.FileID
		img = domain.Image{Name: largest.FileUniqueID + ".jpg", ContentType: "image/jpeg"}
	} else {
		fileID = msg.Document.FileID
		img = domain.Image{Name: msg.Document.FileName, ContentType: msg.Document.MimeType}
		if img.Name == "" {
			img.Name = msg.Document.FileUniqueID
		}
	}

	data, err := c.Telegram.DownloadFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to download attachment: %w", err)
	}
	img.Data = data

	if _, ok := c.Composer.SelectImage(img); !ok {
		c.reply(chatID, msgOpenFirst)
		return nil
	}
	if msg.Caption != "" {
		c.Composer.SetText(msg.Caption)
	}

	c.reply(chatID, fmt.Sprintf("Image %s attached.", img.Name))
	return nil
}
