package commandimpl

import (
	"context"
	"errors"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpMessage = `Welcome to the community feed!

ACCOUNT:
/me - Show who is logged in.
/login <email> <password> - Log in.
/signup <email> <password> - Create an account and log in.
/logout - Log out.

POSTING:
/compose - Start a new post.
/text <content> - Set the post text (plain messages work too).
Send a photo or a PNG/JPG file to attach it.
/submit - Publish the post.
/cancel - Discard the draft.

FEED:
/feed - Show the latest posts.
/feed refresh - Reload the feed from the server.

Type /help at any time to see this guide.`

const (
	msgPrivate     = "This bot only answers its owner."
	msgSlowDown    = "Too many messages, please slow down."
	msgUnknown     = "Unknown command. Type /help to see the list of available commands."
	msgOpenFirst   = "Open the composer first with /compose."
	msgInternalErr = "Something went wrong, please try again."
)

// HandleCommand processes updates one at a time in arrival order; the compose
// flow depends on /compose being applied before the text that follows it.
func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}

			c.handleUpdate(ctx, update)
		}
	}
}

func (c *CommandImpl) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	msg := u.Message
	if msg == nil || msg.From == nil {
		return
	}

	chatID := msg.Chat.ID
	if !c.isOwner(msg.From.ID) {
		c.Logger.Warn("Message from unknown user ignored", "from", msg.From.ID)
		c.reply(chatID, msgPrivate)
		return
	}

	if !c.Limiter.Allow(msg.From.ID) {
		c.Logger.Warn("Update rate limited", "from", msg.From.ID)
		c.reply(chatID, msgSlowDown)
		return
	}

	c.Logger.Debug("Message received", "from", msg.From.UserName, "command", msg.Command())

	var err error
	switch {
	case msg.IsCommand():
		err = c.processCommand(ctx, msg)
	case len(msg.Photo) > 0 || msg.Document != nil:
		err = c.handleAttachment(ctx, msg)
	case msg.Text != "":
		c.handleText(chatID, msg.Text)
	}

	if err != nil {
		c.Logger.Error("Error processing message", "command", msg.Command(), "error", err)
		c.reply(chatID, msgInternalErr)
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, msg *tgbotapi.Message) error {
	args := msg.CommandArguments()
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "help":
		c.reply(chatID, helpMessage)
	case "me":
		c.handleMe(chatID)
	case "login":
		c.handleLogIn(ctx, chatID, args)
	case "signup":
		c.handleSignUp(ctx, chatID, args)
	case "logout":
		c.handleLogOut(ctx, chatID)
	case "compose":
		c.handleCompose(chatID)
	case "text":
		c.handleText(chatID, args)
	case "submit":
		c.handleSubmit(ctx)
	case "cancel":
		c.handleCancel(chatID)
	case "feed":
		return c.handleFeed(ctx, chatID, args)
	default:
		c.reply(chatID, msgUnknown)
	}
	return nil
}

// isOwner reports whether the sender may drive the bot. An unset owner allows anyone.
func (c *CommandImpl) isOwner(userID int64) bool {
	owner := c.Config.Telegram.User
	return owner == 0 || owner == userID
}

func (c *CommandImpl) reply(chatID int64, text string) {
	if _, err := c.Telegram.SendMessage(chatID, text); err != nil {
		c.Logger.Error("Error sending reply", "chatID", chatID, "error", err)
	}
}
