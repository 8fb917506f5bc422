package commandimpl

import (
	"context"
	"fmt"
	"strings"
)

func (c *CommandImpl) handleMe(chatID int64) {
	snap := c.Session.Snapshot()

	switch {
	case !snap.Initialized():
		c.reply(chatID, "Still starting up, try again in a moment.")
	case !snap.LoggedIn():
		c.reply(chatID, "You are not logged in. Use /login or /signup.")
	default:
		text := "Logged in as " + snap.Identity.Email
		if snap.Profile != nil && snap.Profile.Nickname != nil {
			text += fmt.Sprintf("\nNickname: %s", *snap.Profile.Nickname)
		}
		c.reply(chatID, text)
	}
}

// Failures are reported to the user by the session itself.
func (c *CommandImpl) handleLogIn(ctx context.Context, chatID int64, args string) {
	email, password := splitCredentials(args)
	if err := c.Session.LogIn(ctx, email, password); err != nil {
		c.Logger.Debug("Log in failed", "error", err)
		return
	}
	c.reply(chatID, "Logged in as "+email)
}

func (c *CommandImpl) handleSignUp(ctx context.Context, chatID int64, args string) {
	email, password := splitCredentials(args)
	if err := c.Session.SignUp(ctx, email, password); err != nil {
		c.Logger.Debug("Sign up failed", "error", err)
		return
	}
	c.reply(chatID, "Welcome! You are signed up as "+email)
}

func (c *CommandImpl) handleLogOut(ctx context.Context, chatID int64) {
	if err := c.Session.LogOut(ctx); err != nil {
		c.Logger.Debug("Log out rejected", "error", err)
		return
	}
	c.Composer.Close()
	c.reply(chatID, "You have been logged out.")
}

// splitCredentials reads "<email> <password>"; the password may contain spaces.
func splitCredentials(args string) (string, string) {
	email, password, _ := strings.Cut(strings.TrimSpace(args), " ")
	return strings.TrimSpace(email), strings.TrimSpace(password)
}
