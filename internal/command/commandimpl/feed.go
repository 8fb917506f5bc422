package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/community-feed-bot/pkg/formatter"
)

const (
	feedPageSize   = 10
	feedContentMax = 200
)

func (c *CommandImpl) handleFeed(ctx context.Context, chatID int64, args string) error {
	if strings.TrimSpace(args) == "refresh" {
		if err := c.Feed.Load(ctx); err != nil {
			return fmt.Errorf("failed to reload feed: %w", err)
		}
	}

	posts := c.Feed.Items()
	if len(posts) == 0 {
		c.reply(chatID, "The feed is empty. Be the first to /compose a post!")
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Latest posts (%s total):\n", formatter.FormatNumber(len(posts)))
	for i, p := range posts {
		if i == feedPageSize {
			break
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "#%d", p.ID)
		if !p.CreatedAt.IsZero() {
			sb.WriteString(" · " + p.CreatedAt.Format("2006-01-02 15:04"))
		}
		sb.WriteString("\n" + formatter.Truncate(p.Content, feedContentMax) + "\n")
		if p.Image != nil {
			sb.WriteString(*p.Image + "\n")
		}
	}

	c.reply(chatID, sb.String())
	return nil
}
