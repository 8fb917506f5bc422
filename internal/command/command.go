package command

import "context"

// Client drives the bot conversation until ctx is cancelled.
type Client interface {
	HandleCommand(ctx context.Context) error
}
