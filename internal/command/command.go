package command

import "context"

type Client interface {
	// HandleCommand consumes Telegram updates until ctx is done or the update
	// channel closes.
	HandleCommand(ctx context.Context) error
}
