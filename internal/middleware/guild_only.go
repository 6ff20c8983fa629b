package middleware

import (
	"context"

	"github.com/keshon/commandframe/pkg/cmd"
)

const msgGuildOnly = "This command can only be used in a server."

// WithGuildOnly wraps a command to enforce guild-only access
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, e cmd.Event) error {
			if e.GuildID() == "" {
				return e.Reply(cmd.Text(msgGuildOnly))
			}
			return c.Run(ctx, e)
		})
	}
}
