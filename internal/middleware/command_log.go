package middleware

import (
	"context"
	"time"

	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/rs/zerolog"
)

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger(log zerolog.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, e cmd.Event) error {
			start := time.Now()
			err := c.Run(ctx, e)

			author := e.Author()
			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev.Str("command", cmd.AliasFrom(ctx)).
				Str("origin", e.Origin().String()).
				Str("guild", e.GuildID()).
				Str("channel", e.ChannelID()).
				Str("user", author.ID).
				Str("username", author.Username).
				Int("args", len(e.Arguments())).
				Dur("took", time.Since(start)).
				Msg("command executed")
			return err
		})
	}
}
