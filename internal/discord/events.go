package discord

import (
	"context"
	"strings"

	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Router turns Discord gateway events into dispatcher calls.
type Router struct {
	dispatcher *cmd.Dispatcher
	log        zerolog.Logger
}

func NewRouter(d *cmd.Dispatcher, log zerolog.Logger) *Router {
	return &Router{dispatcher: d, log: log}
}

// CommandPrefix returns the prefix content was addressed with. A leading
// mention of selfID followed by a space counts as a prefix when mention
// prefixes are enabled; otherwise the configured prefix must lead.
func CommandPrefix(content, selfID string, snap *cmd.Snapshot) (string, bool) {
	if snap.MentionPrefix && selfID != "" {
		for _, mention := range []string{"<@" + selfID + "> ", "<@!" + selfID + "> "} {
			if strings.HasPrefix(content, mention) {
				return mention, true
			}
		}
	}
	if snap.Prefix != "" && strings.HasPrefix(content, snap.Prefix) {
		return snap.Prefix, true
	}
	return "", false
}

// HandleMessage dispatches m if it is addressed to the bot. It reports false
// for messages that are not commands.
func (r *Router) HandleMessage(ctx context.Context, s Session, selfID string, m *discordgo.Message) (cmd.Outcome, bool) {
	if m.Author == nil || m.Author.Bot {
		return 0, false
	}

	content := strings.TrimSpace(m.Content)
	prefix, ok := CommandPrefix(content, selfID, r.dispatcher.Settings().Load())
	if !ok {
		return 0, false
	}

	alias, args := cmd.Tokenize(content, prefix)
	return r.dispatcher.Dispatch(ctx, alias, NewMessageEvent(s, m, args)), true
}

// HandleInteraction dispatches slash commands and button clicks. Slash
// commands are acknowledged before dispatch.
func (r *Router) HandleInteraction(ctx context.Context, s Session, i *discordgo.Interaction) (cmd.Outcome, bool) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		if data.CommandType != discordgo.ChatApplicationCommand && data.CommandType != 0 {
			r.log.Debug().Str("command", data.Name).Msg("ignoring non-chat application command")
			return 0, false
		}
		ev := NewInteractionEvent(s, i)
		if err := ev.Acknowledge(); err != nil {
			r.log.Warn().Err(err).Str("command", data.Name).Msg("failed to acknowledge interaction")
		}
		return r.dispatcher.Dispatch(ctx, data.Name, ev), true

	case discordgo.InteractionMessageComponent:
		ev := NewComponentEvent(s, i)
		r.log.Debug().Str("custom_id", ev.CustomID()).Msg("processing component interaction")
		return r.dispatcher.DispatchComponent(ctx, ev), true

	default:
		r.log.Debug().Int("type", int(i.Type)).Msg("unknown interaction type")
		return 0, false
	}
}
