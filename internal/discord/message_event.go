package discord

import (
	"sync/atomic"

	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// MessageEvent is a command typed into a channel.
type MessageEvent struct {
	session Session
	msg     *discordgo.Message
	args    []cmd.Argument
	first   atomic.Pointer[discordgo.Message]
}

var _ cmd.Event = (*MessageEvent)(nil)

// NewMessageEvent wraps m; tokens are the positional arguments after the alias.
func NewMessageEvent(s Session, m *discordgo.Message, tokens []string) *MessageEvent {
	e := &MessageEvent{session: s, msg: m}
	for _, t := range tokens {
		e.args = append(e.args, cmd.TextArgument(t))
	}
	return e
}

func (e *MessageEvent) Origin() cmd.Origin { return cmd.OriginText }
func (e *MessageEvent) ID() string         { return e.msg.ID }
func (e *MessageEvent) GuildID() string    { return e.msg.GuildID }
func (e *MessageEvent) ChannelID() string  { return e.msg.ChannelID }

// Message returns the message that triggered the command.
func (e *MessageEvent) Message() *discordgo.Message { return e.msg }

func (e *MessageEvent) Arguments() []cmd.Argument {
	return append([]cmd.Argument(nil), e.args...)
}

func (e *MessageEvent) Author() cmd.User { return userOf(e.msg.Author) }

func (e *MessageEvent) Invoker() cmd.Invoker {
	inv := cmd.Invoker{UserID: e.Author().ID, GuildID: e.msg.GuildID}
	if e.msg.Member != nil {
		inv.RoleIDs = e.msg.Member.Roles
	}
	return inv
}

// Reply answers in the same channel, referencing the triggering message.
func (e *MessageEvent) Reply(r cmd.Reply) error {
	sent, err := Message(e.session, e.msg.ChannelID, r, e.msg.Reference())
	if err != nil {
		return err
	}
	e.first.CompareAndSwap(nil, sent)
	return nil
}

// FirstReply returns the first message sent through Reply, or nil.
func (e *MessageEvent) FirstReply() *discordgo.Message { return e.first.Load() }

// DeleteOriginalMessage deletes the triggering message.
func (e *MessageEvent) DeleteOriginalMessage() error {
	return e.session.ChannelMessageDelete(e.msg.ChannelID, e.msg.ID)
}

func userOf(u *discordgo.User) cmd.User {
	if u == nil {
		return cmd.User{}
	}
	return cmd.User{ID: u.ID, Username: u.Username, Bot: u.Bot}
}
