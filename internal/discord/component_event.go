package discord

import (
	"sync/atomic"

	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// ComponentEvent is a click on a button the bot sent.
type ComponentEvent struct {
	session   Session
	i         *discordgo.Interaction
	responded atomic.Bool
}

var _ cmd.ComponentEvent = (*ComponentEvent)(nil)

func NewComponentEvent(s Session, i *discordgo.Interaction) *ComponentEvent {
	return &ComponentEvent{session: s, i: i}
}

func (e *ComponentEvent) CustomID() string  { return e.i.MessageComponentData().CustomID }
func (e *ComponentEvent) GuildID() string   { return e.i.GuildID }
func (e *ComponentEvent) ChannelID() string { return e.i.ChannelID }

func (e *ComponentEvent) Author() cmd.User {
	if e.i.Member != nil && e.i.Member.User != nil {
		return userOf(e.i.Member.User)
	}
	return userOf(e.i.User)
}

// Message returns the message carrying the clicked button.
func (e *ComponentEvent) Message() *discordgo.Message { return e.i.Message }

// Reply answers the click with a new message, or a followup if the click was
// already answered.
func (e *ComponentEvent) Reply(r cmd.Reply) error {
	if e.responded.CompareAndSwap(false, true) {
		return Respond(e.session, e.i, r)
	}
	_, err := Followup(e.session, e.i, r)
	return err
}

// Acknowledge tells Discord the click was handled. It does nothing after a reply.
func (e *ComponentEvent) Acknowledge() error {
	if !e.responded.CompareAndSwap(false, true) {
		return nil
	}
	return RespondDeferredUpdate(e.session, e.i)
}
