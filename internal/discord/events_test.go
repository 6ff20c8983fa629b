package discord

import (
	"context"
	"testing"

	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selfID = "999"

type echoCommand struct {
	args []cmd.Template
	seen [][]cmd.Argument
}

func (c *echoCommand) Help() string              { return "Echoes its arguments" }
func (c *echoCommand) Arguments() []cmd.Template { return c.args }
func (c *echoCommand) Run(_ context.Context, e cmd.Event) error {
	c.seen = append(c.seen, e.Arguments())
	return e.Reply(cmd.Text("pong"))
}

func newTestRouter(t *testing.T, opts ...cmd.Option) (*Router, *cmd.Dispatcher, *cmd.Registry) {
	t.Helper()
	reg := cmd.NewRegistry()
	d := cmd.NewDispatcher(reg, cmd.NewSettings(opts...))
	return NewRouter(d, zerolog.Nop()), d, reg
}

func textMessage(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "msg1",
		ChannelID: "chan1",
		GuildID:   "guild1",
		Content:   content,
		Author:    &discordgo.User{ID: "user1", Username: "alice"},
		Member:    &discordgo.Member{Roles: []string{"role1"}},
	}
}

func TestHandleMessage_Ping(t *testing.T) {
	r, d, reg := newTestRouter(t)
	echo := &echoCommand{}
	require.NoError(t, reg.RegisterCommand(echo, "ping"))
	s := newFakeSession()

	outcome, ok := r.HandleMessage(context.Background(), s, selfID, textMessage("!ping"))
	d.Wait()

	require.True(t, ok)
	assert.Equal(t, cmd.OutcomeSucceeded, outcome)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "pong", s.sent[0].Content)
	require.NotNil(t, s.sent[0].Reference)
	assert.Equal(t, "msg1", s.sent[0].Reference.MessageID)
}

func TestHandleMessage_Prefixes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		mention bool
		handled bool
		args    []string
	}{
		{"configured prefix", `!echo "a b" c`, true, true, []string{"a b", "c"}},
		{"mention", "<@999> echo x", true, true, []string{"x"}},
		{"nick mention", "<@!999> echo", true, true, nil},
		{"mention with leading space", "   <@999> echo", true, true, nil},
		{"mention disabled", "<@999> echo", false, false, nil},
		{"other mention", "<@123> echo", true, false, nil},
		{"no prefix", "echo", true, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d, reg := newTestRouter(t, cmd.WithMentionPrefix(tt.mention))
			echo := &echoCommand{}
			require.NoError(t, reg.RegisterCommand(echo, "echo"))

			_, ok := r.HandleMessage(context.Background(), newFakeSession(), selfID, textMessage(tt.content))
			d.Wait()

			assert.Equal(t, tt.handled, ok)
			if !tt.handled {
				assert.Empty(t, echo.seen)
				return
			}
			require.Len(t, echo.seen, 1)
			var got []string
			for _, a := range echo.seen[0] {
				got = append(got, a.String())
			}
			assert.Equal(t, tt.args, got)
		})
	}
}

func TestHandleMessage_IgnoresBots(t *testing.T) {
	r, _, reg := newTestRouter(t)
	require.NoError(t, reg.RegisterCommand(&echoCommand{}, "ping"))

	m := textMessage("!ping")
	m.Author.Bot = true
	_, ok := r.HandleMessage(context.Background(), newFakeSession(), selfID, m)
	assert.False(t, ok)
}

func TestHandleMessage_UnknownCommandEmbed(t *testing.T) {
	r, d, _ := newTestRouter(t)
	s := newFakeSession()

	outcome, _ := r.HandleMessage(context.Background(), s, selfID, textMessage("!nope"))
	d.Wait()

	assert.Equal(t, cmd.OutcomeUnknown, outcome)
	require.Len(t, s.sent, 1)
	require.Len(t, s.sent[0].Embeds, 1)
	assert.Equal(t, "Unknown command", s.sent[0].Embeds[0].Title)
	assert.Equal(t, "See `!help` for more information!", s.sent[0].Embeds[0].Description)
	assert.Equal(t, cmd.ColorRed, s.sent[0].Embeds[0].Color)
}

func TestMessageEvent_FirstReplyAndDelete(t *testing.T) {
	s := newFakeSession()
	ev := NewMessageEvent(s, textMessage("!x"), nil)

	assert.Nil(t, ev.FirstReply())
	require.NoError(t, ev.Reply(cmd.Text("one")))
	require.NoError(t, ev.Reply(cmd.Text("two")))
	require.NotNil(t, ev.FirstReply())
	assert.Equal(t, "m1", ev.FirstReply().ID)

	require.NoError(t, ev.DeleteOriginalMessage())
	assert.Equal(t, []string{"chan1/msg1"}, s.deleted)

	inv := ev.Invoker()
	assert.Equal(t, "user1", inv.UserID)
	assert.Equal(t, "guild1", inv.GuildID)
	assert.Equal(t, []string{"role1"}, inv.RoleIDs)
}

func slashInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "int1",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "guild1",
		ChannelID: "chan1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "user1"}, Roles: []string{"role1"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:        name,
			CommandType: discordgo.ChatApplicationCommand,
			Options:     opts,
		},
	}
}

func TestHandleInteraction_DefersThenEdits(t *testing.T) {
	r, d, reg := newTestRouter(t)
	echo := &echoCommand{args: []cmd.Template{
		cmd.NewOption(cmd.OptionInteger, "count", "how many", true),
		cmd.NewOption(cmd.OptionString, "note", "optional note", false),
	}}
	require.NoError(t, reg.RegisterCommand(echo, "echo"))
	s := newFakeSession()

	i := slashInteraction("echo", &discordgo.ApplicationCommandInteractionDataOption{
		Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3),
	})
	outcome, ok := r.HandleInteraction(context.Background(), s, i)
	d.Wait()

	require.True(t, ok)
	assert.Equal(t, cmd.OutcomeSucceeded, outcome)
	require.Len(t, s.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, s.responses[0].Type)
	require.Len(t, s.edits, 1)
	assert.Equal(t, "pong", *s.edits[0].Content)
	assert.Empty(t, s.followups)

	require.Len(t, echo.seen, 1)
	require.Len(t, echo.seen[0], 1)
	n, err := echo.seen[0][0].Int()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestInteractionEvent_LaterRepliesAreFollowups(t *testing.T) {
	s := newFakeSession()
	ev := NewInteractionEvent(s, slashInteraction("x"))
	require.NoError(t, ev.Acknowledge())
	require.NoError(t, ev.Acknowledge())

	require.NoError(t, ev.Reply(cmd.Text("first")))
	require.NoError(t, ev.Reply(cmd.Text("second").WithButtons(cmd.Button{Label: "Go", CustomID: "x go"})))

	assert.Len(t, s.responses, 1)
	require.Len(t, s.edits, 1)
	assert.Equal(t, "first", *s.edits[0].Content)
	require.Len(t, s.followups, 1)
	assert.Equal(t, "second", s.followups[0].Content)
	require.Len(t, s.followups[0].Components, 1)
	assert.NotNil(t, ev.FirstReply())

	require.NoError(t, ev.DeleteOriginalMessage())
	assert.Equal(t, 1, s.respDels)
}

func TestInteractionEvent_ReplyWithoutAcknowledgeResponds(t *testing.T) {
	s := newFakeSession()
	ev := NewInteractionEvent(s, slashInteraction("x"))

	require.NoError(t, ev.Reply(cmd.Rich(cmd.RichContent{Title: "hi"})))
	require.Len(t, s.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, s.responses[0].Type)
	require.Len(t, s.responses[0].Data.Embeds, 1)
	assert.Equal(t, EmbedColor, s.responses[0].Data.Embeds[0].Color)
	assert.Empty(t, s.edits)
}

func TestInteractionEvent_LoadArguments(t *testing.T) {
	templates := []cmd.Template{
		cmd.SubcommandGroup("role", "role management"),
		cmd.Subcommand("add", "add a role"),
		cmd.NewOption(cmd.OptionUser, "who", "member", true),
		cmd.NewOption(cmd.OptionRole, "role", "role to add", true),
		cmd.NewOption(cmd.OptionString, "reason", "why", false),
	}
	i := slashInteraction("admin", &discordgo.ApplicationCommandInteractionDataOption{
		Name: "role",
		Type: discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name: "add",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: "55"},
				{Name: "who", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
			},
		}},
	})
	ev := NewInteractionEvent(newFakeSession(), i)

	assert.Nil(t, ev.Arguments())
	require.NoError(t, ev.LoadArguments(templates))

	args := ev.Arguments()
	require.Len(t, args, 4)
	assert.Equal(t, cmd.OptionSubcommandGroup, args[0].Kind())
	assert.Equal(t, "role", args[0].String())
	assert.Equal(t, cmd.OptionSubcommand, args[1].Kind())
	assert.Equal(t, "add", args[1].String())

	who, err := args[2].UserID()
	require.NoError(t, err)
	assert.Equal(t, "42", who)
	role, err := args[3].RoleID()
	require.NoError(t, err)
	assert.Equal(t, "55", role)

	assert.ErrorIs(t, ev.LoadArguments(templates), cmd.ErrArgumentsLoaded)
}

type pollCommand struct {
	echoCommand
	clicked []string
}

func (c *pollCommand) Component(_ context.Context, e cmd.ComponentEvent) error {
	c.clicked = append(c.clicked, e.CustomID())
	return e.Reply(cmd.Text("voted"))
}

func componentInteraction(customID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:      "int2",
		Type:    discordgo.InteractionMessageComponent,
		GuildID: "guild1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "user1"}},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID},
	}
}

func TestHandleInteraction_Components(t *testing.T) {
	r, d, reg := newTestRouter(t)
	poll := &pollCommand{}
	require.NoError(t, reg.RegisterCommand(poll, "poll"))
	s := newFakeSession()

	outcome, ok := r.HandleInteraction(context.Background(), s, componentInteraction("poll yes"))
	d.Wait()
	require.True(t, ok)
	assert.Equal(t, cmd.OutcomeSucceeded, outcome)
	assert.Equal(t, []string{"poll yes"}, poll.clicked)
	require.Len(t, s.responses, 1)
	assert.Equal(t, "voted", s.responses[0].Data.Content)

	outcome, _ = r.HandleInteraction(context.Background(), s, componentInteraction("stale 1"))
	d.Wait()
	assert.Equal(t, cmd.OutcomeUnknown, outcome)
	require.Len(t, s.responses, 2)
	assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, s.responses[1].Type)
}

func TestHandleInteraction_IgnoresOtherTypes(t *testing.T) {
	r, _, _ := newTestRouter(t)
	_, ok := r.HandleInteraction(context.Background(), newFakeSession(), &discordgo.Interaction{Type: discordgo.InteractionPing})
	assert.False(t, ok)
}
