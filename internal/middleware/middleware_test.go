package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	guildID string
	replies []cmd.Reply
}

func (e *event) Origin() cmd.Origin           { return cmd.OriginText }
func (e *event) ID() string                   { return "1" }
func (e *event) Arguments() []cmd.Argument    { return []cmd.Argument{cmd.TextArgument("a")} }
func (e *event) Author() cmd.User             { return cmd.User{ID: "u1", Username: "alice"} }
func (e *event) Invoker() cmd.Invoker         { return cmd.Invoker{UserID: "u1", GuildID: e.guildID} }
func (e *event) GuildID() string              { return e.guildID }
func (e *event) ChannelID() string            { return "c1" }
func (e *event) DeleteOriginalMessage() error { return nil }
func (e *event) Reply(r cmd.Reply) error      { e.replies = append(e.replies, r); return nil }

type counter struct {
	runs int
	err  error
}

func (c *counter) Help() string { return "counts runs" }
func (c *counter) Run(context.Context, cmd.Event) error {
	c.runs++
	return c.err
}

func TestWithGuildOnly(t *testing.T) {
	inner := &counter{}
	c := cmd.Apply(inner, WithGuildOnly())

	dm := &event{}
	require.NoError(t, c.Run(context.Background(), dm))
	assert.Zero(t, inner.runs)
	require.Len(t, dm.replies, 1)
	assert.Equal(t, "This command can only be used in a server.", dm.replies[0].Content)

	require.NoError(t, c.Run(context.Background(), &event{guildID: "g1"}))
	assert.Equal(t, 1, inner.runs)
	assert.Same(t, inner, cmd.Root(c))
}

func TestWithCommandLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	inner := &counter{err: errors.New("nope")}
	c := cmd.Apply(inner, WithCommandLogger(log))

	ctx := cmd.WithAlias(context.Background(), "count")
	err := c.Run(ctx, &event{guildID: "g1"})

	assert.EqualError(t, err, "nope")
	out := buf.String()
	assert.Contains(t, out, `"command":"count"`)
	assert.Contains(t, out, `"user":"u1"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"error":"nope"`)
}

func TestWithRequiredPermissions(t *testing.T) {
	inner := &counter{}
	c := cmd.Apply(inner, WithRequiredPermissions(discordgo.PermissionBanMembers))

	d, err := cmd.NewDescriptor(c)
	require.NoError(t, err)
	assert.Equal(t, int64(discordgo.PermissionBanMembers), d.RequiredPermissions())
	assert.Equal(t, "counts runs", d.Help())

	require.NoError(t, c.Run(context.Background(), &event{}))
	assert.Equal(t, 1, inner.runs)

	assert.Same(t, inner, cmd.Apply(inner, WithRequiredPermissions(0)))
}

func TestDescribePermissions(t *testing.T) {
	perms := int64(discordgo.PermissionKickMembers | discordgo.PermissionBanMembers)
	assert.Equal(t, "Ban Members, Kick Members", DescribePermissions(perms))
	assert.Empty(t, DescribePermissions(0))
	assert.Equal(t, "0x4000000000000000", DescribePermissions(1<<62))
}
