package cmd

import (
	"context"
	"sync"
)

type fakeEvent struct {
	origin  Origin
	args    []Argument
	author  User
	guildID string
	roles   []string

	mu      sync.Mutex
	replies []Reply
	loaded  [][]Template
}

func textEvent(userID string, args ...string) *fakeEvent {
	e := &fakeEvent{origin: OriginText, author: User{ID: userID}, guildID: "g1"}
	for _, a := range args {
		e.args = append(e.args, TextArgument(a))
	}
	return e
}

func (e *fakeEvent) Origin() Origin        { return e.origin }
func (e *fakeEvent) ID() string            { return "e1" }
func (e *fakeEvent) Arguments() []Argument { return e.args }
func (e *fakeEvent) Author() User          { return e.author }
func (e *fakeEvent) GuildID() string       { return e.guildID }
func (e *fakeEvent) ChannelID() string     { return "c1" }
func (e *fakeEvent) Invoker() Invoker {
	return Invoker{UserID: e.author.ID, GuildID: e.guildID, RoleIDs: e.roles}
}

func (e *fakeEvent) Reply(r Reply) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replies = append(e.replies, r)
	return nil
}

func (e *fakeEvent) DeleteOriginalMessage() error { return nil }

func (e *fakeEvent) Replies() []Reply {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Reply(nil), e.replies...)
}

// interactionEvent additionally loads its arguments from templates.
type interactionEvent struct {
	*fakeEvent
}

func (e interactionEvent) LoadArguments(templates []Template) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded != nil {
		return ErrArgumentsLoaded
	}
	e.loaded = append(e.loaded, templates)
	return nil
}

type fakeComponent struct {
	customID string
	mu       sync.Mutex
	replies  []Reply
	acks     int
}

func (c *fakeComponent) CustomID() string  { return c.customID }
func (c *fakeComponent) Author() User      { return User{ID: "u1"} }
func (c *fakeComponent) GuildID() string   { return "g1" }
func (c *fakeComponent) ChannelID() string { return "c1" }

func (c *fakeComponent) Reply(r Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, r)
	return nil
}

func (c *fakeComponent) Acknowledge() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acks++
	return nil
}

type testCommand struct {
	help string
	args []Template
	run  func(ctx context.Context, e Event) error
}

func (c *testCommand) Help() string          { return c.help }
func (c *testCommand) Arguments() []Template { return c.args }
func (c *testCommand) Run(ctx context.Context, e Event) error {
	if c.run == nil {
		return nil
	}
	return c.run(ctx, e)
}

type restrictedCommand struct {
	testCommand
	privileges map[string][]Privilege
	perms      int64
}

func (c *restrictedCommand) AvailableToEveryone() bool  { return false }
func (c *restrictedCommand) RequiredPermissions() int64 { return c.perms }
func (c *restrictedCommand) Privileges(guildID string) []Privilege {
	return c.privileges[guildID]
}

type buttonCommand struct {
	testCommand
	clicks []string
}

func (c *buttonCommand) Component(ctx context.Context, e ComponentEvent) error {
	c.clicks = append(c.clicks, AliasFrom(ctx)+":"+e.CustomID())
	return nil
}

func replyWith(text string) func(ctx context.Context, e Event) error {
	return func(ctx context.Context, e Event) error {
		return e.Reply(Text(text))
	}
}
