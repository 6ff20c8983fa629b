package cmd

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
)

// UnknownCommandFunc replaces the default "Unknown command" reply.
type UnknownCommandFunc func(ctx context.Context, alias string, e Event)

// UnknownComponentFunc handles clicks no command claims.
type UnknownComponentFunc func(ctx context.Context, e ComponentEvent)

// Snapshot is an immutable view of the dispatcher settings. Readers get one
// per dispatch and never observe a half-applied update.
type Snapshot struct {
	Prefix                     string
	MentionPrefix              bool
	UnknownCommand             bool
	UnknownCommandAction       UnknownCommandFunc
	UnknownComponentAction     UnknownComponentFunc
	SlashCommandsPerGuild      bool
	RemoveUnknownSlashCommands bool
	VerboseErrors              bool

	owners map[string]struct{}
}

// IsOwner reports whether userID is a bot owner.
func (s *Snapshot) IsOwner(userID string) bool {
	_, ok := s.owners[userID]
	return ok
}

// Owners returns the owner IDs, sorted.
func (s *Snapshot) Owners() []string {
	out := make([]string, 0, len(s.owners))
	for id := range s.owners {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Option configures Settings at construction.
type Option func(*Snapshot)

func WithPrefix(prefix string) Option       { return func(s *Snapshot) { s.Prefix = prefix } }
func WithOwners(ids ...string) Option       { return func(s *Snapshot) { s.owners = ownerSet(ids) } }
func WithMentionPrefix(enabled bool) Option { return func(s *Snapshot) { s.MentionPrefix = enabled } }
func WithUnknownCommand(enabled bool) Option {
	return func(s *Snapshot) { s.UnknownCommand = enabled }
}
func WithSlashCommandsPerGuild(enabled bool) Option {
	return func(s *Snapshot) { s.SlashCommandsPerGuild = enabled }
}
func WithRemoveUnknownSlashCommands(enabled bool) Option {
	return func(s *Snapshot) { s.RemoveUnknownSlashCommands = enabled }
}
func WithVerboseErrors(enabled bool) Option {
	return func(s *Snapshot) { s.VerboseErrors = enabled }
}

func ownerSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Settings holds the live dispatcher configuration. Setters swap in a new
// snapshot; they are safe to call while events are being dispatched.
type Settings struct {
	mu  sync.Mutex
	cur atomic.Pointer[Snapshot]
}

// NewSettings returns settings with the defaults: prefix "!", mention prefix
// on, unknown-command reply on, global slash commands, stale slash commands
// removed, and error details shown to users.
func NewSettings(opts ...Option) *Settings {
	snap := &Snapshot{
		Prefix:                     "!",
		MentionPrefix:              true,
		UnknownCommand:             true,
		RemoveUnknownSlashCommands: true,
		VerboseErrors:              true,
		owners:                     map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(snap)
	}
	s := &Settings{}
	s.cur.Store(snap)
	return s
}

// Load returns the current snapshot.
func (s *Settings) Load() *Snapshot { return s.cur.Load() }

func (s *Settings) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.cur.Load()
	fn(&next)
	s.cur.Store(&next)
}

func (s *Settings) SetPrefix(prefix string) {
	s.update(func(n *Snapshot) { n.Prefix = prefix })
}

func (s *Settings) Prefix() string { return s.Load().Prefix }

// SetOwners replaces the owner set.
func (s *Settings) SetOwners(ids ...string) {
	set := ownerSet(ids)
	s.update(func(n *Snapshot) { n.owners = set })
}

// AddOwner adds one owner.
func (s *Settings) AddOwner(id string) {
	s.update(func(n *Snapshot) {
		set := make(map[string]struct{}, len(n.owners)+1)
		for k := range n.owners {
			set[k] = struct{}{}
		}
		set[id] = struct{}{}
		n.owners = set
	})
}

func (s *Settings) IsOwner(id string) bool { return s.Load().IsOwner(id) }

func (s *Settings) SetMentionPrefix(enabled bool) {
	s.update(func(n *Snapshot) { n.MentionPrefix = enabled })
}

func (s *Settings) SetUnknownCommand(enabled bool) {
	s.update(func(n *Snapshot) { n.UnknownCommand = enabled })
}

// SetUnknownCommandAction installs a custom unknown-command handler and turns
// unknown-command handling on. A nil fn restores the default reply.
func (s *Settings) SetUnknownCommandAction(fn UnknownCommandFunc) {
	s.update(func(n *Snapshot) {
		n.UnknownCommandAction = fn
		n.UnknownCommand = true
	})
}

func (s *Settings) SetUnknownComponentAction(fn UnknownComponentFunc) {
	s.update(func(n *Snapshot) { n.UnknownComponentAction = fn })
}

func (s *Settings) SetSlashCommandsPerGuild(enabled bool) {
	s.update(func(n *Snapshot) { n.SlashCommandsPerGuild = enabled })
}

func (s *Settings) SetRemoveUnknownSlashCommands(enabled bool) {
	s.update(func(n *Snapshot) { n.RemoveUnknownSlashCommands = enabled })
}

func (s *Settings) SetVerboseErrors(enabled bool) {
	s.update(func(n *Snapshot) { n.VerboseErrors = enabled })
}
