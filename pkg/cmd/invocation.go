// Package cmd provides a transport-agnostic command core: a command is something
// with help text and Run(ctx, event). How events are produced and how replies
// reach users (chat messages, slash interactions) is defined by adapters.
package cmd

import "context"

// Command is the universal contract: help text plus execution. Parameters,
// access policy, and component callbacks are optional capabilities below.
type Command interface {
	Help() string
	Run(ctx context.Context, e Event) error
}

// ArgumentProvider is implemented by commands that declare typed parameters.
// Templates are read once, at registration.
type ArgumentProvider interface {
	Arguments() []Template
}

// AccessPolicy is implemented by commands that are restricted by default.
// Commands without it are available to everyone.
type AccessPolicy interface {
	AvailableToEveryone() bool
}

// PrivilegeProvider returns per-server overrides of a command's default
// availability. It is consulted on every invocation.
type PrivilegeProvider interface {
	Privileges(guildID string) []Privilege
}

// PermissionProvider is implemented by commands that require platform
// permissions (bit set) to be visible to members by default.
type PermissionProvider interface {
	RequiredPermissions() int64
}

// ComponentHandler receives button clicks whose custom ID starts with one of
// the command's aliases.
type ComponentHandler interface {
	Component(ctx context.Context, e ComponentEvent) error
}

type aliasKey struct{}

// WithAlias returns ctx carrying the alias a command was invoked under.
func WithAlias(ctx context.Context, alias string) context.Context {
	return context.WithValue(ctx, aliasKey{}, alias)
}

// AliasFrom returns the alias set by the dispatcher, or "" outside a dispatch.
func AliasFrom(ctx context.Context) string {
	alias, _ := ctx.Value(aliasKey{}).(string)
	return alias
}
