package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

const (
	msgNotAllowed    = "You're not allowed to use this command!"
	msgInternalError = "An internal error occurred."
)

// Outcome is what a dispatch ended with.
type Outcome uint8

const (
	OutcomeSucceeded Outcome = iota + 1
	OutcomeFailed
	OutcomeRejected
	OutcomeUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnknown:
		return "unknown"
	}
	return "invalid"
}

type replier interface {
	Reply(r Reply) error
}

// Dispatcher resolves aliases, checks permissions, and runs handlers. A
// handler failure, returned or panicked, never escapes Dispatch; it is logged
// and turned into an error reply. Replies sent by the dispatcher itself are
// fire-and-forget; Wait blocks until they are delivered.
type Dispatcher struct {
	registry *Registry
	settings *Settings
	authz    Authorizer
	log      zerolog.Logger

	wg sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAuthorizer replaces the default PermissionResolver.
func WithAuthorizer(a Authorizer) DispatcherOption {
	return func(d *Dispatcher) { d.authz = a }
}

// WithLogger sets the logger used for failures.
func WithLogger(l zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = l }
}

// NewDispatcher returns a dispatcher over reg and settings.
func NewDispatcher(reg *Registry, settings *Settings, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		settings: settings,
		authz:    PermissionResolver{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Settings returns the live settings.
func (d *Dispatcher) Settings() *Settings { return d.settings }

// Dispatch runs the command bound to alias for e.
func (d *Dispatcher) Dispatch(ctx context.Context, alias string, e Event) Outcome {
	cfg := d.settings.Load()
	log := d.log.With().
		Str("alias", alias).
		Str("origin", e.Origin().String()).
		Str("user", e.Author().ID).
		Str("guild", e.GuildID()).
		Logger()

	desc, ok := d.registry.Lookup(alias)
	if !ok {
		d.unknownCommand(ctx, cfg, alias, e)
		return OutcomeUnknown
	}

	if loader, ok := e.(ArgumentLoader); ok {
		if err := loader.LoadArguments(desc.Arguments()); err != nil {
			log.Error().Err(err).Msg("failed to load arguments")
			d.send(e, errorReply(cfg, err))
			return OutcomeFailed
		}
	}

	if !cfg.IsOwner(e.Author().ID) && !d.authz.CanExecute(desc, e.Invoker(), e.Origin()) {
		log.Debug().Msg("command rejected")
		d.send(e, Text(msgNotAllowed))
		return OutcomeRejected
	}

	err := safeRun(func() error { return desc.Run(WithAlias(ctx, alias), e) })
	if err != nil {
		ev := log.Error().Err(err)
		var p *PanicError
		if errors.As(err, &p) {
			ev = ev.Bytes("stack", p.Stack)
		}
		ev.Msg("command failed")
		d.send(e, errorReply(cfg, err))
		return OutcomeFailed
	}
	return OutcomeSucceeded
}

// DispatchComponent routes a button click to the command named by the custom
// ID's leading token. Clicks nobody handles go to the unknown-component
// action, or are acknowledged silently.
func (d *Dispatcher) DispatchComponent(ctx context.Context, e ComponentEvent) Outcome {
	cfg := d.settings.Load()
	alias := ComponentAlias(e.CustomID())
	log := d.log.With().Str("custom_id", e.CustomID()).Str("user", e.Author().ID).Logger()

	if desc, ok := d.registry.Lookup(alias); ok {
		if h, ok := desc.ComponentHandler(); ok {
			err := safeRun(func() error { return h.Component(WithAlias(ctx, alias), e) })
			if err != nil {
				log.Error().Err(err).Msg("component handler failed")
				d.send(e, errorReply(cfg, err))
				return OutcomeFailed
			}
			return OutcomeSucceeded
		}
	}

	if fn := cfg.UnknownComponentAction; fn != nil {
		if err := safeRun(func() error { fn(ctx, e); return nil }); err != nil {
			log.Error().Err(err).Msg("unknown component action failed")
		}
		return OutcomeUnknown
	}
	d.async(func() error { return e.Acknowledge() })
	return OutcomeUnknown
}

func (d *Dispatcher) unknownCommand(ctx context.Context, cfg *Snapshot, alias string, e Event) {
	if !cfg.UnknownCommand {
		return
	}
	if fn := cfg.UnknownCommandAction; fn != nil {
		if err := safeRun(func() error { fn(ctx, alias, e); return nil }); err != nil {
			d.log.Error().Err(err).Str("alias", alias).Msg("unknown command action failed")
		}
		return
	}
	d.send(e, UnknownCommandReply(cfg.Prefix))
}

// UnknownCommandReply is the default reply for an alias nobody registered.
func UnknownCommandReply(prefix string) Reply {
	return Rich(RichContent{
		Title:       "Unknown command",
		Description: fmt.Sprintf("See `%shelp` for more information!", prefix),
		Color:       ColorRed,
	})
}

func errorReply(cfg *Snapshot, err error) Reply {
	if !cfg.VerboseErrors {
		return Text(msgInternalError)
	}
	return Text("Error:\n```" + err.Error() + "\n```")
}

func (d *Dispatcher) send(r replier, reply Reply) {
	d.async(func() error { return r.Reply(reply) })
}

func (d *Dispatcher) async(fn func() error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := safeRun(fn); err != nil {
			d.log.Warn().Err(err).Msg("failed to deliver reply")
		}
	}()
}

// Wait blocks until every reply the dispatcher started has been delivered.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func safeRun(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
