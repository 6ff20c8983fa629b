package cmd

import "context"

// Unwrappable is implemented by wrapped commands so the core can reach the
// underlying command (e.g. to find an ArgumentProvider or ComponentHandler).
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped wraps a command with a custom Run. Used by middleware. The inner
// command is exposed via Unwrap() so capability lookups still succeed.
type Wrapped struct {
	Inner   Command
	RunFunc func(ctx context.Context, e Event) error
}

// Help delegates to the inner command.
func (w *Wrapped) Help() string { return w.Inner.Help() }

// Run runs the wrapper's RunFunc.
func (w *Wrapped) Run(ctx context.Context, e Event) error {
	if w.RunFunc != nil {
		return w.RunFunc(ctx, e)
	}
	return w.Inner.Run(ctx, e)
}

// Unwrap returns the inner command.
func (w *Wrapped) Unwrap() Command { return w.Inner }

// Wrap returns a command that runs run instead of c.Run, delegating Help to c.
// Use this in middleware; the returned command implements Unwrappable.
func Wrap(c Command, run func(ctx context.Context, e Event) error) Command {
	return &Wrapped{Inner: c, RunFunc: run}
}

// Root unwraps a command until the underlying command is not Unwrappable.
func Root(c Command) Command {
	for {
		if u, ok := c.(Unwrappable); ok {
			c = u.Unwrap()
		} else {
			return c
		}
	}
}

// Find walks the wrapper chain from the outermost command inwards and returns
// the first layer implementing T.
func Find[T any](c Command) (T, bool) {
	for c != nil {
		if v, ok := c.(T); ok {
			return v, true
		}
		u, ok := c.(Unwrappable)
		if !ok {
			break
		}
		c = u.Unwrap()
	}
	var zero T
	return zero, false
}
