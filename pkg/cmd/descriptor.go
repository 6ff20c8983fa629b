package cmd

import (
	"context"
	"fmt"
)

// Descriptor is the registry's view of one command: its capabilities are
// resolved once when the descriptor is built and never change afterwards.
type Descriptor struct {
	cmd         Command
	help        string
	args        []Template
	everyone    bool
	permissions int64
	privileges  PrivilegeProvider
	component   ComponentHandler
}

// NewDescriptor validates c and captures its capabilities.
func NewDescriptor(c Command) (*Descriptor, error) {
	if c == nil {
		return nil, ErrNilCommand
	}
	d := &Descriptor{cmd: c, help: c.Help(), everyone: true}

	if p, ok := Find[ArgumentProvider](c); ok {
		for i, t := range p.Arguments() {
			if err := t.Validate(); err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			d.args = append(d.args, t.clone())
		}
	}
	if p, ok := Find[AccessPolicy](c); ok {
		d.everyone = p.AvailableToEveryone()
	}
	if p, ok := Find[PermissionProvider](c); ok {
		d.permissions = p.RequiredPermissions()
	}
	if p, ok := Find[PrivilegeProvider](c); ok {
		d.privileges = p
	}
	if h, ok := Find[ComponentHandler](c); ok {
		d.component = h
	}
	return d, nil
}

// Command returns the (possibly wrapped) command.
func (d *Descriptor) Command() Command { return d.cmd }

// Help returns the one-line help text.
func (d *Descriptor) Help() string { return d.help }

// Arguments returns a copy of the declared parameter templates, in order.
func (d *Descriptor) Arguments() []Template {
	out := make([]Template, len(d.args))
	for i, t := range d.args {
		out[i] = t.clone()
	}
	return out
}

// AvailableToEveryone reports the command's default availability.
func (d *Descriptor) AvailableToEveryone() bool { return d.everyone }

// RequiredPermissions returns the platform permission bits required to see
// the command by default, or 0.
func (d *Descriptor) RequiredPermissions() int64 { return d.permissions }

// Privileges returns the overrides in effect for guildID.
func (d *Descriptor) Privileges(guildID string) []Privilege {
	if d.privileges == nil {
		return nil
	}
	return d.privileges.Privileges(guildID)
}

// ComponentHandler returns the command's button handler, if it has one.
func (d *Descriptor) ComponentHandler() (ComponentHandler, bool) {
	return d.component, d.component != nil
}

// Run executes the command.
func (d *Descriptor) Run(ctx context.Context, e Event) error {
	return d.cmd.Run(ctx, e)
}
