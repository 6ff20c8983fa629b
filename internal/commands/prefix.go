package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/commandframe/pkg/cmd"
)

// Prefix shows or changes the text command prefix. Only owners and members
// granted it by a privilege override may run it.
type Prefix struct {
	Settings *cmd.Settings
}

func (p *Prefix) Help() string              { return "Show or change the command prefix" }
func (p *Prefix) AvailableToEveryone() bool { return false }

func (p *Prefix) Arguments() []cmd.Template {
	return []cmd.Template{
		cmd.NewOption(cmd.OptionString, "prefix", "New prefix", false),
	}
}

func (p *Prefix) Run(_ context.Context, e cmd.Event) error {
	arg, ok := cmd.Arg(e, 0)
	if !ok || strings.TrimSpace(arg.String()) == "" {
		return e.Reply(cmd.Text(fmt.Sprintf("Current prefix: `%s`", p.Settings.Prefix())))
	}

	prefix := strings.TrimSpace(arg.String())
	p.Settings.SetPrefix(prefix)
	return e.Reply(cmd.Text(fmt.Sprintf("Prefix set to `%s`", prefix)))
}
