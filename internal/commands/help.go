package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/commandframe/pkg/cmd"
)

// Help lists every registered alias with its help text.
type Help struct {
	Registry *cmd.Registry
}

func (h *Help) Help() string { return "Show a list of available commands" }

func (h *Help) Run(_ context.Context, e cmd.Event) error {
	return e.Reply(cmd.Rich(cmd.RichContent{
		Title:       "📖 Available Commands",
		Description: buildHelpMessage(h.Registry),
	}))
}

func buildHelpMessage(reg *cmd.Registry) string {
	var sb strings.Builder
	for _, entry := range reg.Snapshot() {
		sb.WriteString(fmt.Sprintf("`%s` - `%s`\n", entry.Alias, entry.Descriptor.Help()))
	}
	return sb.String()
}
