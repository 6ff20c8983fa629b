package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/commandframe/pkg/cmd"
)

// Ping answers "pong". With Latency set the reply includes the gateway
// heartbeat latency.
type Ping struct {
	Latency func() time.Duration
}

func (p *Ping) Help() string { return "Pong!" }

func (p *Ping) Run(_ context.Context, e cmd.Event) error {
	if p.Latency == nil {
		return e.Reply(cmd.Text("pong"))
	}
	return e.Reply(cmd.Text(fmt.Sprintf("🏓 Pong! Response time: `%dms`", p.Latency().Milliseconds())))
}
