// Package privileges loads per-guild command overrides from a YAML file and
// attaches them to commands as middleware.
//
//	commands:
//	  ban:
//	    "123456789012345678":
//	      - {type: role, id: "223456789012345678", enabled: true}
//	      - {type: user, id: "323456789012345678", enabled: false}
package privileges

import (
	"fmt"
	"os"
	"strings"

	"github.com/keshon/commandframe/pkg/cmd"

	"gopkg.in/yaml.v3"
)

type entry struct {
	Type    string `yaml:"type"`
	ID      string `yaml:"id"`
	Enabled bool   `yaml:"enabled"`
}

type file struct {
	Commands map[string]map[string][]entry `yaml:"commands"`
}

// Table holds overrides by alias, then guild ID. A nil Table has no entries.
type Table struct {
	byAlias map[string]map[string][]cmd.Privilege
}

// Load reads path. An empty path yields an empty table.
func Load(path string) (*Table, error) {
	if path == "" {
		return &Table{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read privileges: %w", err)
	}
	return Parse(data)
}

// Parse decodes a privileges document.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode privileges: %w", err)
	}

	t := &Table{byAlias: make(map[string]map[string][]cmd.Privilege, len(f.Commands))}
	for alias, guilds := range f.Commands {
		alias = strings.ToLower(strings.TrimSpace(alias))
		byGuild := make(map[string][]cmd.Privilege, len(guilds))
		for guildID, entries := range guilds {
			for i, e := range entries {
				p, err := e.privilege()
				if err != nil {
					return nil, fmt.Errorf("%s/%s[%d]: %w", alias, guildID, i, err)
				}
				byGuild[guildID] = append(byGuild[guildID], p)
			}
		}
		t.byAlias[alias] = byGuild
	}
	return t, nil
}

func (e entry) privilege() (cmd.Privilege, error) {
	if e.ID == "" {
		return cmd.Privilege{}, fmt.Errorf("missing id")
	}
	switch strings.ToLower(e.Type) {
	case "role":
		return cmd.Privilege{Type: cmd.PrivilegeRole, ID: e.ID, Enabled: e.Enabled}, nil
	case "user":
		return cmd.Privilege{Type: cmd.PrivilegeUser, ID: e.ID, Enabled: e.Enabled}, nil
	}
	return cmd.Privilege{}, fmt.Errorf("unknown privilege type %q", e.Type)
}

// For returns the overrides for alias in guildID.
func (t *Table) For(alias, guildID string) []cmd.Privilege {
	if t == nil {
		return nil
	}
	return t.byAlias[strings.ToLower(alias)][guildID]
}

// Len returns the number of commands with overrides.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byAlias)
}

type overridden struct {
	cmd.Command
	table   *Table
	aliases []string
}

// Privileges returns the command's own overrides followed by the table's,
// so file role entries layer over built-in ones.
func (o *overridden) Privileges(guildID string) []cmd.Privilege {
	var out []cmd.Privilege
	if p, ok := cmd.Find[cmd.PrivilegeProvider](o.Command); ok {
		out = append(out, p.Privileges(guildID)...)
	}
	for _, alias := range o.aliases {
		out = append(out, o.table.For(alias, guildID)...)
	}
	return out
}

func (o *overridden) Unwrap() cmd.Command { return o.Command }

// Middleware attaches the table's overrides for every alias of a command,
// in alias order. Commands without entries are returned unchanged.
func (t *Table) Middleware(aliases ...string) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		if t == nil {
			return c
		}
		var keyed []string
		for _, alias := range aliases {
			if t.byAlias[strings.ToLower(alias)] != nil {
				keyed = append(keyed, alias)
			}
		}
		if len(keyed) == 0 {
			return c
		}
		return &overridden{Command: c, table: t, aliases: keyed}
	}
}
