package discord

import (
	"strconv"

	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// BuildCommand exports the slash command definition for d under alias.
//
// Templates are laid out with two cursors. A subcommand group opens a new
// group at the top level and closes any open subcommand. A subcommand
// attaches to the open group, or to the top level. Any other option attaches
// to the open subcommand, else the open group, else the top level.
func BuildCommand(alias string, d *cmd.Descriptor) *discordgo.ApplicationCommand {
	def := &discordgo.ApplicationCommand{
		Type:        discordgo.ChatApplicationCommand,
		Name:        alias,
		Description: d.Help(),
	}

	var group, sub *discordgo.ApplicationCommandOption
	for _, t := range d.Arguments() {
		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionType(t.Type),
			Name:        t.Name,
			Description: t.Description,
			Required:    t.Required,
			Choices:     choices(t),
		}
		switch t.Type {
		case cmd.OptionSubcommandGroup:
			opt.Required = false
			def.Options = append(def.Options, opt)
			group, sub = opt, nil
		case cmd.OptionSubcommand:
			opt.Required = false
			if group != nil {
				group.Options = append(group.Options, opt)
			} else {
				def.Options = append(def.Options, opt)
			}
			sub = opt
		default:
			switch {
			case sub != nil:
				sub.Options = append(sub.Options, opt)
			case group != nil:
				group.Options = append(group.Options, opt)
			default:
				def.Options = append(def.Options, opt)
			}
		}
	}

	def.DefaultMemberPermissions = defaultMemberPermissions(d)
	return def
}

// choices converts template choices; integer and number choices carry
// numeric values.
func choices(t cmd.Template) []*discordgo.ApplicationCommandOptionChoice {
	if !t.HasChoices() {
		return nil
	}
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(t.Choices))
	for _, c := range t.Choices {
		var value any = c
		switch t.Type {
		case cmd.OptionInteger:
			if n, err := strconv.ParseInt(c, 10, 64); err == nil {
				value = n
			}
		case cmd.OptionNumber:
			if f, err := strconv.ParseFloat(c, 64); err == nil {
				value = f
			}
		}
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: c, Value: value})
	}
	return out
}

// defaultMemberPermissions: required permissions (plus administrator) gate
// the command; restricted commands without them are hidden from everyone
// but administrators; open commands set nothing.
func defaultMemberPermissions(d *cmd.Descriptor) *int64 {
	if perms := d.RequiredPermissions(); perms != 0 {
		v := perms | discordgo.PermissionAdministrator
		return &v
	}
	if !d.AvailableToEveryone() {
		var none int64
		return &none
	}
	return nil
}
