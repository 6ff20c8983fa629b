package discord

import (
	"sync"
	"sync/atomic"

	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// InteractionEvent is a slash command invocation. It is acknowledged
// (deferred) before dispatch; the first reply then edits the deferred
// response and later replies are sent as followups.
type InteractionEvent struct {
	session      Session
	i            *discordgo.Interaction
	acknowledged atomic.Bool
	args         atomic.Pointer[[]cmd.Argument]

	mu           sync.Mutex
	firstClaimed bool
	first        *discordgo.Message
}

var (
	_ cmd.Event          = (*InteractionEvent)(nil)
	_ cmd.ArgumentLoader = (*InteractionEvent)(nil)
)

func NewInteractionEvent(s Session, i *discordgo.Interaction) *InteractionEvent {
	return &InteractionEvent{session: s, i: i}
}

func (e *InteractionEvent) Origin() cmd.Origin { return cmd.OriginInteraction }
func (e *InteractionEvent) ID() string         { return e.i.ID }
func (e *InteractionEvent) GuildID() string    { return e.i.GuildID }
func (e *InteractionEvent) ChannelID() string  { return e.i.ChannelID }

// Interaction returns the underlying interaction.
func (e *InteractionEvent) Interaction() *discordgo.Interaction { return e.i }

// Name returns the invoked command name.
func (e *InteractionEvent) Name() string { return e.i.ApplicationCommandData().Name }

func (e *InteractionEvent) Author() cmd.User {
	if e.i.Member != nil && e.i.Member.User != nil {
		return userOf(e.i.Member.User)
	}
	return userOf(e.i.User)
}

func (e *InteractionEvent) Invoker() cmd.Invoker {
	inv := cmd.Invoker{UserID: e.Author().ID, GuildID: e.i.GuildID}
	if e.i.Member != nil {
		inv.RoleIDs = e.i.Member.Roles
	}
	return inv
}

// Acknowledge defers the response. Only the first call reaches Discord.
func (e *InteractionEvent) Acknowledge() error {
	if !e.acknowledged.CompareAndSwap(false, true) {
		return nil
	}
	return RespondDeferred(e.session, e.i)
}

// Arguments returns the loaded arguments, or nil before LoadArguments.
func (e *InteractionEvent) Arguments() []cmd.Argument {
	args := e.args.Load()
	if args == nil {
		return nil
	}
	return append([]cmd.Argument(nil), (*args)...)
}

// LoadArguments materializes arguments from the interaction's options. The
// chosen subcommand group and subcommand come first, as subcommand arguments;
// then one argument per template whose option the user supplied, in template
// order. It fails with cmd.ErrArgumentsLoaded when called twice.
func (e *InteractionEvent) LoadArguments(templates []cmd.Template) error {
	if e.args.Load() != nil {
		return cmd.ErrArgumentsLoaded
	}

	var args []cmd.Argument
	opts := e.i.ApplicationCommandData().Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup {
		args = append(args, cmd.SubcommandArgument(cmd.OptionSubcommandGroup, opts[0].Name))
		opts = opts[0].Options
	}
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		args = append(args, cmd.SubcommandArgument(cmd.OptionSubcommand, opts[0].Name))
		opts = opts[0].Options
	}

	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		byName[o.Name] = o
	}
	for _, t := range templates {
		if t.Type.IsSubcommand() {
			continue
		}
		if o, ok := byName[t.Name]; ok {
			args = append(args, cmd.NewArgument(cmd.OptionType(o.Type), optionValue(o)))
		}
	}

	if !e.args.CompareAndSwap(nil, &args) {
		return cmd.ErrArgumentsLoaded
	}
	return nil
}

// optionValue normalizes JSON numbers for integer options.
func optionValue(o *discordgo.ApplicationCommandInteractionDataOption) any {
	if o.Type == discordgo.ApplicationCommandOptionInteger {
		if f, ok := o.Value.(float64); ok {
			return int64(f)
		}
	}
	return o.Value
}

// Reply sends r. The first reply fills the original response; every later
// one is a followup.
func (e *InteractionEvent) Reply(r cmd.Reply) error {
	e.mu.Lock()
	claimed := !e.firstClaimed
	e.firstClaimed = true
	e.mu.Unlock()

	if !claimed {
		_, err := Followup(e.session, e.i, r)
		return err
	}

	var (
		msg *discordgo.Message
		err error
	)
	if e.acknowledged.CompareAndSwap(false, true) {
		err = Respond(e.session, e.i, r)
	} else {
		msg, err = EditResponse(e.session, e.i, r)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.firstClaimed = false
		return err
	}
	e.first = msg
	return nil
}

// FirstReply returns the message that filled the original response, when
// Discord returned one.
func (e *InteractionEvent) FirstReply() *discordgo.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.first
}

// DeleteOriginalMessage deletes the original interaction response.
func (e *InteractionEvent) DeleteOriginalMessage() error {
	return e.session.InteractionResponseDelete(e.i)
}
