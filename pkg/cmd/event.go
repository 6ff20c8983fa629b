package cmd

// Origin says how an event reached the bot.
type Origin uint8

const (
	OriginText Origin = iota + 1
	OriginInteraction
)

func (o Origin) String() string {
	switch o {
	case OriginText:
		return "text"
	case OriginInteraction:
		return "interaction"
	}
	return "unknown"
}

// User is the author of an event.
type User struct {
	ID       string
	Username string
	Bot      bool
}

// Event is the unified view of one command invocation, whatever transport it
// arrived on. Reply may be called any number of times; the first successful
// reply is remembered by the adapter.
type Event interface {
	Origin() Origin
	ID() string
	Arguments() []Argument
	Author() User
	Invoker() Invoker
	GuildID() string
	ChannelID() string
	Reply(r Reply) error
	DeleteOriginalMessage() error
}

// ArgumentLoader is implemented by events whose arguments are materialized
// from the command's templates. LoadArguments succeeds at most once.
type ArgumentLoader interface {
	LoadArguments(templates []Template) error
}

// ComponentEvent is a click on a button the bot sent earlier.
type ComponentEvent interface {
	CustomID() string
	Author() User
	GuildID() string
	ChannelID() string
	Reply(r Reply) error
	// Acknowledge tells the platform the click was handled without replying.
	Acknowledge() error
}

// Arg returns the i-th argument, or false if there are fewer.
func Arg(e Event, i int) (Argument, bool) {
	args := e.Arguments()
	if i < 0 || i >= len(args) {
		return Argument{}, false
	}
	return args[i], true
}
