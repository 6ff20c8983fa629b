package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Template declares one command parameter. Templates are plain values; a
// malformed one is rejected when its command is registered.
type Template struct {
	Type        OptionType
	Name        string
	Description string
	Required    bool
	Choices     []string
}

// NewOption declares a parameter without choices.
func NewOption(t OptionType, name, description string, required bool) Template {
	return Template{Type: t, Name: name, Description: description, Required: required}
}

// StringChoices declares a string parameter restricted to choices.
func StringChoices(name, description string, required bool, choices ...string) Template {
	return Template{
		Type:        OptionString,
		Name:        name,
		Description: description,
		Required:    required,
		Choices:     append([]string(nil), choices...),
	}
}

// IntegerChoices declares an integer parameter restricted to choices.
func IntegerChoices(name, description string, required bool, choices ...int64) Template {
	t := Template{Type: OptionInteger, Name: name, Description: description, Required: required}
	for _, c := range choices {
		t.Choices = append(t.Choices, strconv.FormatInt(c, 10))
	}
	return t
}

// Subcommand opens a subcommand; following templates attach to it.
func Subcommand(name, description string) Template {
	return Template{Type: OptionSubcommand, Name: name, Description: description}
}

// SubcommandGroup opens a group; following subcommands attach to it.
func SubcommandGroup(name, description string) Template {
	return Template{Type: OptionSubcommandGroup, Name: name, Description: description}
}

// HasChoices reports whether the template restricts its values.
func (t Template) HasChoices() bool { return len(t.Choices) > 0 }

// Validate checks the template is well formed.
func (t Template) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown option type %d", ErrInvalidTemplate, t.Type)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: %s option without a name", ErrInvalidTemplate, t.Type)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: option %q has no description", ErrInvalidTemplate, t.Name)
	}
	if !t.HasChoices() {
		return nil
	}
	if !t.Type.SupportsChoices() {
		return fmt.Errorf("%w: option %q is a %s", ErrChoicesNotSupported, t.Name, t.Type)
	}
	for _, c := range t.Choices {
		var err error
		switch t.Type {
		case OptionInteger:
			_, err = strconv.ParseInt(c, 10, 64)
		case OptionNumber:
			_, err = strconv.ParseFloat(c, 64)
		}
		if err != nil {
			return fmt.Errorf("%w: choice %q of option %q is not a valid %s", ErrInvalidTemplate, c, t.Name, t.Type)
		}
	}
	return nil
}

func (t Template) clone() Template {
	t.Choices = append([]string(nil), t.Choices...)
	return t
}
