package cmd

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// OptionType is the declared kind of an argument or template. Values match
// the platform's application command option types.
type OptionType uint8

const (
	OptionSubcommand OptionType = iota + 1
	OptionSubcommandGroup
	OptionString
	OptionInteger
	OptionBoolean
	OptionUser
	OptionChannel
	OptionRole
	OptionMentionable
	OptionNumber
	OptionAttachment
)

var optionTypeNames = map[OptionType]string{
	OptionSubcommand:      "subcommand",
	OptionSubcommandGroup: "subcommand group",
	OptionString:          "string",
	OptionInteger:         "integer",
	OptionBoolean:         "boolean",
	OptionUser:            "user",
	OptionChannel:         "channel",
	OptionRole:            "role",
	OptionMentionable:     "mentionable",
	OptionNumber:          "number",
	OptionAttachment:      "attachment",
}

func (t OptionType) String() string {
	if name, ok := optionTypeNames[t]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is one of the known option types.
func (t OptionType) Valid() bool {
	_, ok := optionTypeNames[t]
	return ok
}

// SupportsChoices reports whether a template of this type may carry a fixed
// set of allowed values.
func (t OptionType) SupportsChoices() bool {
	switch t {
	case OptionString, OptionInteger, OptionNumber:
		return true
	}
	return false
}

// IsSubcommand reports whether t is a subcommand or subcommand group.
func (t OptionType) IsSubcommand() bool {
	return t == OptionSubcommand || t == OptionSubcommandGroup
}

var (
	userMention    = regexp.MustCompile(`^<@!?(\d+)>$`)
	roleMention    = regexp.MustCompile(`^<@&(\d+)>$`)
	channelMention = regexp.MustCompile(`^<#(\d+)>$`)
	snowflake      = regexp.MustCompile(`^\d+$`)
)

// Argument is one user-supplied value. Text invocations produce string
// arguments from raw tokens; interactions produce typed ones. Accessors
// coerce on demand and fail with an *ArgumentError.
type Argument struct {
	kind  OptionType
	raw   string
	value any
}

// TextArgument wraps a raw token from a text message.
func TextArgument(token string) Argument {
	return Argument{kind: OptionString, raw: token, value: token}
}

// NewArgument wraps a typed value delivered by the platform.
func NewArgument(kind OptionType, value any) Argument {
	return Argument{kind: kind, raw: formatValue(value), value: value}
}

// SubcommandArgument records the subcommand (or group) name the user picked.
func SubcommandArgument(kind OptionType, name string) Argument {
	return Argument{kind: kind, raw: name, value: name}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Kind is the declared kind of the argument.
func (a Argument) Kind() OptionType { return a.kind }

// String returns the argument as text.
func (a Argument) String() string { return a.raw }

// Int returns the argument as a 64-bit integer.
func (a Argument) Int() (int64, error) {
	switch v := a.value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		// int64(v) is undefined outside [-2^63, 2^63)
		if v != math.Trunc(v) || v < -(1<<63) || v >= 1<<63 {
			return 0, &ArgumentError{Want: OptionInteger, Raw: a.raw}
		}
		return int64(v), nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(a.raw), 10, 64)
	if err != nil {
		return 0, &ArgumentError{Want: OptionInteger, Raw: a.raw, Err: err}
	}
	return n, nil
}

// Float returns the argument as a floating point number.
func (a Argument) Float() (float64, error) {
	switch v := a.value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(a.raw), 64)
	if err != nil {
		return 0, &ArgumentError{Want: OptionNumber, Raw: a.raw, Err: err}
	}
	return f, nil
}

// Bool returns the argument as a boolean. Text accepts true or false in any
// letter case.
func (a Argument) Bool() (bool, error) {
	if v, ok := a.value.(bool); ok {
		return v, nil
	}
	switch {
	case strings.EqualFold(a.raw, "true"):
		return true, nil
	case strings.EqualFold(a.raw, "false"):
		return false, nil
	}
	return false, &ArgumentError{Want: OptionBoolean, Raw: a.raw}
}

// UserID returns the user ID from a mention (<@id>, <@!id>) or a bare ID.
func (a Argument) UserID() (string, error) {
	return a.id(OptionUser, userMention)
}

// RoleID returns the role ID from a mention (<@&id>) or a bare ID.
func (a Argument) RoleID() (string, error) {
	return a.id(OptionRole, roleMention)
}

// ChannelID returns the channel ID from a mention (<#id>) or a bare ID.
func (a Argument) ChannelID() (string, error) {
	return a.id(OptionChannel, channelMention)
}

// MentionableID returns the ID of a user or role mention, or a bare ID.
func (a Argument) MentionableID() (string, error) {
	if id, err := a.UserID(); err == nil {
		return id, nil
	}
	if id, err := a.RoleID(); err == nil {
		return id, nil
	}
	return "", &ArgumentError{Want: OptionMentionable, Raw: a.raw}
}

func (a Argument) id(want OptionType, mention *regexp.Regexp) (string, error) {
	raw := strings.TrimSpace(a.raw)
	if m := mention.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if snowflake.MatchString(raw) {
		return raw, nil
	}
	return "", &ArgumentError{Want: want, Raw: a.raw}
}
