package cmd

import "strings"

const (
	ColorRed     = 0xe74c3c
	ColorDefault = 0
)

// Reply is a transport-neutral response: plain text, a rich block, or both,
// optionally with buttons.
type Reply struct {
	Content   string
	Rich      *RichContent
	Buttons   []Button
	Ephemeral bool
}

// RichContent is a titled block with optional fields. Color 0 lets the
// adapter choose.
type RichContent struct {
	Title       string
	Description string
	Color       int
	Footer      string
	Fields      []Field
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

type ButtonStyle uint8

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

// Button is a clickable component. CustomID must start with the alias of the
// command that handles the click, followed by a space and any payload.
type Button struct {
	Label    string
	CustomID string
	Style    ButtonStyle
	Disabled bool
}

// Text builds a plain text reply.
func Text(content string) Reply { return Reply{Content: content} }

// Rich builds a reply carrying a single rich block.
func Rich(rc RichContent) Reply { return Reply{Rich: &rc} }

// WithButtons returns r with buttons appended.
func (r Reply) WithButtons(buttons ...Button) Reply {
	r.Buttons = append(append([]Button(nil), r.Buttons...), buttons...)
	return r
}

// MaxCustomIDLength is the longest custom ID Discord accepts on a component.
const MaxCustomIDLength = 100

// CustomID joins alias and payload into a component custom ID.
func CustomID(alias string, payload ...string) string {
	return strings.Join(append([]string{strings.ToLower(alias)}, payload...), " ")
}

// ComponentAlias returns the alias a component custom ID routes to: its
// leading whitespace-delimited token.
func ComponentAlias(customID string) string {
	fields := strings.Fields(customID)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// ComponentPayload returns the custom ID tokens after the alias.
func ComponentPayload(customID string) []string {
	fields := strings.Fields(customID)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}
