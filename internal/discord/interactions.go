package discord

import (
	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	embed "github.com/Clinet/discordgo-embed"
)

const EmbedColor = 0xb01e66

// buttonsPerRow is Discord's limit of buttons in one action row.
const buttonsPerRow = 5

// --- Reply conversion ---

// messageEmbed renders rich content as a Discord embed.
func messageEmbed(rc *cmd.RichContent) *discordgo.MessageEmbed {
	if rc == nil {
		return nil
	}
	color := rc.Color
	if color == cmd.ColorDefault {
		color = EmbedColor
	}
	e := embed.NewEmbed().SetColor(color)
	if rc.Title != "" {
		e = e.SetTitle(rc.Title)
	}
	if rc.Description != "" {
		e = e.SetDescription(rc.Description)
	}
	for _, f := range rc.Fields {
		e = e.AddField(f.Name, f.Value)
		e.Fields[len(e.Fields)-1].Inline = f.Inline
	}
	if rc.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: rc.Footer}
	}
	return e.MessageEmbed
}

func embeds(r cmd.Reply) []*discordgo.MessageEmbed {
	if r.Rich == nil {
		return nil
	}
	return []*discordgo.MessageEmbed{messageEmbed(r.Rich)}
}

func buttonStyle(s cmd.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case cmd.ButtonSecondary:
		return discordgo.SecondaryButton
	case cmd.ButtonSuccess:
		return discordgo.SuccessButton
	case cmd.ButtonDanger:
		return discordgo.DangerButton
	}
	return discordgo.PrimaryButton
}

// components lays buttons out in action rows.
func components(buttons []cmd.Button) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += buttonsPerRow {
		end := min(start+buttonsPerRow, len(buttons))
		row := discordgo.ActionsRow{}
		for _, b := range buttons[start:end] {
			row.Components = append(row.Components, discordgo.Button{
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				CustomID: b.CustomID,
				Disabled: b.Disabled,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func flags(r cmd.Reply) discordgo.MessageFlags {
	if r.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func messageSend(r cmd.Reply) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:    r.Content,
		Embeds:     embeds(r),
		Components: components(r.Buttons),
	}
}

func responseData(r cmd.Reply) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    r.Content,
		Embeds:     embeds(r),
		Components: components(r.Buttons),
		Flags:      flags(r),
	}
}

func webhookEdit(r cmd.Reply) *discordgo.WebhookEdit {
	content := r.Content
	edit := &discordgo.WebhookEdit{Content: &content}
	if em := embeds(r); em != nil {
		edit.Embeds = &em
	}
	if comps := components(r.Buttons); comps != nil {
		edit.Components = &comps
	}
	return edit
}

func webhookParams(r cmd.Reply) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:    r.Content,
		Embeds:     embeds(r),
		Components: components(r.Buttons),
		Flags:      flags(r),
	}
}

// --- Interaction responses ---

// Respond answers an interaction immediately with r.
func Respond(s Session, i *discordgo.Interaction, r cmd.Reply) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: responseData(r),
	})
}

// RespondDeferred acknowledges a command interaction; the answer comes later
// as an edit of the original response.
func RespondDeferred(s Session, i *discordgo.Interaction) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// RespondDeferredUpdate acknowledges a component interaction without changing
// the message it is attached to.
func RespondDeferredUpdate(s Session, i *discordgo.Interaction) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// EditResponse replaces the original interaction response with r.
func EditResponse(s Session, i *discordgo.Interaction, r cmd.Reply) (*discordgo.Message, error) {
	return s.InteractionResponseEdit(i, webhookEdit(r))
}

// Followup sends r as an additional message after the original response.
func Followup(s Session, i *discordgo.Interaction, r cmd.Reply) (*discordgo.Message, error) {
	return s.FollowupMessageCreate(i, true, webhookParams(r))
}

// --- Channel messages (non-interaction) ---

// Message sends r to a channel, as a reply to ref when ref is set.
func Message(s Session, channelID string, r cmd.Reply, ref *discordgo.MessageReference) (*discordgo.Message, error) {
	data := messageSend(r)
	data.Reference = ref
	return s.ChannelMessageSendComplex(channelID, data)
}
