package discord

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// fakeSession records every call the adapter makes.
type fakeSession struct {
	mu sync.Mutex

	sent      []*discordgo.MessageSend
	deleted   []string
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
	respDels  int

	remote        map[string][]*discordgo.ApplicationCommand
	created       []string
	removed       []string
	failCreate    map[string]bool
	flaky         map[string]int
	listErr       error
	respondErr    error
	nextMessageID int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		remote:     map[string][]*discordgo.ApplicationCommand{},
		failCreate: map[string]bool{},
		flaky:      map[string]int{},
	}
}

func (f *fakeSession) message() *discordgo.Message {
	f.nextMessageID++
	return &discordgo.Message{ID: fmt.Sprintf("m%d", f.nextMessageID)}
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	m := f.message()
	m.ChannelID = channelID
	return m, nil
}

func (f *fakeSession) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID+"/"+messageID)
	return nil
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.respondErr != nil {
		return f.respondErr
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeSession) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return f.message(), nil
}

func (f *fakeSession) InteractionResponseDelete(_ *discordgo.Interaction, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respDels++
	return nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data)
	return f.message(), nil
}

func (f *fakeSession) ApplicationCommands(_, guildID string, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*discordgo.ApplicationCommand(nil), f.remote[guildID]...), nil
}

func (f *fakeSession) ApplicationCommandCreate(_ string, guildID string, c *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate[c.Name] {
		return nil, errors.New("rejected")
	}
	if f.flaky[c.Name] > 0 {
		f.flaky[c.Name]--
		return nil, &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}}
	}
	f.created = append(f.created, scopeName(guildID)+":"+c.Name)
	out := *c
	out.ID = "id-" + c.Name
	f.remote[guildID] = append(f.remote[guildID], &out)
	return &out, nil
}

func (f *fakeSession) ApplicationCommandDelete(_, guildID, cmdID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, scopeName(guildID)+":"+cmdID)
	kept := f.remote[guildID][:0]
	for _, c := range f.remote[guildID] {
		if c.ID != cmdID {
			kept = append(kept, c)
		}
	}
	f.remote[guildID] = kept
	return nil
}
