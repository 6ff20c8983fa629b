package cmd

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_Defaults(t *testing.T) {
	snap := NewSettings().Load()

	assert.Equal(t, "!", snap.Prefix)
	assert.True(t, snap.MentionPrefix)
	assert.True(t, snap.UnknownCommand)
	assert.False(t, snap.SlashCommandsPerGuild)
	assert.True(t, snap.RemoveUnknownSlashCommands)
	assert.True(t, snap.VerboseErrors)
	assert.Empty(t, snap.Owners())
}

func TestSettings_SnapshotsAreImmutable(t *testing.T) {
	s := NewSettings(WithOwners("a"))
	before := s.Load()

	s.SetPrefix("?")
	s.AddOwner("b")

	assert.Equal(t, "!", before.Prefix)
	assert.False(t, before.IsOwner("b"))

	after := s.Load()
	assert.Equal(t, "?", after.Prefix)
	assert.Equal(t, []string{"a", "b"}, after.Owners())
	assert.True(t, s.IsOwner("a"))
}

func TestSettings_UnknownCommandActionEnablesHandling(t *testing.T) {
	s := NewSettings(WithUnknownCommand(false))
	s.SetUnknownCommandAction(func(context.Context, string, Event) {})

	assert.True(t, s.Load().UnknownCommand)
	assert.NotNil(t, s.Load().UnknownCommandAction)
}

func TestSettings_ConcurrentUpdates(t *testing.T) {
	s := NewSettings()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.AddOwner(fmt.Sprintf("u%d-%d", i, j))
				_ = s.Load().Prefix
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Load().Owners(), 800)
}
