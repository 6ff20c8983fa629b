package discord

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

var bridgeOnce sync.Once

// BridgeLogs routes discordgo's internal log output into l.
func BridgeLogs(l zerolog.Logger) {
	bridgeOnce.Do(func() {
		discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
			l.WithLevel(discordgoLevel(msgL)).
				Str("component", "discordgo").
				Msg(fmt.Sprintf(format, a...))
		}
	})
}

func discordgoLevel(msgL int) zerolog.Level {
	switch msgL {
	case discordgo.LogError:
		return zerolog.ErrorLevel
	case discordgo.LogWarning:
		return zerolog.WarnLevel
	case discordgo.LogInformational:
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

// logLevel picks discordgo's own verbosity to match l.
func logLevel(l zerolog.Logger) int {
	switch {
	case l.GetLevel() <= zerolog.DebugLevel:
		return discordgo.LogDebug
	case l.GetLevel() <= zerolog.InfoLevel:
		return discordgo.LogInformational
	case l.GetLevel() <= zerolog.WarnLevel:
		return discordgo.LogWarning
	}
	return discordgo.LogError
}
