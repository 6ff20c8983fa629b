package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/keshon/commandframe/pkg/cmd"
)

var ErrNoToken = errors.New("DISCORD_TOKEN is not set and no token file was found")

type Config struct {
	DiscordToken     string `env:"DISCORD_TOKEN"`
	DiscordTokenFile string `env:"DISCORD_TOKEN_FILE" envDefault:".token"`

	Prefix                     string   `env:"COMMAND_PREFIX" envDefault:"!"`
	Owners                     []string `env:"BOT_OWNERS" envSeparator:","`
	MentionPrefix              bool     `env:"MENTION_PREFIX" envDefault:"true"`
	UnknownCommandReply        bool     `env:"UNKNOWN_COMMAND_REPLY" envDefault:"true"`
	SlashCommandsPerGuild      bool     `env:"SLASH_COMMANDS_PER_GUILD" envDefault:"false"`
	RemoveUnknownSlashCommands bool     `env:"REMOVE_UNKNOWN_SLASH_COMMANDS" envDefault:"true"`
	VerboseErrors              bool     `env:"VERBOSE_ERRORS" envDefault:"true"`

	CommandCacheDir string `env:"COMMAND_CACHE_DIR" envDefault:"data/commands"`
	PrivilegesFile  string `env:"PRIVILEGES_FILE"`
	HTTPAddr        string `env:"HTTP_ADDR"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads the given env files, when present, into the process environment
// and parses it. Variables already set take precedence over file values.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// ResolveToken returns DISCORD_TOKEN, falling back to the token file.
func (c *Config) ResolveToken() (string, error) {
	if t := strings.TrimSpace(c.DiscordToken); t != "" {
		return t, nil
	}
	if c.DiscordTokenFile == "" {
		return "", ErrNoToken
	}

	data, err := os.ReadFile(c.DiscordTokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	t := strings.TrimSpace(string(data))
	if t == "" {
		return "", ErrNoToken
	}
	return t, nil
}

// SettingsOptions maps the config onto dispatcher settings.
func (c *Config) SettingsOptions() []cmd.Option {
	owners := make([]string, 0, len(c.Owners))
	for _, id := range c.Owners {
		owners = append(owners, strings.TrimSpace(id))
	}

	return []cmd.Option{
		cmd.WithPrefix(c.Prefix),
		cmd.WithOwners(owners...),
		cmd.WithMentionPrefix(c.MentionPrefix),
		cmd.WithUnknownCommand(c.UnknownCommandReply),
		cmd.WithSlashCommandsPerGuild(c.SlashCommandsPerGuild),
		cmd.WithRemoveUnknownSlashCommands(c.RemoveUnknownSlashCommands),
		cmd.WithVerboseErrors(c.VerboseErrors),
	}
}
