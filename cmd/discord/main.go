// cmd/discord/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/keshon/commandframe/internal/commands"
	"github.com/keshon/commandframe/internal/config"
	"github.com/keshon/commandframe/internal/discord"
	"github.com/keshon/commandframe/internal/httpapi"
	"github.com/keshon/commandframe/internal/logging"
	"github.com/keshon/commandframe/internal/middleware"
	"github.com/keshon/commandframe/internal/privileges"
	"github.com/keshon/commandframe/pkg/cmd"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile, tokenFile, prefix string

	flagSet := pflag.NewFlagSet("discord", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.StringVar(&tokenFile, "token-file", "", "file holding the bot token (overrides DISCORD_TOKEN_FILE)")
	flagSet.StringVar(&prefix, "prefix", "", "text command prefix (overrides COMMAND_PREFIX)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if tokenFile != "" {
		cfg.DiscordTokenFile = tokenFile
	}
	if prefix != "" {
		cfg.Prefix = prefix
	}

	log := logging.Setup(cfg.LogLevel, cfg.LogPretty)
	log.Info().Msg("starting discord bot")

	token, err := cfg.ResolveToken()
	if err != nil {
		return err
	}

	table, err := privileges.Load(cfg.PrivilegesFile)
	if err != nil {
		return err
	}

	settings := cmd.NewSettings(cfg.SettingsOptions()...)
	reg := cmd.NewRegistry()
	dispatcher := cmd.NewDispatcher(reg, settings, cmd.WithLogger(log))
	bot := discord.NewBot(token, cfg.CommandCacheDir, dispatcher, log)

	if err := registerCommands(reg, settings, table, bot, log); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- bot.Run(ctx) }()

	if cfg.HTTPAddr != "" {
		srv := httpapi.New(cfg.HTTPAddr, reg, settings, log).WithJobs(bot.Jobs)
		go func() { errCh <- srv.Run(ctx) }()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	case err := <-errCh:
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("bot exited")
			return err
		}
	}

	log.Info().Msg("discord bot exited cleanly")
	return nil
}

func registerCommands(reg *cmd.Registry, settings *cmd.Settings, table *privileges.Table, bot *discord.Bot, log zerolog.Logger) error {
	register := func(c cmd.Command, alias string, aliases ...string) error {
		all := append([]string{alias}, aliases...)
		c = cmd.Apply(c,
			table.Middleware(all...),
			middleware.WithCommandLogger(log),
		)
		return reg.RegisterCommand(c, all...)
	}

	return errors.Join(
		register(&commands.Help{Registry: reg}, "help", "commands"),
		register(&commands.Ping{Latency: bot.Latency}, "ping"),
		register(&commands.Roll{}, "roll"),
		register(cmd.Apply(&commands.Prefix{Settings: settings}, middleware.WithGuildOnly()), "prefix"),
	)
}
