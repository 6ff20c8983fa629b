package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/commandframe/pkg/cmd"
	"github.com/keshon/commandframe/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot connects a dispatcher to the Discord gateway.
type Bot struct {
	token      string
	dg         *discordgo.Session
	router     *Router
	syncer     *Syncer
	dispatcher *cmd.Dispatcher
	jobs       *jobmgr.Manager
	log        zerolog.Logger
	ctx        context.Context

	mu    sync.Mutex
	app   string
	ready map[string]struct{} // guilds announced by READY, synced by sync:all
}

// NewBot returns a bot for token. cacheDir holds slash command hashes.
func NewBot(token, cacheDir string, d *cmd.Dispatcher, log zerolog.Logger) *Bot {
	return &Bot{
		token:      token,
		dispatcher: d,
		router:     NewRouter(d, log),
		jobs:       jobmgr.NewManager(jobReporter(log)),
		log:        log,
		ctx:        context.Background(),
		ready:      make(map[string]struct{}),
		// the session is attached in Run
		syncer: NewSyncer(nil, d.Registry(), d.Settings(), cacheDir).WithLogger(log),
	}
}

func jobReporter(log zerolog.Logger) jobmgr.Reporter {
	return func(ev jobmgr.Event) {
		switch ev.State {
		case jobmgr.StateFailed:
			log.Error().Err(ev.Err).Str("job", ev.Name).Msg("job failed")
		default:
			log.Debug().Str("job", ev.Name).Str("state", string(ev.State)).Msg("job")
		}
	}
}

// Run connects to Discord and blocks until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg
	b.ctx = ctx
	b.syncer.session = dg

	BridgeLogs(b.log)
	dg.LogLevel = logLevel(b.log)
	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onGuildDelete)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, cleaning up")
	b.jobs.StopAll()
	b.jobs.Wait()
	b.dispatcher.Wait()
	return nil
}

// Latency reports the gateway heartbeat latency, zero before Run connects.
func (b *Bot) Latency() time.Duration {
	if b.dg == nil {
		return 0
	}
	return b.dg.HeartbeatLatency()
}

// Jobs returns the names of running background jobs.
func (b *Bot) Jobs() []string {
	return b.jobs.List()
}

// configureIntents configures the Discord intents
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	guildIDs := make([]string, 0, len(r.Guilds))
	ready := make(map[string]struct{}, len(r.Guilds))
	for _, g := range r.Guilds {
		guildIDs = append(guildIDs, g.ID)
		ready[g.ID] = struct{}{}
	}

	app := appID(r)
	b.mu.Lock()
	b.app = app
	b.ready = ready
	b.mu.Unlock()

	if err := b.jobs.Start(b.ctx, "sync:all", func(ctx context.Context) error {
		return b.syncer.Sync(ctx, app, guildIDs)
	}); err != nil {
		b.log.Warn().Err(err).Msg("slash command sync skipped")
	}

	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(guildIDs)).
		Int("commands", b.dispatcher.Registry().Len()).
		Msg("discord bot is running")
}

// onGuildCreate registers per-guild commands in guilds joined after startup.
// The gateway also sends GUILD_CREATE for every guild listed in READY; those
// are covered by sync:all.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !b.dispatcher.Settings().Load().SlashCommandsPerGuild {
		return
	}

	b.mu.Lock()
	app := b.app
	_, announced := b.ready[g.ID]
	b.mu.Unlock()
	if app == "" || announced {
		return
	}

	if err := b.jobs.Start(b.ctx, "sync:"+g.ID, func(ctx context.Context) error {
		return b.syncer.SyncGuild(ctx, app, g.ID)
	}); err != nil {
		b.log.Debug().Err(err).Str("guild", g.ID).Msg("guild sync already running")
	}
}

// onGuildDelete cancels a pending sync for a guild the bot left.
func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	b.mu.Lock()
	delete(b.ready, g.ID)
	b.mu.Unlock()

	if err := b.jobs.Stop("sync:" + g.ID); err == nil {
		b.log.Debug().Str("guild", g.ID).Msg("guild sync cancelled")
	}
}

// onMessageCreate is called when a message is created
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	selfID := ""
	if s.State.User != nil {
		selfID = s.State.User.ID
	}
	b.router.HandleMessage(b.ctx, s, selfID, m.Message)
}

// onInteractionCreate is called when an interaction is created
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.router.HandleInteraction(b.ctx, s, i.Interaction)
}

func appID(r *discordgo.Ready) string {
	if r.Application != nil && r.Application.ID != "" {
		return r.Application.ID
	}
	return r.User.ID
}
