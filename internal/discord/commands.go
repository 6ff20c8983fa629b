package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/keshon/commandframe/pkg/cmd"
	"github.com/keshon/commandframe/pkg/retrylimit"
	"github.com/keshon/commandframe/pkg/util"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// syncWorkers bounds how many guilds are synced at once.
const syncWorkers = 4

// Syncer pushes the registry's slash command definitions to Discord:
// it deletes obsolete commands and creates or updates commands whose
// definition changed since the last push.
type Syncer struct {
	session  Session
	registry *cmd.Registry
	settings *cmd.Settings
	cache    *hashCache
	limiter  *retrylimit.AdaptiveLimiter
	retry    retrylimit.Config
	log      zerolog.Logger
}

// NewSyncer returns a syncer caching definition hashes under cacheDir. An
// empty cacheDir disables the cache.
func NewSyncer(s Session, reg *cmd.Registry, settings *cmd.Settings, cacheDir string) *Syncer {
	retry := retrylimit.DefaultConfig()
	retry.StatusCode = restStatus

	syncer := &Syncer{
		session:  s,
		registry: reg,
		settings: settings,
		cache:    newHashCache(cacheDir),
		// stay well under Discord's rate limit
		limiter: retrylimit.NewAdaptiveLimiter(40, 1, 40, 1, 0.5),
		retry:   retry,
		log:     zerolog.Nop(),
	}
	syncer.retry.OnRetry = syncer.logRetry
	return syncer
}

// WithLogger sets the syncer's logger.
func (s *Syncer) WithLogger(l zerolog.Logger) *Syncer {
	s.log = l
	return s
}

func (s *Syncer) logRetry(attempt int, err error, delay time.Duration) {
	s.log.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("retrying discord request")
}

// restStatus reports the HTTP status of a failed Discord REST call.
func restStatus(err error) (int, bool) {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode, true
	}
	var limited *discordgo.RateLimitError
	if errors.As(err, &limited) {
		return http.StatusTooManyRequests, true
	}
	return 0, false
}

// call runs one rate limited REST request, retrying overload responses.
func (s *Syncer) call(ctx context.Context, fn func() error) error {
	return retrylimit.Do(ctx, s.limiter, s.retry, fn)
}

// Definitions returns one definition per registered alias.
func (s *Syncer) Definitions() []*discordgo.ApplicationCommand {
	entries := s.registry.Snapshot()
	defs := make([]*discordgo.ApplicationCommand, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, BuildCommand(e.Alias, e.Descriptor))
	}
	return defs
}

// Sync registers commands in every guild in guildIDs when slash commands
// are per guild, or once globally otherwise.
func (s *Syncer) Sync(ctx context.Context, appID string, guildIDs []string) error {
	if !s.settings.Load().SlashCommandsPerGuild {
		return s.SyncGlobal(ctx, appID)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	err := util.Parallel(ctx, guildIDs, syncWorkers, func(ctx context.Context, guildID string) error {
		// one failing guild must not cancel the others
		if err := s.SyncGuild(ctx, appID, guildID); err != nil {
			s.log.Error().Err(err).Str("guild", guildID).Msg("failed to sync commands")
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
		return nil
	})
	return errors.Join(append(errs, err)...)
}

// SyncGlobal syncs the application's global commands.
func (s *Syncer) SyncGlobal(ctx context.Context, appID string) error {
	return s.sync(ctx, appID, "")
}

// SyncGuild syncs one guild's commands.
func (s *Syncer) SyncGuild(ctx context.Context, appID, guildID string) error {
	return s.sync(ctx, appID, guildID)
}

func (s *Syncer) sync(ctx context.Context, appID, guildID string) error {
	log := s.log.With().Str("scope", scopeName(guildID)).Logger()

	var remote []*discordgo.ApplicationCommand
	err := s.call(ctx, func() (err error) {
		remote, err = s.session.ApplicationCommands(appID, guildID)
		return err
	})
	if err != nil {
		return fmt.Errorf("list commands in %s: %w", scopeName(guildID), err)
	}
	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, c := range remote {
		remoteByName[c.Name] = c
	}

	local := s.Definitions()
	hashes := s.cache.load(guildID)
	var errs []error

	if s.settings.Load().RemoveUnknownSlashCommands {
		errs = append(errs, s.deleteObsolete(ctx, log, appID, guildID, remoteByName, local, hashes)...)
	}
	errs = append(errs, s.upsertChanged(ctx, log, appID, guildID, remoteByName, local, hashes)...)

	if err := s.cache.save(guildID, hashes); err != nil {
		log.Warn().Err(err).Msg("failed to save command hashes")
	}
	return errors.Join(errs...)
}

// deleteObsolete removes commands from Discord that are no longer registered.
func (s *Syncer) deleteObsolete(ctx context.Context, log zerolog.Logger, appID, guildID string, remote map[string]*discordgo.ApplicationCommand, local []*discordgo.ApplicationCommand, hashes map[string]string) []error {
	localNames := make(map[string]struct{}, len(local))
	for _, d := range local {
		localNames[d.Name] = struct{}{}
	}

	var errs []error
	for name, rc := range remote {
		if _, exists := localNames[name]; exists {
			continue
		}
		if ctx.Err() != nil {
			return append(errs, ctx.Err())
		}
		log.Info().Str("command", name).Msg("deleting obsolete command")
		err := s.call(ctx, func() error {
			return s.session.ApplicationCommandDelete(appID, guildID, rc.ID)
		})
		if err != nil {
			log.Error().Err(err).Str("command", name).Msg("failed to delete command")
			errs = append(errs, fmt.Errorf("delete %s: %w", name, err))
			continue
		}
		delete(hashes, name)
	}
	return errs
}

// upsertChanged creates or updates commands whose hash differs from the
// cached one, or that are missing on Discord.
func (s *Syncer) upsertChanged(ctx context.Context, log zerolog.Logger, appID, guildID string, remote map[string]*discordgo.ApplicationCommand, local []*discordgo.ApplicationCommand, hashes map[string]string) []error {
	var errs []error
	for _, d := range local {
		h := hashCommand(d)
		if _, exists := remote[d.Name]; exists && hashes[d.Name] == h {
			continue
		}
		if ctx.Err() != nil {
			return append(errs, ctx.Err())
		}
		err := s.call(ctx, func() error {
			_, err := s.session.ApplicationCommandCreate(appID, guildID, d)
			return err
		})
		if err != nil {
			log.Error().Err(err).Str("command", d.Name).Msg("failed to register command")
			errs = append(errs, fmt.Errorf("register %s: %w", d.Name, err))
			continue
		}
		log.Info().Str("command", d.Name).Msg("registered command")
		hashes[d.Name] = h
	}
	return errs
}
