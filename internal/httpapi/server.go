// Package httpapi serves a read-only view of the command registry: what is
// registered, who may run it and the slash command schema each alias syncs as.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/keshon/commandframe/internal/discord"
	"github.com/keshon/commandframe/internal/middleware"
	"github.com/keshon/commandframe/pkg/cmd"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr     string
	registry *cmd.Registry
	settings *cmd.Settings
	log      zerolog.Logger
	engine   *gin.Engine
	jobs     func() []string
}

type commandView struct {
	Alias               string         `json:"alias"`
	Help                string         `json:"help"`
	AvailableToEveryone bool           `json:"available_to_everyone"`
	Permissions         string         `json:"permissions,omitempty"`
	Arguments           []argumentView `json:"arguments,omitempty"`
	Components          bool           `json:"components"`
}

type argumentView struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Choices     []string `json:"choices,omitempty"`
}

func New(addr string, reg *cmd.Registry, settings *cmd.Settings, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:     addr,
		registry: reg,
		settings: settings,
		log:      log.With().Str("component", "httpapi").Logger(),
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())

	s.engine.GET("/healthz", s.healthz)
	s.engine.GET("/commands", s.listCommands)
	s.engine.GET("/commands/:alias", s.getCommand)
	s.engine.GET("/commands/:alias/schema", s.getSchema)
	return s
}

// WithJobs reports the running background jobs from /healthz.
func (s *Server) WithJobs(jobs func() []string) *Server {
	s.jobs = jobs
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn().Err(err).Msg("http shutdown")
		}
	}()

	s.log.Info().Str("addr", s.addr).Msg("http server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

func (s *Server) healthz(c *gin.Context) {
	jobs := []string{}
	if s.jobs != nil {
		jobs = append(jobs, s.jobs()...)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"commands": s.registry.Len(),
		"prefix":   s.settings.Prefix(),
		"jobs":     jobs,
	})
}

func (s *Server) listCommands(c *gin.Context) {
	entries := s.registry.Snapshot()
	views := make([]commandView, 0, len(entries))
	for _, e := range entries {
		views = append(views, view(e.Alias, e.Descriptor))
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getCommand(c *gin.Context) {
	alias := strings.ToLower(c.Param("alias"))
	d, ok := s.registry.Lookup(alias)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown command"})
		return
	}
	c.JSON(http.StatusOK, view(alias, d))
}

func (s *Server) getSchema(c *gin.Context) {
	alias := strings.ToLower(c.Param("alias"))
	d, ok := s.registry.Lookup(alias)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown command"})
		return
	}
	c.JSON(http.StatusOK, discord.BuildCommand(alias, d))
}

func view(alias string, d *cmd.Descriptor) commandView {
	_, components := d.ComponentHandler()
	return commandView{
		Alias:               alias,
		Help:                d.Help(),
		AvailableToEveryone: d.AvailableToEveryone(),
		Permissions:         middleware.DescribePermissions(d.RequiredPermissions()),
		Arguments:           arguments(d.Arguments()),
		Components:          components,
	}
}

func arguments(templates []cmd.Template) []argumentView {
	var views []argumentView
	for _, t := range templates {
		views = append(views, argumentView{
			Name:        t.Name,
			Type:        t.Type.String(),
			Description: t.Description,
			Required:    t.Required,
			Choices:     t.Choices,
		})
	}
	return views
}
