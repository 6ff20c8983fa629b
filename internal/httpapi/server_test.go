package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/commandframe/internal/middleware"
	"github.com/keshon/commandframe/pkg/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greet struct{}

func (greet) Help() string                         { return "Say hello" }
func (greet) Run(context.Context, cmd.Event) error { return nil }
func (greet) Arguments() []cmd.Template {
	return []cmd.Template{cmd.StringChoices("tone", "How", true, "warm", "cold")}
}

func newServer(t *testing.T) *Server {
	t.Helper()
	reg := cmd.NewRegistry()
	require.NoError(t, reg.RegisterCommand(greet{}, "greet", "hi"))
	require.NoError(t, reg.RegisterCommand(
		cmd.Apply(greet{}, middleware.WithRequiredPermissions(discordgo.PermissionBanMembers)), "ban"))
	return New(":0", reg, cmd.NewSettings(cmd.WithPrefix("?")), zerolog.Nop())
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newServer(t), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["commands"])
	assert.Equal(t, "?", body["prefix"])
	assert.Equal(t, []any{}, body["jobs"])
}

func TestHealthz_Jobs(t *testing.T) {
	s := newServer(t).WithJobs(func() []string { return []string{"sync:all", "sync:g2"} })
	rec := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Jobs []string `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"sync:all", "sync:g2"}, body.Jobs)
}

func TestListCommands(t *testing.T) {
	rec := get(t, newServer(t), "/commands")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []commandView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 3)
	assert.Equal(t, "ban", views[0].Alias)
	assert.Equal(t, "Ban Members", views[0].Permissions)
	assert.Equal(t, "greet", views[1].Alias)
	require.Len(t, views[1].Arguments, 1)
	assert.Equal(t, "string", views[1].Arguments[0].Type)
	assert.Equal(t, []string{"warm", "cold"}, views[1].Arguments[0].Choices)
}

func TestGetCommand(t *testing.T) {
	s := newServer(t)

	rec := get(t, s, "/commands/HI")
	require.Equal(t, http.StatusOK, rec.Code)
	var v commandView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "hi", v.Alias)
	assert.Equal(t, "Say hello", v.Help)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/commands/nope").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/commands/nope/schema").Code)
}

func TestGetSchema(t *testing.T) {
	rec := get(t, newServer(t), "/commands/greet/schema")
	require.Equal(t, http.StatusOK, rec.Code)

	var schema discordgo.ApplicationCommand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, "greet", schema.Name)
	assert.Equal(t, "Say hello", schema.Description)
	require.Len(t, schema.Options, 1)
	assert.Equal(t, discordgo.ApplicationCommandOptionString, schema.Options[0].Type)
	assert.Len(t, schema.Options[0].Choices, 2)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New("127.0.0.1:0", cmd.NewRegistry(), cmd.NewSettings(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
