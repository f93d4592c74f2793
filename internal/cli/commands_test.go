package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/GriffinCanCode/DeskFolio/backend/internal/api/http"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/panel"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/storage"
)

func newServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	color.NoColor = true

	sessions := session.NewManager(storage.NewMemory(), session.Config{
		Desktop: desktop.Options{SkipBoot: true, ActionDelay: 10 * time.Millisecond, CloseDelay: 10 * time.Millisecond},
	})
	t.Cleanup(sessions.Shutdown)

	router := gin.New()
	apihttp.Register(router, apihttp.NewHandlers(sessions, panel.Builtin(), nil, nil, nil), nil)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", server}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func createSession(t *testing.T, server string) string {
	t.Helper()
	out, err := run(t, server, "session", "create", "--quiet")
	require.NoError(t, err)
	sid := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(sid, "sess_"), sid)
	return sid
}

func TestHealth(t *testing.T) {
	server := newServer(t)

	out, err := run(t, server, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "healthy")

	out, err = run(t, server, "health", "--json")
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "healthy", v["status"])
}

func TestSessionCommands(t *testing.T) {
	server := newServer(t)
	sid := createSession(t, server)

	out, err := run(t, server, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions - 1")
	assert.Contains(t, out, sid)

	out, err = run(t, server, "-s", sid, "session", "close")
	require.NoError(t, err)
	assert.Contains(t, out, "Closed "+sid)
}

func TestRequiresSession(t *testing.T) {
	server := newServer(t)

	_, err := run(t, server, "windows")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--session")
}

func TestWindowCommands(t *testing.T) {
	server := newServer(t)
	sid := createSession(t, server)

	out, err := run(t, server, "-s", sid, "windows", "open", "about")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened About Me")

	out, err = run(t, server, "-s", sid, "windows", "open", "pinball")
	require.NoError(t, err)
	assert.Contains(t, out, `No panel named "pinball"`)

	out, err = run(t, server, "-s", sid, "windows")
	require.NoError(t, err)
	assert.Contains(t, out, "Windows - 1")
	assert.Contains(t, out, "* about")
}

func TestRunCommand(t *testing.T) {
	server := newServer(t)
	sid := createSession(t, server)

	out, err := run(t, server, "-s", sid, "run", "echo", "hello", "there")
	require.NoError(t, err)
	assert.Equal(t, "hello there\n", out)

	out, err = run(t, server, "-s", sid, "run", "gallery")
	require.NoError(t, err)
	assert.Contains(t, out, "-> open_panel gallery")

	_, err = run(t, server, "-s", sid, "run")
	assert.Error(t, err)
}

func TestNoteAndWallpaperCommands(t *testing.T) {
	server := newServer(t)
	sid := createSession(t, server)

	out, err := run(t, server, "-s", sid, "note", "buy", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Added note")

	out, err = run(t, server, "-s", sid, "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "buy milk")

	out, err = run(t, server, "-s", sid, "wallpaper", "/wallpapers/lake.jpg", "--title", "Lake")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallpaper set to Lake")

	out, err = run(t, server, "-s", sid, "wallpaper")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallpaper reset to")
}

func TestSnapshotCommands(t *testing.T) {
	server := newServer(t)
	sid := createSession(t, server)

	_, err := run(t, server, "-s", sid, "windows", "open", "contact")
	require.NoError(t, err)

	out, err := run(t, server, "-s", sid, "snapshot", "save", "work", "--json")
	require.NoError(t, err)
	var info session.SnapshotInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "work", info.Name)

	out, err = run(t, server, "snapshots")
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshots - 1")

	other := createSession(t, server)
	out, err = run(t, server, "-s", other, "snapshot", "restore", info.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored")

	_, err = run(t, server, "snapshot", "rm", info.ID)
	require.NoError(t, err)
	_, err = run(t, server, "snapshot", "rm", info.ID)
	assert.Error(t, err)
}
