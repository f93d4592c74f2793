package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	apihttp "github.com/GriffinCanCode/DeskFolio/backend/internal/api/http"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/notes"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/wallpaper"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

// DefaultBaseURL is where a local server listens
const DefaultBaseURL = "http://localhost:8000"

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the desktop REST API. Server errors trip a circuit
// breaker so a dead server fails fast.
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.resty.SetTimeout(d) }
}

// WithRetry retries transport failures count times
func WithRetry(count int, wait time.Duration) Option {
	return func(c *Client) {
		c.resty.SetRetryCount(count).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(4 * wait)
	}
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		resty: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", "deskctl/1.0").
			SetHeader("Accept", "application/json"),
		breaker: resilience.New("deskctl", resilience.Settings{
			Timeout: 10 * time.Second,
			ReadyToTrip: func(counts resilience.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address
func (c *Client) BaseURL() string {
	return c.resty.BaseURL
}

type errorBody struct {
	Error string `json:"error"`
}

// call executes one request, decoding a 2xx body into out
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	req := c.resty.R().SetContext(ctx).SetError(&errorBody{})
	tracing.Inject(ctx, req.Header)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	var resp *resty.Response
	err := c.breaker.Do(func() error {
		var err error
		resp, err = req.Execute(method, path)
		if err != nil {
			return err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return apiError(resp)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	apiErr := &APIError{Status: resp.StatusCode()}
	if e, ok := resp.Error().(*errorBody); ok && e != nil {
		apiErr.Message = e.Error
	}
	return apiErr
}

func sessionPath(sid string, parts ...string) string {
	p := "/sessions/" + url.PathEscape(sid)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// Created is the response to CreateSession
type Created struct {
	SessionID string           `json:"session_id"`
	Desktop   desktop.Snapshot `json:"desktop"`
}

// Health returns the server's health report
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.call(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// CreateSession starts a desktop session
func (c *Client) CreateSession(ctx context.Context, req types.CreateSessionRequest) (Created, error) {
	var out Created
	err := c.call(ctx, http.MethodPost, "/sessions", req, &out)
	return out, err
}

// Sessions lists the live sessions
func (c *Client) Sessions(ctx context.Context) ([]session.Info, error) {
	var out struct {
		Sessions []session.Info `json:"sessions"`
	}
	err := c.call(ctx, http.MethodGet, "/sessions", nil, &out)
	return out.Sessions, err
}

// CloseSession tears a session down
func (c *Client) CloseSession(ctx context.Context, sid string) error {
	return c.call(ctx, http.MethodDelete, sessionPath(sid), nil, nil)
}

// Desktop returns the full renderable desktop
func (c *Client) Desktop(ctx context.Context, sid string) (desktop.Snapshot, error) {
	var out desktop.Snapshot
	err := c.call(ctx, http.MethodGet, sessionPath(sid), nil, &out)
	return out, err
}

// Windows lists open windows in z-order
func (c *Client) Windows(ctx context.Context, sid string) ([]window.Window, error) {
	var out struct {
		Windows []window.Window `json:"windows"`
	}
	err := c.call(ctx, http.MethodGet, sessionPath(sid, "windows"), nil, &out)
	return out.Windows, err
}

// OpenWindow opens a panel. The bool is false for unknown panels.
func (c *Client) OpenWindow(ctx context.Context, sid, panelID string) (window.Window, bool, error) {
	var out struct {
		Success bool          `json:"success"`
		Window  window.Window `json:"window"`
	}
	err := c.call(ctx, http.MethodPost, sessionPath(sid, "windows"), types.OpenPanelRequest{PanelID: panelID}, &out)
	return out.Window, out.Success, err
}

// CloseWindow starts a window's exit transition
func (c *Client) CloseWindow(ctx context.Context, sid, id string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	err := c.call(ctx, http.MethodDelete, sessionPath(sid, "windows", id), nil, &out)
	return out.Success, err
}

// Run submits one terminal line
func (c *Client) Run(ctx context.Context, sid, input string) (apihttp.TerminalResult, error) {
	var out struct {
		Result apihttp.TerminalResult `json:"result"`
	}
	err := c.call(ctx, http.MethodPost, sessionPath(sid, "terminal"), types.TerminalRequest{Input: input}, &out)
	return out.Result, err
}

// SetWallpaper shows a custom wallpaper
func (c *Client) SetWallpaper(ctx context.Context, sid, ref, title string) (wallpaper.Wallpaper, error) {
	var out wallpaper.Wallpaper
	err := c.call(ctx, http.MethodPut, sessionPath(sid, "wallpaper"),
		types.WallpaperRequest{ImageRef: ref, Title: title}, &out)
	return out, err
}

// ResetWallpaper restores the default wallpaper
func (c *Client) ResetWallpaper(ctx context.Context, sid string) (wallpaper.Wallpaper, error) {
	var out wallpaper.Wallpaper
	err := c.call(ctx, http.MethodDelete, sessionPath(sid, "wallpaper"), nil, &out)
	return out, err
}

// AddNote adds a note. The bool is false for blank content.
func (c *Client) AddNote(ctx context.Context, sid, content string) (notes.Note, bool, error) {
	var out struct {
		Success bool       `json:"success"`
		Note    notes.Note `json:"note"`
	}
	err := c.call(ctx, http.MethodPost, sessionPath(sid, "notes"), types.NoteRequest{Content: content}, &out)
	return out.Note, out.Success, err
}

// Notes lists a session's notes, newest first
func (c *Client) Notes(ctx context.Context, sid string) ([]notes.Note, error) {
	var out struct {
		Notes []notes.Note `json:"notes"`
	}
	err := c.call(ctx, http.MethodGet, sessionPath(sid, "notes"), nil, &out)
	return out.Notes, err
}

// SaveSnapshot stores the session's layout under name
func (c *Client) SaveSnapshot(ctx context.Context, sid, name, description string) (session.SnapshotInfo, error) {
	var out struct {
		Snapshot session.SnapshotInfo `json:"snapshot"`
	}
	err := c.call(ctx, http.MethodPost, sessionPath(sid, "snapshots"),
		types.SnapshotRequest{Name: name, Description: description}, &out)
	return out.Snapshot, err
}

// Snapshots lists saved layouts, newest first
func (c *Client) Snapshots(ctx context.Context) ([]session.SnapshotInfo, error) {
	var out struct {
		Snapshots []session.SnapshotInfo `json:"snapshots"`
	}
	err := c.call(ctx, http.MethodGet, "/snapshots", nil, &out)
	return out.Snapshots, err
}

// RestoreSnapshot applies a saved layout to a session
func (c *Client) RestoreSnapshot(ctx context.Context, sid, snapshotID string) error {
	return c.call(ctx, http.MethodPost, sessionPath(sid, "snapshots", snapshotID, "restore"), nil, nil)
}

// DeleteSnapshot removes a saved layout
func (c *Client) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	return c.call(ctx, http.MethodDelete, "/snapshots/"+url.PathEscape(snapshotID), nil, nil)
}
