package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/interaction"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 32
)

// Client intents
const (
	TypePointerDown     = "pointer_down"
	TypePointerMove     = "pointer_move"
	TypePointerUp       = "pointer_up"
	TypeDoubleClick     = "double_click"
	TypeKeyDown         = "key_down"
	TypeTerminalSubmit  = "terminal_submit"
	TypeTerminalKey     = "terminal_key"
	TypeTerminalInput   = "terminal_input"
	TypeWidgetDragStart = "widget_drag_start"
	TypeWidgetDragMove  = "widget_drag_move"
	TypeWidgetDragEnd   = "widget_drag_end"
	TypeViewport        = "viewport"
	TypePing            = "ping"
)

// Server messages
const (
	TypeSnapshot       = "snapshot"
	TypeTerminalResult = "terminal_result"
	TypePong           = "pong"
	TypeError          = "error"
	TypeClosed         = "closed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS middleware
	},
}

// Handler streams desktop snapshots to a browser tab and applies its
// pointer, keyboard and terminal intents
type Handler struct {
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler. metrics may be nil.
func NewHandler(sessions *session.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, metrics: metrics, logger: logger}
}

// conn serializes writes to one socket
type conn struct {
	ws      *websocket.Conn
	desktop *desktop.Desktop
	send    chan any
	notify  chan struct{}
	done    chan struct{}
	once    sync.Once
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// HandleConnection upgrades the request and serves the session stream
func (h *Handler) HandleConnection(c *gin.Context) {
	sid := c.Param("sid")
	if err := utils.ValidateID(sid, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.sessions.Get(sid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	logger := tracing.Logger(c.Request.Context(), h.logger).With(zap.String("session_id", sid))

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	detach := s.Attach()
	defer detach()
	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	cn := &conn{
		ws:      ws,
		desktop: s.Desktop(),
		send:    make(chan any, sendBuffer),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
		metrics: h.metrics,
	}

	unsubscribe := cn.desktop.Subscribe(func(uint64) {
		select {
		case cn.notify <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	logger.Debug("WebSocket connected")
	go cn.writeLoop()
	select {
	case cn.notify <- struct{}{}:
	default:
	}
	cn.readLoop(func() { _, _ = h.sessions.Get(sid) })
	logger.Debug("WebSocket disconnected")
}

// readLoop dispatches client intents until the socket fails. touch marks
// the session active.
func (cn *conn) readLoop(touch func()) {
	defer cn.close()

	cn.ws.SetReadLimit(utils.MaxMessageSize)
	_ = cn.ws.SetReadDeadline(time.Now().Add(pongWait))
	cn.ws.SetPongHandler(func(string) error {
		return cn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cn.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = cn.ws.SetReadDeadline(time.Now().Add(pongWait))

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			cn.reply(errorMessage("malformed message"))
			continue
		}
		if cn.metrics != nil {
			cn.metrics.RecordWSMessage("in", msg.Type)
		}
		touch()
		cn.dispatch(msg)
	}
}

// dispatch applies one intent. Intents naming unknown windows or widgets
// are ignored like any other no-op.
func (cn *conn) dispatch(msg types.WSMessage) {
	d := cn.desktop
	if d.Closed() {
		cn.reply(map[string]any{"type": TypeClosed})
		return
	}

	switch msg.Type {
	case TypePointerDown:
		if msg.Pointer == nil {
			cn.reply(errorMessage("pointer required"))
			return
		}
		d.PointerDown(msg.WindowID, interaction.Region(msg.Region), interaction.Button(msg.Button), *msg.Pointer)
	case TypePointerMove, TypeWidgetDragMove:
		if msg.Pointer != nil {
			d.PointerMove(*msg.Pointer)
		}
	case TypePointerUp, TypeWidgetDragEnd:
		d.PointerUp()
	case TypeDoubleClick:
		d.DoubleClick(msg.WindowID, interaction.Region(msg.Region))
	case TypeKeyDown:
		d.KeyDown(msg.WindowID, msg.Key)
	case TypeWidgetDragStart:
		if msg.Pointer == nil {
			cn.reply(errorMessage("pointer required"))
			return
		}
		d.WidgetDragStart(msg.WidgetID, *msg.Pointer)
	case TypeTerminalSubmit:
		if err := utils.ValidateTerminalInput(msg.Input); err != nil {
			cn.reply(errorMessage(err.Error()))
			return
		}
		cn.reply(terminalMessage(d.TerminalSubmit(msg.Input)))
	case TypeTerminalKey:
		d.TerminalKey(msg.Key)
	case TypeTerminalInput:
		if err := utils.ValidateTerminalInput(msg.Input); err != nil {
			cn.reply(errorMessage(err.Error()))
			return
		}
		d.TerminalInput(msg.Input)
	case TypeViewport:
		d.SetViewport(types.Size{Width: msg.Width, Height: msg.Height})
	case TypePing:
		cn.reply(map[string]any{"type": TypePong, "timestamp": time.Now().UnixMilli()})
	default:
		cn.reply(errorMessage("unknown message type"))
	}
}

// writeLoop owns every write to the socket
func (cn *conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cn.ws.Close()
	}()

	var sent uint64
	for {
		select {
		case <-cn.done:
			_ = cn.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case msg := <-cn.send:
			if !cn.write(msg) {
				return
			}
		case <-cn.notify:
			if cn.desktop.Closed() {
				cn.write(map[string]any{"type": TypeClosed})
				cn.close()
				continue
			}
			snap := cn.desktop.Snapshot()
			if snap.Version == sent && sent != 0 {
				continue
			}
			sent = snap.Version
			if !cn.write(map[string]any{"type": TypeSnapshot, "desktop": snap}) {
				return
			}
		case <-ticker.C:
			_ = cn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (cn *conn) write(msg any) bool {
	data, err := sonic.Marshal(msg)
	if err != nil {
		cn.logger.Error("Failed to encode message", zap.Error(err))
		return true
	}
	_ = cn.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := cn.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		cn.logger.Debug("WebSocket write failed", zap.Error(err))
		cn.close()
		return false
	}
	if cn.metrics != nil {
		if m, ok := msg.(map[string]any); ok {
			if t, ok := m["type"].(string); ok {
				cn.metrics.RecordWSMessage("out", t)
			}
		}
	}
	return true
}

// reply queues a message without blocking the reader
func (cn *conn) reply(msg any) {
	select {
	case cn.send <- msg:
	case <-cn.done:
	default:
		cn.logger.Warn("Send buffer full, dropping message")
	}
}

func (cn *conn) close() {
	cn.once.Do(func() { close(cn.done) })
}

func errorMessage(message string) map[string]any {
	return map[string]any{
		"type":      TypeError,
		"message":   message,
		"timestamp": time.Now().UnixMilli(),
	}
}

func terminalMessage(res terminal.Result) map[string]any {
	out := res.Output
	if out == nil {
		out = []terminal.Line{}
	}
	return map[string]any{
		"type":    TypeTerminalResult,
		"command": res.Name,
		"output":  out,
		"action":  res.Action,
		"clear":   res.Clear,
	}
}
