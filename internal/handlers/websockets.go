package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sensor_dashboard/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // clients only send control frames

	defaultStreamInterval = 2 * time.Second
	minStreamInterval     = 10 * time.Millisecond
	maxStreamInterval     = time.Minute

	frameSnapshot = "snapshot"
)

// wsEnvelope is the frame written to chart clients.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Origins are filtered by the CORS layer in front of the router.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsSession is one chart client. Only the writer goroutine writes to conn.
type wsSession struct {
	conn     *websocket.Conn
	log      *logger.Logger
	interval time.Duration
	closed   chan struct{}
}

func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Warnw("ws_upgrade_failed", "err", err)
		}
		return
	}
	s := &wsSession{conn: conn, log: h.log, interval: interval, closed: make(chan struct{})}
	defer func() { _ = conn.Close() }()

	go s.readLoop()
	s.writeLoop(c.Request.Context(), h.currentSnapshot)
}

// parseInterval reads ?interval=2s or ?interval_ms=2000; out-of-range or
// malformed values fall back to the default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && inStreamRange(d) {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && inStreamRange(time.Duration(v)*time.Millisecond) {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultStreamInterval
}

func inStreamRange(d time.Duration) bool {
	return d >= minStreamInterval && d <= maxStreamInterval
}

// readLoop consumes control frames and closes s.closed when the peer goes away.
func (s *wsSession) readLoop() {
	defer close(s.closed)
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.debug("ws_read_closed", err)
			return
		}
	}
}

// writeLoop sends a snapshot right away and then every interval, with pings in between.
func (s *wsSession) writeLoop(ctx context.Context, snap func(context.Context) snapshot) {
	frames := time.NewTicker(s.interval)
	pings := time.NewTicker(pingPeriod)
	defer frames.Stop()
	defer pings.Stop()

	if err := s.write(wsEnvelope{Type: frameSnapshot, Data: snap(ctx)}); err != nil {
		s.debug("ws_write_failed_initial", err)
		return
	}
	for {
		select {
		case <-s.closed:
			return
		case <-ctx.Done():
			return
		case <-pings.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.debug("ws_ping_failed", err)
				return
			}
		case <-frames.C:
			if err := s.write(wsEnvelope{Type: frameSnapshot, Data: snap(ctx)}); err != nil {
				s.debug("ws_write_failed", err)
				return
			}
		}
	}
}

func (s *wsSession) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

func (s *wsSession) debug(key string, err error) {
	if s.log != nil {
		s.log.Debugw(key, "err", err)
	}
}
