package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/protocol"
)

// conn is one WebSocket connection.
type conn struct {
	id     string
	srv    *Server
	ws     *websocket.Conn
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// subs is only touched on the hub goroutine.
	subs map[string]*subscription
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{
		id:     uuid.NewString(),
		srv:    s,
		ws:     ws,
		ctx:    ctx,
		cancel: cancel,
		send:   make(chan []byte, s.config.SendQueue),
		done:   make(chan struct{}),
		subs:   make(map[string]*subscription),
	}
	c.logger = s.logger.With("conn", c.id)

	s.register(c)
	c.logger.Debug("connection opened", "remote", r.RemoteAddr)
	c.enqueue(protocol.Hello(c.id))

	go c.writeLoop()
	go c.readLoop()
}

// readLoop reads client frames and runs them on the hub until the
// connection fails or is closed.
func (c *conn) readLoop() {
	defer c.close(websocket.CloseNormalClosure, "")

	cfg := c.srv.config
	c.ws.SetReadLimit(cfg.MaxMessageSize * 4)
	c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		msg, err := protocol.Decode(data, int(cfg.MaxMessageSize))
		if err != nil {
			c.protocolError(nil, err)
			continue
		}
		if msg.Type == protocol.TypePing {
			c.enqueue(protocol.Pong(msg))
			continue
		}

		if err := c.srv.hub.Do(c.ctx, func() { c.handle(msg) }); err != nil {
			c.logger.Debug("hub unavailable", "error", err)
			return
		}
	}
}

// writeLoop writes queued messages and heartbeat pings.
func (c *conn) writeLoop() {
	cfg := c.srv.config
	ticker := time.NewTicker(cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("write error", "error", err)
				c.close(websocket.CloseAbnormalClosure, "")
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(cfg.WriteTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.close(websocket.CloseAbnormalClosure, "")
				return
			}

		case <-c.done:
			return
		}
	}
}

// enqueue encodes m on the calling goroutine and queues it for the write
// loop. A full queue closes the connection.
func (c *conn) enqueue(m *protocol.Message) {
	data, err := protocol.Encode(m)
	if err != nil {
		c.logger.Error("encode error", "type", m.Type, "error", err)
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("send queue full, closing connection")
		go c.close(websocket.ClosePolicyViolation, "send queue full")
	}
}

func (c *conn) protocolError(req *protocol.Message, err error) {
	if m := c.srv.config.Metrics; m != nil {
		m.RecordProtocolError(errors.Code(err))
	}
	c.logger.Debug("protocol error", "error", errors.FromError(err, "H060").FormatCompact())
	c.enqueue(protocol.Error(req, err, false))
}

// close tears the connection down once. Subscriptions are unmounted on the
// hub.
func (c *conn) close(code int, reason string) {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.done)

		deadline := time.Now().Add(c.srv.config.WriteTimeout)
		c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		c.ws.Close()

		c.srv.unregister(c)
		c.srv.hub.Dispatch(func() {
			for _, sub := range c.subs {
				c.drop(sub)
			}
		})
		c.logger.Debug("connection closed")
	})
}
