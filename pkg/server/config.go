package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/hive/pkg/middleware"
	"github.com/vango-dev/hive/pkg/protocol"
)

// Config holds server and connection settings.
type Config struct {
	// ReadTimeout is the maximum time to wait for a message or pong from
	// the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the largest client frame accepted. Frames up to four
	// times this size get an H062 error reply; larger ones close the
	// connection.
	// Default: 64KB.
	MaxMessageSize int64

	// SendQueue is the number of outgoing messages buffered per connection.
	// A client that falls this far behind is disconnected.
	// Default: 256.
	SendQueue int

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// CheckOrigin validates the Origin header of WebSocket upgrades.
	// Default: same-origin check from gorilla/websocket.
	CheckOrigin func(r *http.Request) bool

	// Logger is the server logger.
	Logger *slog.Logger

	// Metrics records connection and protocol metrics when set.
	Metrics *middleware.Metrics

	// Gatherer backs the /metrics route.
	// Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    protocol.DefaultMaxMessageSize,
		SendQueue:         256,
		ShutdownTimeout:   10 * time.Second,
		Logger:            slog.Default().With("component", "server"),
		Gatherer:          prometheus.DefaultGatherer,
	}
}

// Option configures a Server.
type Option func(*Config)

// WithReadTimeout sets the read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = d
	}
}

// WithWriteTimeout sets the write timeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

// WithHeartbeatInterval sets the ping interval.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *Config) {
		c.HeartbeatInterval = d
	}
}

// WithMaxMessageSize sets the client frame limit.
func WithMaxMessageSize(n int64) Option {
	return func(c *Config) {
		c.MaxMessageSize = n
	}
}

// WithSendQueue sets the per-connection send buffer.
func WithSendQueue(n int) Option {
	return func(c *Config) {
		c.SendQueue = n
	}
}

// WithShutdownTimeout sets the graceful shutdown bound.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ShutdownTimeout = d
	}
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(c *Config) {
		c.CheckOrigin = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithMetrics enables connection and protocol metrics.
func WithMetrics(m *middleware.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithGatherer sets the gatherer served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) {
		if g != nil {
			c.Gatherer = g
		}
	}
}

// applyDefaults fills zero values left by options.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SendQueue <= 0 {
		c.SendQueue = d.SendQueue
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
}
