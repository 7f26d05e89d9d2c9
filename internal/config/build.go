package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/observe"
	"github.com/vango-dev/hive/pkg/server"
	"github.com/vango-dev/hive/pkg/store"
)

// StoreConfig turns the declarative store tree into a store.Config with the
// built-in handlers on every module. Each call returns fresh state.
func (c *Config) StoreConfig() store.Config {
	return buildStore(c.Store)
}

func buildStore(def StoreDef) store.Config {
	initial := observe.CloneMap(def.State)
	if initial == nil {
		initial = map[string]any{}
	}

	cfg := store.Config{
		State: observe.CloneMap(initial),
		Getters: map[string]store.Getter{
			store.SnapshotGetterName: store.SnapshotGetter,
		},
		Setters: map[string]store.Setter{
			store.AssignSetterName: store.AssignSetter,
			store.SetSetterName:    store.SetSetter,
			store.ResetSetterName:  store.ResetSetter(initial),
		},
	}
	if len(def.Modules) > 0 {
		cfg.Modules = make(map[string]store.Config, len(def.Modules))
		for name, child := range def.Modules {
			cfg.Modules[name] = buildStore(child)
		}
	}
	return cfg
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return 0, errors.New("H042").
			WithDetailf("log.level must be debug, info, warn or error, got %q", level)
	}
	return l, nil
}

// NewLogger builds the process logger described by the log section.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("app", c.Name), nil
}

// ServerOptions returns the server options described by the server section.
func (c *Config) ServerOptions() []server.Option {
	return []server.Option{
		server.WithReadTimeout(c.Server.ReadTimeout),
		server.WithWriteTimeout(c.Server.WriteTimeout),
		server.WithHeartbeatInterval(c.Server.HeartbeatInterval),
		server.WithShutdownTimeout(c.Server.ShutdownTimeout),
		server.WithMaxMessageSize(c.Server.MaxMessageSize),
		server.WithSendQueue(c.Server.SendQueue),
	}
}
