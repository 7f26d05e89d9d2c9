package store

import (
	"log/slog"
	"time"
)

// BroadcastStats describes one broadcast pass.
type BroadcastStats struct {
	// Module is the dotted path of the store ("" for the root).
	Module string

	// DirtyKeys is the number of keys drained.
	DirtyKeys int

	// Listeners is the number of registry entries visited.
	Listeners int

	// Patches is the number of ApplyPatch calls made.
	Patches int

	// Duration is the wall time of the pass.
	Duration time.Duration
}

// BroadcastObserver is notified after every broadcast pass and whenever an
// action returns with unbroadcast writes and no Done call.
type BroadcastObserver interface {
	ObserveBroadcast(stats BroadcastStats)
	ObserveMissingDone(module, action string)
}

// Option configures a Store. Modules inherit their parent's options.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	reportError func(error)
	middleware  []Middleware
	observer    BroadcastObserver
	scheduler   func(func())
}

func defaultOptions() *options {
	return &options{
		logger: slog.Default().With("component", "store"),
	}
}

// WithLogger sets the logger. Modules log with a "module" attribute.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithErrorReporter sets the sink for errors the store handles itself, such
// as failing component hooks. The default logs them at error level.
func WithErrorReporter(fn func(error)) Option {
	return func(o *options) {
		o.reportError = fn
	}
}

// WithMiddleware appends operation middleware. The first one given is the
// outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mw...)
	}
}

// WithBroadcastObserver sets the observer notified about broadcasts.
func WithBroadcastObserver(obs BroadcastObserver) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithScheduler routes the broadcast triggered by an action's Done through
// fn, so hosts with their own event loop can run it there. By default Done
// broadcasts inline.
func WithScheduler(fn func(func())) Option {
	return func(o *options) {
		o.scheduler = fn
	}
}
