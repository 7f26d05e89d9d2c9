package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

var (
	// ErrHubClosed is returned by Do once the hub has stopped.
	ErrHubClosed = stderrors.New("server: hub closed")

	// ErrHubRunning is returned by every Run call after the first.
	ErrHubRunning = stderrors.New("server: hub already running")
)

// Hub runs functions one at a time on a single goroutine. It owns the store:
// every store call the server makes goes through it.
//
// The queue is unbounded so a function running on the hub can dispatch more
// work without blocking on itself.
type Hub struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{} // buffered, size 1; coalesces wakeups

	running atomic.Bool

	stopped chan struct{}
	logger  *slog.Logger
}

// NewHub creates a hub. It does nothing until Run is called.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		tasks:   make([]func(), 0, 64),
		signal:  make(chan struct{}, 1),
		stopped: make(chan struct{}),
		logger:  logger.With("component", "hub"),
	}
}

// Dispatch queues fn and returns at once. It may be called from any
// goroutine, including the hub's own. Functions dispatched after the hub
// stopped are dropped.
func (h *Hub) Dispatch(fn func()) {
	if !h.enqueue(fn) {
		h.logger.Debug("dispatch after hub stopped dropped")
	}
}

func (h *Hub) enqueue(fn func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.tasks = append(h.tasks, fn)

	select {
	case h.signal <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the hub and waits for it to finish. It must not be called
// from the hub goroutine.
func (h *Hub) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !h.enqueue(func() {
		defer close(done)
		fn()
	}) {
		return ErrHubClosed
	}

	select {
	case <-done:
		return nil
	case <-h.stopped:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued functions until ctx is done. Only the first call
// runs the loop; later calls return ErrHubRunning at once.
func (h *Hub) Run(ctx context.Context) error {
	if !h.running.CompareAndSwap(false, true) {
		return ErrHubRunning
	}
	defer close(h.stopped)
	h.logger.Debug("hub started")

	for {
		for {
			fn, ok := h.next()
			if !ok {
				break
			}
			h.execute(fn)
		}

		select {
		case <-ctx.Done():
			h.close()
			h.logger.Debug("hub stopped")
			return ctx.Err()
		case <-h.signal:
		}
	}
}

// Len returns the number of queued functions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.tasks)
}

func (h *Hub) next() (func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.tasks) == 0 {
		return nil, false
	}
	fn := h.tasks[0]
	h.tasks[0] = nil
	if len(h.tasks) == 1 {
		h.tasks = h.tasks[:0]
	} else {
		h.tasks = h.tasks[1:]
	}
	return fn, true
}

func (h *Hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.tasks = nil
}

// execute runs fn, keeping the hub alive if it panics.
func (h *Hub) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("hub task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
