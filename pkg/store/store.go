package store

import (
	"context"
	"log/slog"
	"sort"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/observe"
	"github.com/vango-dev/hive/pkg/query"
	"github.com/vango-dev/hive/pkg/queue"
)

// Store is a reactive container for one node of the state tree.
type Store struct {
	path string

	state *observe.Object
	queue *queue.DirtyQueue

	getters map[string]Getter
	setters map[string]Setter
	actions map[string]Action
	modules map[string]*Store

	// listeners is the registry in insertion order; byID indexes it.
	listeners []*listener
	byID      map[string]*listener

	// bindings is the side-table of components known to this store.
	bindings map[Component]*binding

	opts    *options
	logger  *slog.Logger
	handler Handler
}

// New creates a store from cfg, instantiating its modules recursively.
func New(cfg Config, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newStore(cfg, "", o)
}

func newStore(cfg Config, path string, o *options) *Store {
	s := &Store{
		path:     path,
		queue:    queue.New(),
		getters:  cfg.Getters,
		setters:  cfg.Setters,
		actions:  cfg.Actions,
		modules:  make(map[string]*Store, len(cfg.Modules)),
		byID:     make(map[string]*listener),
		bindings: make(map[Component]*binding),
		opts:     o,
		logger:   o.logger,
	}
	if path != "" {
		s.logger = o.logger.With("module", path)
	}
	s.state = observe.New(cfg.State, observe.ReporterFunc(s.markDirty))
	s.handler = chain(s.execute, o.middleware)

	for name, child := range cfg.Modules {
		s.modules[name] = newStore(child, query.JoinPath(path, name), o)
	}
	return s
}

func (s *Store) markDirty(key string) {
	if err := s.queue.Add(key); err != nil {
		s.report(err)
	}
}

func (s *Store) report(err error) {
	if s.opts.reportError != nil {
		s.opts.reportError(err)
		return
	}
	s.logger.Error("store error", "error", err)
}

// Path returns the dotted module path of s; the root's path is "".
func (s *Store) Path() string {
	return s.path
}

// State returns the observable state tree. Writes made through it are
// tracked but only broadcast by the next Change, Done or UpdateListeners.
func (s *Store) State() *observe.Object {
	return s.state
}

// Snapshot returns a deep copy of the state.
func (s *Store) Snapshot() map[string]any {
	return s.state.Snapshot()
}

// Dirty returns the keys waiting for the next broadcast.
func (s *Store) Dirty() []string {
	return s.queue.Keys()
}

// Change runs the named setter and broadcasts.
func (s *Store) Change(setter string, payload any) (any, error) {
	return s.ChangeContext(context.Background(), setter, payload)
}

// ChangeContext is Change with a context for middleware.
func (s *Store) ChangeContext(ctx context.Context, setter string, payload any) (any, error) {
	return s.handler(&Operation{Kind: OpChange, Module: s.path, Name: setter, Payload: payload, ctx: ctx})
}

// Access runs the named getter. It never broadcasts.
func (s *Store) Access(getter string) (any, error) {
	return s.AccessContext(context.Background(), getter)
}

// AccessContext is Access with a context for middleware.
func (s *Store) AccessContext(ctx context.Context, getter string) (any, error) {
	return s.handler(&Operation{Kind: OpAccess, Module: s.path, Name: getter, ctx: ctx})
}

// Send runs the named action and returns its result without waiting for
// any work it deferred. It does not broadcast; the action calls Done.
func (s *Store) Send(action string, payload any) (any, error) {
	return s.SendContext(context.Background(), action, payload)
}

// SendContext is Send with a context for middleware.
func (s *Store) SendContext(ctx context.Context, action string, payload any) (any, error) {
	return s.handler(&Operation{Kind: OpSend, Module: s.path, Name: action, Payload: payload, ctx: ctx})
}

func (s *Store) execute(op *Operation) (any, error) {
	switch op.Kind {
	case OpChange:
		return s.change(op)
	case OpAccess:
		return s.access(op)
	case OpSend:
		return s.send(op)
	}
	return nil, errors.Newf(errors.CategoryInvalidArgument, "unknown operation kind %q", op.Kind)
}

func (s *Store) change(op *Operation) (any, error) {
	fn, ok := s.setters[op.Name]
	if !ok {
		return nil, errors.New("H001").
			WithDetailf("Setter with name %q does not exist.", op.Name)
	}
	res, err := fn(s.state, op.Payload, s.bind(op.Context()))
	s.UpdateListeners()
	return res, err
}

func (s *Store) access(op *Operation) (any, error) {
	fn, ok := s.getters[op.Name]
	if !ok {
		return nil, errors.New("H002").
			WithDetailf("Getter with name %q does not exist.", op.Name)
	}
	return fn(s.state), nil
}

func (s *Store) send(op *Operation) (any, error) {
	fn, ok := s.actions[op.Name]
	if !ok {
		return nil, errors.New("H003").
			WithDetailf("Action with name %q does not exist.", op.Name)
	}

	called := false
	done := func() {
		called = true
		if s.opts.scheduler != nil {
			s.opts.scheduler(s.UpdateListeners)
			return
		}
		s.UpdateListeners()
	}

	pendingBefore := s.queue.IsPopulated()
	res, err := fn(ActionArgs{
		Methods: s.bind(op.Context()),
		State:   s.state,
		Done:    done,
		Context: op.Context(),
	}, op.Payload)

	if !called && !pendingBefore && s.queue.IsPopulated() {
		s.logger.Warn("action returned with unbroadcast writes and no Done call",
			"action", op.Name, "dirty", s.queue.Keys())
		if s.opts.observer != nil {
			s.opts.observer.ObserveMissingDone(s.path, op.Name)
		}
	}
	return res, err
}

// bound carries a context into nested calls made by setters and actions.
type bound struct {
	s   *Store
	ctx context.Context
}

func (s *Store) bind(ctx context.Context) Methods {
	return bound{s: s, ctx: ctx}
}

func (b bound) Access(getter string) (any, error) {
	return b.s.AccessContext(b.ctx, getter)
}

func (b bound) Change(setter string, payload any) (any, error) {
	return b.s.ChangeContext(b.ctx, setter, payload)
}

func (b bound) Send(action string, payload any) (any, error) {
	return b.s.SendContext(b.ctx, action, payload)
}

// Child returns the direct module called name.
func (s *Store) Child(name string) (*Store, bool) {
	m, ok := s.modules[name]
	return m, ok
}

// Module resolves a dotted path ("a.b.c") to a module. The empty path is s.
func (s *Store) Module(path string) (*Store, error) {
	return query.Resolve(s, path)
}

// Modules returns the names of the direct modules in sorted order.
func (s *Store) Modules() []string {
	return sortedKeys(s.modules)
}

// Getters returns the registered getter names in sorted order.
func (s *Store) Getters() []string {
	return sortedKeys(s.getters)
}

// Setters returns the registered setter names in sorted order.
func (s *Store) Setters() []string {
	return sortedKeys(s.setters)
}

// Actions returns the registered action names in sorted order.
func (s *Store) Actions() []string {
	return sortedKeys(s.actions)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
