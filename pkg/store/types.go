package store

import (
	"context"

	"github.com/vango-dev/hive/pkg/observe"
)

// Getter derives a value from state. Getters must not write.
type Getter func(state *observe.Object) any

// Setter writes state synchronously. The store broadcasts after it returns.
type Setter func(state *observe.Object, payload any, m Methods) (any, error)

// Action runs side effects. It may write State directly and call Done, or
// go through Change, which broadcasts by itself.
type Action func(args ActionArgs, payload any) (any, error)

// Methods are the store operations bound to one store, handed to setters
// and actions so they can call each other without holding the *Store.
type Methods interface {
	Access(getter string) (any, error)
	Change(setter string, payload any) (any, error)
	Send(action string, payload any) (any, error)
}

// ActionArgs is the argument an Action receives.
type ActionArgs struct {
	Methods

	// State is the store's observable state tree.
	State *observe.Object

	// Done broadcasts pending writes. It may be called any number of times,
	// from inside the action or after it returned.
	Done func()

	// Context is the context the action was sent with.
	Context context.Context
}

// Component is the host-side contract for a subscribed UI component.
type Component interface {
	// ApplyPatch receives {alias: value} for every subscribed alias whose
	// key changed. It is only called with a non-empty patch.
	ApplyPatch(patch map[string]any)
}

// Mounter is implemented by components with their own mount hook. It runs
// before the store registers the listener.
type Mounter interface {
	ComponentDidMount() error
}

// Unmounter is implemented by components with their own unmount hook. It
// runs before the store removes the listener.
type Unmounter interface {
	ComponentWillUnmount() error
}

// TypeTagger overrides the type tag used as the listener id prefix.
type TypeTagger interface {
	TypeTag() string
}

// BoundFunc is a setter or action bound to one store under its real name.
type BoundFunc func(payload any) (any, error)

// Bound maps aliases to bound functions.
type Bound map[string]BoundFunc

// Binder is implemented by components that want bound setters and actions
// attached to them by OpenSetters and OpenActions.
type Binder interface {
	Bind(alias string, fn BoundFunc)
}

// Config describes a store and, recursively, its modules. All fields are
// optional. The State map is used in place.
type Config struct {
	State   map[string]any
	Getters map[string]Getter
	Setters map[string]Setter
	Actions map[string]Action
	Modules map[string]Config
}
