// Package hive provides the public API for hive stores.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/hive"
//
// Usage:
//
//	s := hive.New(hive.Config{
//	    State: map[string]any{"count": 0},
//	    Setters: map[string]hive.Setter{
//	        "incr": func(state *hive.Object, _ any, _ hive.Methods) (any, error) {
//	            state.Set("count", state.Int("count")+1)
//	            return nil, nil
//	        },
//	    },
//	})
//	initial, _ := s.OpenState([]string{"count"}, component)
//	s.Mount(component)
//	s.Change("incr", nil)
package hive

import (
	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/observe"
	"github.com/vango-dev/hive/pkg/store"
)

// =============================================================================
// Store
// =============================================================================

// Store is a reactive state container. See store.Store.
type Store = store.Store

// Config describes a store and its modules.
type Config = store.Config

// Option configures a Store.
type Option = store.Option

// New creates a store from cfg.
func New(cfg Config, opts ...Option) *Store {
	return store.New(cfg, opts...)
}

// =============================================================================
// Handlers
// =============================================================================

type (
	Getter     = store.Getter
	Setter     = store.Setter
	Action     = store.Action
	ActionArgs = store.ActionArgs
	Methods    = store.Methods
	Bound      = store.Bound
	BoundFunc  = store.BoundFunc
)

// Object is the observable state tree handed to getters, setters and
// actions.
type Object = observe.Object

// =============================================================================
// Components
// =============================================================================

type (
	Component  = store.Component
	Mounter    = store.Mounter
	Unmounter  = store.Unmounter
	Binder     = store.Binder
	TypeTagger = store.TypeTagger
)

// =============================================================================
// Errors
// =============================================================================

// Error is the structured error returned by stores.
type Error = errors.HiveError

// Sentinels for errors.Is.
var (
	ErrNotFound        = errors.ErrNotFound
	ErrInvalidArgument = errors.ErrInvalidArgument
	ErrHostHook        = errors.ErrHostHook
	ErrRuntime         = errors.ErrRuntime
)

// Code returns the hive error code carried by err, or "".
func Code(err error) string {
	return errors.Code(err)
}
