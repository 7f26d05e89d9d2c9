package store

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/query"
)

// listener is one registry entry.
type listener struct {
	id        string
	component Component
	mounted   bool
	aliases   query.AliasMap
}

// binding is what the store knows about a component between mounts.
type binding struct {
	aliases query.AliasMap
	entry   *listener
}

// Listen registers c for lifecycle tracking. Nothing is delivered until the
// host calls Mount. Listening twice is harmless. c must be a pointer.
func (s *Store) Listen(c Component) error {
	if err := checkComponent(c); err != nil {
		return err
	}
	if _, ok := s.bindings[c]; !ok {
		s.bindings[c] = &binding{}
	}
	return nil
}

func checkComponent(c Component) error {
	if c == nil {
		return errors.New("H012").WithDetail("component is nil")
	}
	// Pointers only: a struct may hold an unhashable value in an interface field.
	if t := reflect.TypeOf(c); t.Kind() != reflect.Pointer {
		return errors.New("H012").
			WithDetailf("component type %s is not a pointer; pass a pointer", t)
	}
	return nil
}

// Mount is called by the host when c mounts. The component's own mount
// hook runs first; its failure is reported, not returned. The component
// then gets a fresh listener id, becomes mounted, and a broadcast runs so it
// sees any keys that are already dirty. Mounting a component that was never
// listened, or is already mounted, does nothing.
func (s *Store) Mount(c Component) {
	b, ok := s.lookup(c)
	if !ok {
		s.logger.Debug("mount of unknown component ignored", "type", typeTag(c))
		return
	}
	if b.entry != nil {
		return
	}

	if m, ok := c.(Mounter); ok {
		s.runHook("H020", c, m.ComponentDidMount)
	}

	e := &listener{
		id:        newListenerID(c),
		component: c,
		mounted:   true,
		aliases:   b.aliases,
	}
	b.entry = e
	s.listeners = append(s.listeners, e)
	s.byID[e.id] = e
	s.logger.Debug("listener mounted", "id", e.id)

	s.UpdateListeners()
}

// Unmount is called by the host when c unmounts. The component's own
// unmount hook runs first; then the entry is marked unmounted and removed.
// The binding survives, so mounting c again creates a new entry.
func (s *Store) Unmount(c Component) {
	b, ok := s.lookup(c)
	if !ok || b.entry == nil {
		return
	}

	if u, ok := c.(Unmounter); ok {
		s.runHook("H021", c, u.ComponentWillUnmount)
	}

	e := b.entry
	e.mounted = false
	b.entry = nil
	s.removeListener(e)
	s.logger.Debug("listener unmounted", "id", e.id)
}

// Release unmounts c if needed and forgets it entirely.
func (s *Store) Release(c Component) {
	if _, ok := s.lookup(c); !ok {
		return
	}
	s.Unmount(c)
	delete(s.bindings, c)
}

func (s *Store) lookup(c Component) (*binding, bool) {
	if checkComponent(c) != nil {
		return nil, false
	}
	b, ok := s.bindings[c]
	return b, ok
}

func (s *Store) removeListener(e *listener) {
	delete(s.byID, e.id)
	if i := slices.Index(s.listeners, e); i >= 0 {
		s.listeners = slices.Delete(s.listeners, i, i+1)
	}
}

// runHook calls a component hook, turning errors and panics into reports.
func (s *Store) runHook(code string, c Component, hook func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.report(errors.New(code).WithDetailf("%s panicked: %v", typeTag(c), r))
		}
	}()
	if err := hook(); err != nil {
		s.report(errors.New(code).WithDetail(typeTag(c)).Wrap(err))
	}
}

// ListenerID returns the id of c's current registry entry.
func (s *Store) ListenerID(c Component) (string, bool) {
	b, ok := s.lookup(c)
	if !ok || b.entry == nil {
		return "", false
	}
	return b.entry.id, true
}

// Listeners returns the ids of mounted listeners in registry order.
func (s *Store) Listeners() []string {
	ids := make([]string, 0, len(s.listeners))
	for _, e := range s.listeners {
		ids = append(ids, e.id)
	}
	return ids
}

// UpdateListeners drains the dirty queue into patches. With nothing dirty
// it returns at once. Otherwise every mounted entry, in registry order,
// receives {alias: current value} for its aliases whose key is dirty, and
// the queue is cleared after the pass.
//
// The pass iterates a copy of the registry, so components may unmount
// themselves or others from ApplyPatch. Dirty keys are read once at the
// start, so a nested broadcast triggered from ApplyPatch cannot hide them
// from listeners later in the pass.
func (s *Store) UpdateListeners() {
	if !s.queue.IsPopulated() {
		return
	}

	start := time.Now()
	dirty := s.queue.Keys()
	entries := slices.Clone(s.listeners)
	stats := BroadcastStats{
		Module:    s.path,
		DirtyKeys: len(dirty),
		Listeners: len(entries),
	}

	for _, e := range entries {
		if !e.mounted {
			continue
		}
		patch := s.patchFor(e.aliases, dirty)
		if len(patch) == 0 {
			continue
		}
		stats.Patches++
		e.component.ApplyPatch(patch)
	}

	s.queue.Clear()
	stats.Duration = time.Since(start)

	s.logger.Debug("broadcast",
		"dirty", dirty,
		"listeners", stats.Listeners,
		"patches", stats.Patches)
	if s.opts.observer != nil {
		s.opts.observer.ObserveBroadcast(stats)
	}
}

func (s *Store) patchFor(aliases query.AliasMap, dirty []string) map[string]any {
	var patch map[string]any
	for alias, key := range aliases {
		if _, found := slices.BinarySearch(dirty, key); !found {
			continue
		}
		if patch == nil {
			patch = make(map[string]any, len(aliases))
		}
		patch[alias] = s.state.Value(key)
	}
	return patch
}

func newListenerID(c Component) string {
	return fmt.Sprintf("%s/%s", typeTag(c), ulid.Make())
}

func typeTag(c Component) string {
	if t, ok := c.(TypeTagger); ok {
		if tag := t.TypeTag(); tag != "" {
			return tag
		}
	}
	rt := reflect.TypeOf(c)
	if rt == nil {
		return "component"
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() == "" {
		return "component"
	}
	return rt.Name()
}
