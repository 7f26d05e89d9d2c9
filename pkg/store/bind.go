package store

import (
	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/query"
)

// OpenSetters binds setters for a component. Arguments are (query,
// component) or (modulePath, query, component); the component may be nil.
// Each alias becomes a function calling Change with the real setter name on
// the resolved module. The functions are returned and, if the component is
// a Binder, attached to it.
func (s *Store) OpenSetters(args ...any) (Bound, error) {
	a, err := query.ParseOpenArgs(args...)
	if err != nil {
		return nil, err
	}
	target, err := s.Module(a.Module)
	if err != nil {
		return nil, err
	}
	return target.openBound(a.Query, a.Component, target.Change)
}

// OpenActions is OpenSetters for actions: each alias calls Send.
func (s *Store) OpenActions(args ...any) (Bound, error) {
	a, err := query.ParseOpenArgs(args...)
	if err != nil {
		return nil, err
	}
	target, err := s.Module(a.Module)
	if err != nil {
		return nil, err
	}
	return target.openBound(a.Query, a.Component, target.Send)
}

func (s *Store) openBound(q, component any, call func(string, any) (any, error)) (Bound, error) {
	aliases, err := query.Normalize(q)
	if err != nil {
		return nil, err
	}

	out := make(Bound, len(aliases))
	for alias, name := range aliases {
		out[alias] = func(payload any) (any, error) {
			return call(name, payload)
		}
	}

	if binder, ok := component.(Binder); ok {
		for _, alias := range aliases.Aliases() {
			binder.Bind(alias, out[alias])
		}
	}
	return out, nil
}

// OpenState subscribes a component to state keys. Arguments are (query,
// component) or (modulePath, query, component). The alias map replaces any
// earlier one for the component, the component is listened on the resolved
// module, and the current {alias: value} slice is returned for its first
// render. Keys absent from state are left out of the slice.
func (s *Store) OpenState(args ...any) (map[string]any, error) {
	a, err := query.ParseOpenArgs(args...)
	if err != nil {
		return nil, err
	}
	target, err := s.Module(a.Module)
	if err != nil {
		return nil, err
	}
	return target.openState(a.Query, a.Component)
}

func (s *Store) openState(q, component any) (map[string]any, error) {
	c, ok := component.(Component)
	if !ok {
		return nil, errors.New("H012").
			WithDetailf("OpenState needs a component implementing ApplyPatch, got %T", component)
	}
	aliases, err := query.Normalize(q)
	if err != nil {
		return nil, err
	}
	if err := s.Listen(c); err != nil {
		return nil, err
	}

	b := s.bindings[c]
	b.aliases = aliases
	if b.entry != nil {
		b.entry.aliases = aliases
	}

	return query.Slice(aliases, func(key string) (any, bool) {
		if !s.state.Has(key) {
			return nil, false
		}
		return s.state.Value(key), true
	}), nil
}
