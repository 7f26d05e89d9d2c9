package store

import (
	"github.com/vango-dev/hive/pkg/observe"
)

// recordingComponent collects every patch it receives.
type recordingComponent struct {
	name    string
	patches []map[string]any

	onPatch func(patch map[string]any)
}

func (c *recordingComponent) ApplyPatch(patch map[string]any) {
	c.patches = append(c.patches, patch)
	if c.onPatch != nil {
		c.onPatch(patch)
	}
}

// hookedComponent has its own lifecycle hooks.
type hookedComponent struct {
	recordingComponent

	mountErr   error
	unmountErr error
	panicOn    string
	calls      []string
}

func (c *hookedComponent) ComponentDidMount() error {
	c.calls = append(c.calls, "mount")
	if c.panicOn == "mount" {
		panic("mount exploded")
	}
	return c.mountErr
}

func (c *hookedComponent) ComponentWillUnmount() error {
	c.calls = append(c.calls, "unmount")
	if c.panicOn == "unmount" {
		panic("unmount exploded")
	}
	return c.unmountErr
}

// binderComponent collects bound functions.
type binderComponent struct {
	recordingComponent
	bound map[string]BoundFunc
}

func (c *binderComponent) Bind(alias string, fn BoundFunc) {
	if c.bound == nil {
		c.bound = make(map[string]BoundFunc)
	}
	c.bound[alias] = fn
}

type taggedComponent struct {
	recordingComponent
}

func (taggedComponent) TypeTag() string { return "Counter" }

// valueComponent is not comparable.
type valueComponent struct {
	tags map[string]bool
}

func (valueComponent) ApplyPatch(map[string]any) {}

// boxedComponent has a comparable type but may hold an unhashable value.
type boxedComponent struct {
	data any
}

func (boxedComponent) ApplyPatch(map[string]any) {}

func counterConfig() Config {
	return Config{
		State: map[string]any{"count": 0, "label": "clicks"},
		Getters: map[string]Getter{
			"total": func(state *observe.Object) any { return state.Int("count") },
		},
		Setters: map[string]Setter{
			"increment": func(state *observe.Object, payload any, _ Methods) (any, error) {
				state.Set("count", state.Int("count")+payload.(int))
				return state.Int("count"), nil
			},
			"rename": func(state *observe.Object, payload any, _ Methods) (any, error) {
				state.Set("label", payload)
				return nil, nil
			},
		},
		Modules: map[string]Config{
			"sub": {
				State: map[string]any{"x": 1},
				Setters: map[string]Setter{
					"setX": func(state *observe.Object, payload any, _ Methods) (any, error) {
						state.Set("x", payload)
						return nil, nil
					},
				},
				Modules: map[string]Config{
					"deep": {State: map[string]any{"y": "z"}},
				},
			},
		},
	}
}

// subscribe opens state for c and mounts it.
func subscribe(s *Store, c Component, args ...any) map[string]any {
	initial, err := s.OpenState(append(args, c)...)
	if err != nil {
		panic(err)
	}
	s.Mount(c)
	return initial
}
