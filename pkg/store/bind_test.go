package store

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/observe"
)

func TestOpenSettersBindsAliases(t *testing.T) {
	s := New(counterConfig())
	c := &binderComponent{}
	subscribe(s, c, []string{"count"})

	bound, err := s.OpenSetters(map[string]string{"add": "increment"}, c)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.bound["add"]; !ok {
		t.Fatal("Binder did not receive the bound setter")
	}

	res, err := bound["add"](3)
	if err != nil || res != 3 {
		t.Fatalf("add(3) = %v, %v", res, err)
	}
	if _, err := c.bound["add"](2); err != nil {
		t.Fatal(err)
	}

	want := []map[string]any{{"count": 3}, {"count": 5}}
	if !reflect.DeepEqual(c.patches, want) {
		t.Errorf("patches = %v, want %v", c.patches, want)
	}
}

func TestOpenSettersOnModulePath(t *testing.T) {
	s := New(counterConfig())
	listener := &recordingComponent{}
	subscribe(s, listener, "sub", map[string]string{"value": "x"})

	bound, err := s.OpenSetters("sub", []string{"setX"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bound["setX"](42); err != nil {
		t.Fatal(err)
	}

	want := []map[string]any{{"value": 42}}
	if !reflect.DeepEqual(listener.patches, want) {
		t.Errorf("patches = %v, want %v", listener.patches, want)
	}
}

func TestOpenSettersUnknownNameFailsOnCall(t *testing.T) {
	s := New(counterConfig())

	bound, err := s.OpenSetters([]string{"nope"})
	if err != nil {
		t.Fatalf("OpenSetters() error = %v", err)
	}
	if _, err := bound["nope"](nil); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("calling unknown setter error = %v, want not found", err)
	}
}

func TestOpenActions(t *testing.T) {
	var got any
	cfg := counterConfig()
	cfg.Modules["sub"] = Config{
		Actions: map[string]Action{
			"ping": func(a ActionArgs, payload any) (any, error) {
				got = payload
				return "pong", nil
			},
		},
	}
	s := New(cfg)
	c := &binderComponent{}

	bound, err := s.OpenActions("sub", map[string]string{"hello": "ping"}, c)
	if err != nil {
		t.Fatal(err)
	}
	res, err := c.bound["hello"]("hi")
	if err != nil || res != "pong" {
		t.Fatalf("hello() = %v, %v", res, err)
	}
	if got != "hi" {
		t.Errorf("payload = %v, want hi", got)
	}
	if len(bound) != 1 {
		t.Errorf("bound = %v", bound)
	}
}

func TestOpenStateOnModuleRegistersThere(t *testing.T) {
	s := New(counterConfig())
	c := &recordingComponent{}

	initial, err := s.OpenState("sub.deep", []string{"y", "absent"}, c)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(initial, map[string]any{"y": "z"}) {
		t.Errorf("initial = %v", initial)
	}

	deep, _ := s.Module("sub.deep")
	deep.Mount(c)
	s.Mount(c) // unknown to the root

	if len(deep.Listeners()) != 1 {
		t.Errorf("deep listeners = %v", deep.Listeners())
	}
	if len(s.Listeners()) != 0 {
		t.Errorf("root listeners = %v", s.Listeners())
	}
}

func TestOpenStateReplacesAliases(t *testing.T) {
	s := New(counterConfig())
	c := &recordingComponent{}
	subscribe(s, c, []string{"count"})

	if _, err := s.OpenState(map[string]string{"title": "label"}, c); err != nil {
		t.Fatal(err)
	}
	_, _ = s.Change("increment", 1)
	_, _ = s.Change("rename", "x")

	want := []map[string]any{{"title": "x"}}
	if !reflect.DeepEqual(c.patches, want) {
		t.Errorf("patches = %v, want %v", c.patches, want)
	}
}

func TestOpenErrors(t *testing.T) {
	s := New(counterConfig())

	tests := []struct {
		name string
		call func() error
		code string
	}{
		{
			name: "missing module",
			call: func() error { _, err := s.OpenState("ghost", []string{"a"}, &recordingComponent{}); return err },
			code: "H004",
		},
		{
			name: "bad query",
			call: func() error { _, err := s.OpenSetters(42, nil); return err },
			code: "H011",
		},
		{
			name: "no arguments",
			call: func() error { _, err := s.OpenActions(); return err },
			code: "H012",
		},
		{
			name: "state without component",
			call: func() error { _, err := s.OpenState([]string{"count"}); return err },
			code: "H012",
		},
		{
			name: "state with non-component",
			call: func() error { _, err := s.OpenState([]string{"count"}, "nope"); return err },
			code: "H012",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Code(tt.call()); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestBuiltinSetters(t *testing.T) {
	initial := map[string]any{"count": 1, "user": map[string]any{"name": "ada"}}
	s := New(Config{
		State: observe.CloneMap(initial),
		Getters: map[string]Getter{
			SnapshotGetterName: SnapshotGetter,
		},
		Setters: map[string]Setter{
			AssignSetterName: AssignSetter,
			SetSetterName:    SetSetter,
			ResetSetterName:  ResetSetter(initial),
		},
	})
	c := &recordingComponent{}
	subscribe(s, c, []string{"count", "name", "extra", "city"})

	if _, err := s.Change(AssignSetterName, map[string]any{"count": 2, "extra": true}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Change(SetSetterName, map[string]any{"key": "user.name", "value": "grace"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Change(SetSetterName, map[string]any{"key": "user.address.city", "value": "Paris"}); err != nil {
		t.Fatal(err)
	}

	want := []map[string]any{
		{"count": 2, "extra": true},
		{"name": nil}, // flat key: "name" is not a top-level key
		{"city": nil},
	}
	if !reflect.DeepEqual(c.patches, want) {
		t.Errorf("patches = %v, want %v", c.patches, want)
	}

	snap, _ := s.Access(SnapshotGetterName)
	user := snap.(map[string]any)["user"].(map[string]any)
	if user["name"] != "grace" || user["address"].(map[string]any)["city"] != "Paris" {
		t.Errorf("snapshot user = %v", user)
	}

	if _, err := s.Change(ResetSetterName, nil); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Snapshot(), initial) {
		t.Errorf("after reset = %v, want %v", s.Snapshot(), initial)
	}

	// Reset twice still works: the saved copy was not handed out.
	_, _ = s.Change(SetSetterName, map[string]any{"key": "user.name", "value": "x"})
	_, _ = s.Change(ResetSetterName, nil)
	if !reflect.DeepEqual(s.Snapshot(), initial) {
		t.Errorf("after second reset = %v, want %v", s.Snapshot(), initial)
	}
}

func TestBuiltinSetterPayloadErrors(t *testing.T) {
	s := New(Config{
		State: map[string]any{"count": 5},
		Setters: map[string]Setter{
			AssignSetterName: AssignSetter,
			SetSetterName:    SetSetter,
		},
	})

	tests := []struct {
		setter  string
		payload any
	}{
		{AssignSetterName, "not a map"},
		{SetSetterName, 3},
		{SetSetterName, map[string]any{"value": 1}},
		{SetSetterName, map[string]any{"key": "count.x", "value": 1}},
	}
	for _, tt := range tests {
		if _, err := s.Change(tt.setter, tt.payload); !stderrors.Is(err, ErrInvalidArgument) {
			t.Errorf("Change(%s, %v) error = %v, want invalid argument", tt.setter, tt.payload, err)
		}
	}
	if got := s.State().Int("count"); got != 5 {
		t.Errorf("count = %v after rejected set, want 5", s.State().Get("count"))
	}
}
