package middleware

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/observe"
	"github.com/vango-dev/hive/pkg/store"
)

func TestRecover_TurnsPanicIntoError(t *testing.T) {
	s := store.New(testConfig(), store.WithMiddleware(Recover()))

	res, err := s.Change("explode", nil)
	if err == nil {
		t.Fatal("expected an error from a panicking setter")
	}
	if res != nil {
		t.Errorf("result = %v, want nil", res)
	}
	if got := errors.Code(err); got != "H030" {
		t.Errorf("code = %q, want H030", got)
	}
	if !stderrors.Is(err, errors.ErrRuntime) {
		t.Error("expected errors.Is(err, ErrRuntime)")
	}
	if !strings.Contains(err.Error(), "kaboom") {
		t.Errorf("error %q does not mention the panic value", err)
	}

	var pe panicError
	if !stderrors.As(err, &pe) {
		t.Fatal("expected the panic to be wrapped")
	}
	if len(pe.Stack()) == 0 {
		t.Error("expected a captured stack")
	}
}

func TestRecover_PassesThroughResults(t *testing.T) {
	s := store.New(testConfig(), store.WithMiddleware(Recover()))

	res, err := s.Change("incr", nil)
	if err != nil {
		t.Fatalf("Change(incr) error: %v", err)
	}
	if res != 1 {
		t.Errorf("result = %v, want 1", res)
	}
	if _, err := s.Change("fail", nil); !stderrors.Is(err, errBoom) {
		t.Errorf("expected errBoom, got %v", err)
	}
}

func TestRecover_StoreStaysUsable(t *testing.T) {
	cfg := testConfig()
	cfg.Setters["half"] = func(state *observe.Object, _ any, _ store.Methods) (any, error) {
		state.Set("count", 99)
		panic("half done")
	}
	s := store.New(cfg, store.WithMiddleware(Recover()))

	c := &patchCounter{}
	if _, err := s.OpenState([]string{"count"}, c); err != nil {
		t.Fatalf("OpenState() error: %v", err)
	}
	s.Mount(c)

	if _, err := s.Change("half", nil); errors.Code(err) != "H030" {
		t.Fatalf("expected H030, got %v", err)
	}
	if c.patches != 0 {
		t.Fatalf("patches after panic = %d, want 0", c.patches)
	}
	if got := s.Dirty(); len(got) != 1 || got[0] != "count" {
		t.Fatalf("dirty = %v, want [count]", got)
	}

	if _, err := s.Change("incr", nil); err != nil {
		t.Fatalf("Change(incr) error: %v", err)
	}
	if c.patches != 1 {
		t.Errorf("patches = %d, want 1", c.patches)
	}
}
