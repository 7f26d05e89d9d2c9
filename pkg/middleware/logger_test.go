package middleware

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/hive/pkg/store"
)

func TestLogger_LogsOperations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := store.New(testConfig(),
		store.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		store.WithMiddleware(Logger(logger)),
	)

	if _, err := s.Change("incr", nil); err != nil {
		t.Fatalf("Change(incr) error: %v", err)
	}
	if _, err := s.Access("nope"); err == nil {
		t.Fatal("expected Access(nope) to fail")
	}

	out := buf.String()
	if !strings.Contains(out, `level=DEBUG msg="store operation" kind=change module=root name=incr`) {
		t.Errorf("missing debug line for incr:\n%s", out)
	}
	if !strings.Contains(out, `level=WARN msg="store operation failed" kind=access module=root name=nope`) {
		t.Errorf("missing warn line for nope:\n%s", out)
	}
	if !strings.Contains(out, "code=H002") {
		t.Errorf("missing error code:\n%s", out)
	}
}
