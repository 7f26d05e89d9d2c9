package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "setter lookup",
			code:    "H001",
			wantMsg: "Setter not found",
			wantCat: CategoryNotFound,
		},
		{
			name:    "queue key",
			code:    "H010",
			wantMsg: "Invalid queue key",
			wantCat: CategoryInvalidArgument,
		},
		{
			name:    "mount hook",
			code:    "H020",
			wantMsg: "Component mount hook failed",
			wantCat: CategoryHostHook,
		},
		{
			name:    "unknown error code",
			code:    "H999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryConfig, "file %q not found", "hive.yaml")
	if err.Message != `file "hive.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "hive.yaml" not found`)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q, want %q", err.Category, CategoryConfig)
	}
}

func TestHiveError_Error(t *testing.T) {
	err := New("H001").WithDetail(`setter "increment"`)
	want := `H001: Setter not found: setter "increment"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &HiveError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}

	wrapped := New("H041").Wrap(fmt.Errorf("line 3: bad indent"))
	if !strings.HasSuffix(wrapped.Error(), "line 3: bad indent") {
		t.Errorf("Error() = %q, want wrapped cause suffix", wrapped.Error())
	}
}

func TestHiveError_IsCategory(t *testing.T) {
	err := fmt.Errorf("change: %w", New("H004").WithDetail("sub"))

	if !stderrors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false, want true")
	}
	if stderrors.Is(err, ErrInvalidArgument) {
		t.Error("errors.Is(err, ErrInvalidArgument) = true, want false")
	}
	if !stderrors.Is(err, New("H004")) {
		t.Error("errors.Is against the same code should match")
	}
	if stderrors.Is(err, New("H001")) {
		t.Error("errors.Is against a different code should not match")
	}
}

func TestHiveError_WithSuggestion(t *testing.T) {
	err := New("H001").WithSuggestion("Register the setter")
	if err.Suggestion != "Register the setter" {
		t.Errorf("Suggestion = %q, want %q", err.Suggestion, "Register the setter")
	}
}

func TestHiveError_Wrap(t *testing.T) {
	inner := New("H010")
	outer := New("H020").Wrap(inner)

	if outer.Wrapped != inner {
		t.Error("Wrapped error mismatch")
	}
	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, ErrInvalidArgument) {
		t.Error("errors.Is should see the wrapped category")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "H001") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	he := New("H001")
	if FromError(he, "H002") != he {
		t.Error("FromError should return HiveError as-is")
	}

	std := stderrors.New("boom")
	result := FromError(std, "H020")
	if result.Wrapped != std {
		t.Error("Standard error should be wrapped")
	}
	if result.Code != "H020" {
		t.Errorf("Code = %q, want %q", result.Code, "H020")
	}

	uncoded := Newf(CategoryInvalidArgument, "bad payload")
	if got := FromError(uncoded, "H031"); got.Code != "H031" || got.Wrapped != uncoded {
		t.Errorf("FromError(uncoded) = %q wrapping %v, want H031 wrapping the original", got.Code, got.Wrapped)
	}
}

func TestCode(t *testing.T) {
	if got := Code(fmt.Errorf("outer: %w", New("H003"))); got != "H003" {
		t.Errorf("Code() = %q, want %q", got, "H003")
	}
	if got := Code(stderrors.New("plain")); got != "" {
		t.Errorf("Code() = %q, want empty", got)
	}
	if got := Code(nil); got != "" {
		t.Errorf("Code(nil) = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("H001").
		WithSuggestion("Register the setter in store.Config.Setters")

	formatted := err.Format()
	for _, want := range []string{"H001", "Setter not found", "Change was called", "Hint:"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("H004").WithDetail(`module "sub"`)
	want := `H004: Module not found (module "sub")`
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New("H042").WithDetail("port 70000"))
	if !strings.Contains(buf.String(), "H042") {
		t.Errorf("PrintError output = %q, want code", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("PrintError output = %q, want plain message", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
