package query

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/vango-dev/hive/internal/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		query any
		want  AliasMap
	}{
		{
			name:  "list query aliases each key to itself",
			query: []string{"count", "total"},
			want:  AliasMap{"count": "count", "total": "total"},
		},
		{
			name:  "map query keeps aliases",
			query: map[string]string{"n": "count"},
			want:  AliasMap{"n": "count"},
		},
		{
			name:  "alias map",
			query: AliasMap{"x": "y"},
			want:  AliasMap{"x": "y"},
		},
		{
			name:  "empty list",
			query: []string{},
			want:  AliasMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.query)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeCopiesInput(t *testing.T) {
	in := map[string]string{"a": "b"}
	got, _ := Normalize(in)
	in["a"] = "changed"
	if got["a"] != "b" {
		t.Errorf("alias map aliased caller's map: got %q", got["a"])
	}
}

func TestNormalizeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		query any
	}{
		{"nil", nil},
		{"string", "count"},
		{"int", 3},
		{"empty key in list", []string{"ok", ""}},
		{"empty alias", map[string]string{"": "count"}},
		{"empty real key", map[string]string{"n": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.query)
			if !stderrors.Is(err, errors.ErrInvalidArgument) {
				t.Errorf("Normalize() error = %v, want invalid argument", err)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	state := map[string]any{"count": 3, "name": "ada"}
	get := func(k string) (any, bool) {
		v, ok := state[k]
		return v, ok
	}

	got := Slice(AliasMap{"n": "count", "who": "name", "gone": "missing"}, get)
	want := map[string]any{"n": 3, "who": "ada"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Slice() = %v, want %v", got, want)
	}
}

func TestAliases(t *testing.T) {
	got := AliasMap{"b": "x", "a": "y"}.Aliases()
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Aliases() = %v", got)
	}
}

func TestSplitAndJoinPath(t *testing.T) {
	if got := SplitPath(""); got != nil {
		t.Errorf("SplitPath(\"\") = %v, want nil", got)
	}
	if got := SplitPath("a.b.c"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SplitPath(a.b.c) = %v", got)
	}
	if got := JoinPath("", "a"); got != "a" {
		t.Errorf("JoinPath(\"\", a) = %q", got)
	}
	if got := JoinPath("a", "b"); got != "a.b" {
		t.Errorf("JoinPath(a, b) = %q", got)
	}
}

type tree struct {
	name     string
	children map[string]*tree
}

func (t *tree) Child(name string) (*tree, bool) {
	c, ok := t.children[name]
	return c, ok
}

func TestResolve(t *testing.T) {
	c := &tree{name: "c"}
	b := &tree{name: "b", children: map[string]*tree{"c": c}}
	a := &tree{name: "a", children: map[string]*tree{"b": b}}
	root := &tree{name: "root", children: map[string]*tree{"a": a}}

	tests := []struct {
		path string
		want *tree
	}{
		{"", root},
		{"a", a},
		{"a.b", b},
		{"a.b.c", c},
	}
	for _, tt := range tests {
		got, err := Resolve(root, tt.path)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.path, got.name, tt.want.name)
		}
	}

	viaA, _ := Resolve(a, "b")
	direct, _ := Resolve(root, "a.b")
	if viaA != direct {
		t.Error("Resolve should be associative over path segments")
	}
}

func TestResolveMissing(t *testing.T) {
	root := &tree{children: map[string]*tree{"a": {children: map[string]*tree{}}}}

	_, err := Resolve(root, "a.nope.deeper")
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
	var he *errors.HiveError
	if !stderrors.As(err, &he) || he.Code != "H004" {
		t.Fatalf("error = %v, want H004", err)
	}
	if want := `module with name "nope" could not be found in path "a.nope.deeper"`; he.Detail != want {
		t.Errorf("Detail = %q, want %q", he.Detail, want)
	}
}

func TestParseOpenArgs(t *testing.T) {
	comp := &struct{ n int }{}

	tests := []struct {
		name string
		args []any
		want OpenArgs
	}{
		{
			name: "query and component",
			args: []any{[]string{"count"}, comp},
			want: OpenArgs{Query: []string{"count"}, Component: comp},
		},
		{
			name: "module path, query and component",
			args: []any{"sub.deep", map[string]string{"x": "y"}, comp},
			want: OpenArgs{Module: "sub.deep", Query: map[string]string{"x": "y"}, Component: comp},
		},
		{
			name: "empty path is the root",
			args: []any{"", []string{"a"}, comp},
			want: OpenArgs{Query: []string{"a"}, Component: comp},
		},
		{
			name: "query only",
			args: []any{[]string{"a"}},
			want: OpenArgs{Query: []string{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOpenArgs(tt.args...)
			if err != nil {
				t.Fatalf("ParseOpenArgs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOpenArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOpenArgsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []any
	}{
		{"none", nil},
		{"path only", []any{"sub"}},
		{"too many", []any{"sub", []string{"a"}, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOpenArgs(tt.args...)
			if errors.Code(err) != "H012" {
				t.Errorf("error = %v, want H012", err)
			}
		})
	}
}
