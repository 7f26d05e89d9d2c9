// Package query normalizes subscription queries into alias maps and
// resolves dotted module paths.
//
// Nothing here holds state. A query names the keys a component wants,
// either as a list (each key is its own alias) or as an alias→key map:
//
//	query.Normalize([]string{"count", "total"})
//	query.Normalize(map[string]string{"n": "count"})
package query

import (
	"sort"
	"strings"

	"github.com/vango-dev/hive/internal/errors"
)

// AliasMap maps a component-facing alias to the real state, getter, setter
// or action name it refers to.
type AliasMap map[string]string

// Aliases returns the aliases in sorted order.
func (m AliasMap) Aliases() []string {
	out := make([]string, 0, len(m))
	for alias := range m {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Normalize converts q into a fresh AliasMap. Accepted forms are []string,
// map[string]string and AliasMap. An empty query is valid and yields an
// empty map.
func Normalize(q any) (AliasMap, error) {
	switch t := q.(type) {
	case []string:
		out := make(AliasMap, len(t))
		for _, key := range t {
			if key == "" {
				return nil, errors.New("H011").WithDetail("empty key in list query")
			}
			out[key] = key
		}
		return out, nil

	case AliasMap:
		return copyMap(t)

	case map[string]string:
		return copyMap(t)

	case nil:
		return nil, errors.New("H011").WithDetail("query is nil")
	}
	return nil, errors.New("H011").WithDetailf("unsupported query type %T", q)
}

func copyMap(m map[string]string) (AliasMap, error) {
	out := make(AliasMap, len(m))
	for alias, key := range m {
		if alias == "" || key == "" {
			return nil, errors.New("H011").
				WithDetailf("alias %q maps to %q; both must be non-empty", alias, key)
		}
		out[alias] = key
	}
	return out, nil
}

// Slice reads every alias's real key through get and returns
// {alias: value}. Keys get reports as missing are left out.
func Slice(m AliasMap, get func(key string) (any, bool)) map[string]any {
	out := make(map[string]any, len(m))
	for alias, key := range m {
		if v, ok := get(key); ok {
			out[alias] = v
		}
	}
	return out
}

// SplitPath splits a dotted module path into segments. The empty path has
// no segments and addresses the root.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// JoinPath joins a parent path and a child name.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// Node is anything with named children addressable by path.
type Node[N any] interface {
	Child(name string) (N, bool)
}

// Resolve walks path from root one segment at a time. It fails with a
// not-found error naming the first segment that does not exist.
func Resolve[N Node[N]](root N, path string) (N, error) {
	cur := root
	for _, name := range SplitPath(path) {
		next, ok := cur.Child(name)
		if !ok {
			var zero N
			return zero, errors.New("H004").
				WithDetailf("module with name %q could not be found in path %q", name, path)
		}
		cur = next
	}
	return cur, nil
}
