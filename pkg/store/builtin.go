package store

import (
	"sort"
	"strings"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/observe"
)

// Names under which declarative stores register the built-in handlers.
const (
	AssignSetterName   = "assign"
	SetSetterName      = "set"
	ResetSetterName    = "reset"
	SnapshotGetterName = "snapshot"
)

// AssignSetter merges a map[string]any payload into the top level of state,
// one write per key in sorted order.
func AssignSetter(state *observe.Object, payload any, _ Methods) (any, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.Newf(errors.CategoryInvalidArgument,
			"assign expects an object payload, got %T", payload)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		state.Set(k, m[k])
	}
	return nil, nil
}

// SetSetter writes one value. The payload is {"key": path, "value": v};
// a dotted path creates missing intermediate objects but never replaces an
// existing non-object value.
func SetSetter(state *observe.Object, payload any, _ Methods) (any, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, errors.Newf(errors.CategoryInvalidArgument,
			"set expects {key, value}, got %T", payload)
	}
	path, _ := m["key"].(string)
	if path == "" {
		return nil, errors.Newf(errors.CategoryInvalidArgument, "set needs a non-empty key")
	}

	segments := strings.Split(path, ".")
	cur := state
	for i, seg := range segments[:len(segments)-1] {
		next := cur.Object(seg)
		if next == nil && cur.Has(seg) {
			return nil, errors.Newf(errors.CategoryInvalidArgument,
				"set %q: %q is not an object", path, strings.Join(segments[:i+1], "."))
		}
		if next == nil {
			cur.Set(seg, map[string]any{})
			next = cur.Object(seg)
		}
		cur = next
	}
	cur.Set(segments[len(segments)-1], m["value"])
	return nil, nil
}

// ResetSetter returns a setter restoring a copy of initial: keys not in
// initial are deleted, the rest are rewritten.
func ResetSetter(initial map[string]any) Setter {
	saved := observe.CloneMap(initial)
	return func(state *observe.Object, _ any, _ Methods) (any, error) {
		for _, k := range state.Keys() {
			if _, ok := saved[k]; !ok {
				state.Delete(k)
			}
		}
		fresh := observe.CloneMap(saved)
		keys := make([]string, 0, len(fresh))
		for k := range fresh {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			state.Set(k, fresh[k])
		}
		return nil, nil
	}
}

// SnapshotGetter returns a deep copy of the whole state.
func SnapshotGetter(state *observe.Object) any {
	return state.Snapshot()
}
