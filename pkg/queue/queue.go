// Package queue implements the dirty-key set a store drains on broadcast.
package queue

import (
	"sort"

	"github.com/vango-dev/hive/internal/errors"
)

// DirtyQueue is the set of property names written since the last broadcast.
// Membership matters, not count: adding a key twice is the same as adding it
// once. It is not safe for concurrent use; a store owns exactly one.
type DirtyQueue struct {
	keys map[string]struct{}
}

// New creates an empty queue.
func New() *DirtyQueue {
	return &DirtyQueue{keys: make(map[string]struct{})}
}

// Add marks key as dirty.
func (q *DirtyQueue) Add(key string) error {
	if err := validate(key, "Add"); err != nil {
		return err
	}
	q.keys[key] = struct{}{}
	return nil
}

// Remove unmarks key. Removing a key that is not present is not an error.
func (q *DirtyQueue) Remove(key string) error {
	if err := validate(key, "Remove"); err != nil {
		return err
	}
	delete(q.keys, key)
	return nil
}

// Has reports whether key is dirty. An invalid key is never a member.
func (q *DirtyQueue) Has(key string) bool {
	_, ok := q.keys[key]
	return ok
}

// Clear empties the queue.
func (q *DirtyQueue) Clear() {
	clear(q.keys)
}

// IsPopulated reports whether at least one key is dirty.
func (q *DirtyQueue) IsPopulated() bool {
	return len(q.keys) > 0
}

// Len returns the number of dirty keys.
func (q *DirtyQueue) Len() int {
	return len(q.keys)
}

// Keys returns the dirty keys in sorted order.
func (q *DirtyQueue) Keys() []string {
	out := make([]string, 0, len(q.keys))
	for k := range q.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func validate(key, op string) error {
	if key == "" {
		return errors.New("H010").
			WithDetailf("empty key passed to %s", op)
	}
	return nil
}
