package observe

import (
	"sort"
	"strings"
)

// Reporter receives the local key of every write.
type Reporter interface {
	Report(key string)
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(key string)

// Report calls f(key).
func (f ReporterFunc) Report(key string) {
	f(key)
}

type discard struct{}

func (discard) Report(string) {}

// Object is a mutation-observable view over one node of a state tree.
// It is not safe for concurrent use.
type Object struct {
	raw      map[string]any
	reporter Reporter

	// children caches wrappers for nested maps, keyed by property name.
	children map[string]*Object
}

// New wraps raw. The map is used in place, not copied. A nil raw starts an
// empty tree; a nil reporter discards reports.
func New(raw map[string]any, r Reporter) *Object {
	if raw == nil {
		raw = make(map[string]any)
	}
	if r == nil {
		r = discard{}
	}
	return &Object{raw: raw, reporter: r}
}

// Get returns the value stored at key. Nested maps come back wrapped as
// *Object sharing this object's reporter. Missing keys return nil.
func (o *Object) Get(key string) any {
	v, ok := o.raw[key]
	if !ok {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return o.child(key, m)
	}
	return v
}

func (o *Object) child(key string, m map[string]any) *Object {
	if c, ok := o.children[key]; ok {
		return c
	}
	if o.children == nil {
		o.children = make(map[string]*Object)
	}
	c := &Object{raw: m, reporter: o.reporter}
	o.children[key] = c
	return c
}

// Set assigns value to key and reports key. Assigning an *Object stores
// the map it wraps.
func (o *Object) Set(key string, value any) {
	if obj, ok := value.(*Object); ok {
		value = obj.raw
	}
	o.raw[key] = value
	delete(o.children, key)
	o.reporter.Report(key)
}

// Delete removes key and reports it like a write. Deleting a missing key
// still reports.
func (o *Object) Delete(key string) {
	delete(o.raw, key)
	delete(o.children, key)
	o.reporter.Report(key)
}

// Update replaces the value at key with fn(current) and reports once.
func (o *Object) Update(key string, fn func(current any) any) {
	o.Set(key, fn(o.Get(key)))
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.raw[key]
	return ok
}

// Keys returns the property names in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of properties.
func (o *Object) Len() int {
	return len(o.raw)
}

// Object returns the nested object at key, or nil if the value is not a map.
func (o *Object) Object(key string) *Object {
	obj, _ := o.Get(key).(*Object)
	return obj
}

// Lookup walks a dot-separated path ("user.address.city") and returns the
// value found there, wrapped like Get.
func (o *Object) Lookup(path string) (any, bool) {
	if path == "" {
		return o, true
	}
	cur := o
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		if !cur.Has(seg) {
			return nil, false
		}
		v := cur.Get(seg)
		if i == len(segments)-1 {
			return v, true
		}
		next, ok := v.(*Object)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Value returns a deep copy of the value at key. Patches and snapshots are
// built from Value so receivers cannot write around the reporter.
func (o *Object) Value(key string) any {
	return clone(o.raw[key])
}

// Snapshot returns a deep copy of the whole node.
func (o *Object) Snapshot() map[string]any {
	return cloneMap(o.raw)
}

// Raw returns the underlying map. Writes made directly to it are not
// reported.
func (o *Object) Raw() map[string]any {
	return o.raw
}
