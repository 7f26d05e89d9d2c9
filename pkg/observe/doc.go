// Package observe wraps plain state trees so every write reports the key
// it touched.
//
// A state tree is a map[string]any whose values may themselves be
// map[string]any. Wrapping is lazy: a nested map becomes an *Object the
// first time it is read through Get, and the wrapper is cached until the
// key is assigned again.
//
// Every write (Set, Delete, Update) at any depth reports its local key to the
// root's Reporter:
//
//	q := queue.New()
//	state := observe.New(map[string]any{
//	    "user": map[string]any{"name": "ada"},
//	}, observe.ReporterFunc(func(key string) { _ = q.Add(key) }))
//
//	state.Object("user").Set("name", "grace") // reports "name", not "user.name"
//
// Two nested objects with a field of the same name are indistinguishable to
// the reporter. Slices are plain values: replace them with Set to make the
// change observable.
package observe
