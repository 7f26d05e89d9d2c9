// Package errors provides structured, actionable errors for hive stores.
//
// Every error carries a code from the registry (e.g. "H001") that maps to a
// category, a short message, and a longer explanation. Categories double as
// sentinels so callers can branch with the standard library:
//
//	if errors.Is(err, hiveerrors.ErrNotFound) { ... }
//
// # Error Categories
//
//   - not_found: a setter, getter, action or module name is absent
//   - invalid_argument: a malformed key, query or open-call argument list
//   - host_hook: a component's own mount/unmount hook failed
//   - config: store definition files that cannot be read or are invalid
//   - protocol: malformed messages on the WebSocket bridge
//   - runtime: recovered panics inside store handlers
//
// # Usage
//
//	err := errors.New("H001").
//	    WithDetail(`Setter with name "increment" does not exist.`).
//	    WithSuggestion("Register the setter in store.Config.Setters")
//
//	fmt.Println(err.Format())
package errors
