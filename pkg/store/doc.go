// Package store implements the reactive container at the heart of hive.
//
// A Store owns one observable state tree, one dirty-key queue, named
// getters, setters and actions, a tree of child stores (modules), and a
// registry of mounted components. Setters and actions write through the
// observable tree, every write marks its key dirty, and the store then
// delivers {alias: value} patches only to the components whose aliases map
// to a dirty key.
//
// # Defining a store
//
//	s := store.New(store.Config{
//	    State: map[string]any{"count": 0},
//	    Getters: map[string]store.Getter{
//	        "total": func(state *observe.Object) any { return state.Int("count") },
//	    },
//	    Setters: map[string]store.Setter{
//	        "increment": func(state *observe.Object, payload any, _ store.Methods) (any, error) {
//	            state.Set("count", state.Int("count")+payload.(int))
//	            return nil, nil
//	        },
//	    },
//	    Modules: map[string]store.Config{
//	        "sub": {State: map[string]any{"x": 1}},
//	    },
//	})
//
// # Subscribing components
//
// A component implements ApplyPatch. OpenState records which keys it wants
// and returns their current values for the first render; the host then calls
// Mount and Unmount around the component's lifetime:
//
//	initial, err := s.OpenState(map[string]string{"n": "count"}, counter)
//	s.Mount(counter)
//	s.Change("increment", 5) // counter.ApplyPatch(map[string]any{"n": 5})
//	s.Unmount(counter)
//
// # Actions
//
// Actions do not broadcast on their own. An action that writes State
// directly calls Done when its work is finished, possibly later:
//
//	"load": func(a store.ActionArgs, payload any) (any, error) {
//	    go func() {
//	        a.State.Set("items", fetch())
//	        a.Done()
//	    }()
//	    return nil, nil
//	}
//
// A Store is single-threaded. Hosts that touch it from several goroutines
// must serialize access and should route Done through WithScheduler.
package store
