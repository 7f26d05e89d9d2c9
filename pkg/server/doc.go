// Package server bridges a hive store to remote components over WebSocket.
//
// Each WebSocket connection may hold any number of subscriptions. A
// subscription is a remote component: it is listened and mounted on its
// module like any local component, and the patches it receives are
// written to the connection as protocol messages.
//
// All store calls run on a single Hub goroutine. Connection read loops
// hand their requests to the hub with Do, and the store's scheduler is the
// hub's Dispatch, so Done calls made from an action's background work are
// serialized with everything else:
//
//	hub := server.NewHub(logger)
//	st := store.New(cfg, store.WithScheduler(hub.Dispatch))
//	srv := server.New(st, hub, server.WithMetrics(metrics))
//	err := srv.Run(ctx, ":8080")
//
// Background work started by an action must write state from a function
// passed to Hub.Dispatch.
//
// # Routes
//
//   - GET /ws: WebSocket endpoint
//   - GET /state/{module}: JSON snapshot and handler names of a module
//   - GET /healthz: liveness and connection count
//   - GET /metrics: Prometheus exposition
package server
