// Package middleware provides operation middleware and instrumentation for
// hive stores.
//
// Store middleware wraps every Access, Change and Send, including the nested
// calls setters and actions make through their bound methods:
//
//	metrics := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//
//	s := store.New(cfg,
//	    store.WithMiddleware(
//	        middleware.Recover(),
//	        middleware.OpenTelemetry(middleware.WithTracerName("myapp")),
//	        metrics.Middleware(),
//	        middleware.Logger(slog.Default()),
//	    ),
//	    store.WithBroadcastObserver(metrics),
//	)
//
// # Prometheus Metrics
//
// Metrics collected (namespace "hive" by default):
//   - hive_operations_total: operations by kind, module and status
//   - hive_operation_duration_seconds: operation duration histogram
//   - hive_operation_errors_total: failed operations by kind and error category
//   - hive_broadcasts_total: broadcast passes by module
//   - hive_patches_delivered_total: ApplyPatch calls by module
//   - hive_broadcast_dirty_keys: histogram of keys drained per pass
//   - hive_missing_done_total: actions that returned with unbroadcast writes
//   - hive_connections_active, hive_subscriptions_active,
//     hive_protocol_errors_total: WebSocket bridge gauges and counters
//
// # OpenTelemetry
//
// OpenTelemetry starts one span per operation, named after the operation
// kind ("hive.change"), with module and handler name attributes. The span's
// context replaces the operation context, so nested calls become child
// spans.
package middleware
