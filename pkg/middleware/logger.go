package middleware

import (
	"log/slog"
	"time"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/store"
)

// Logger returns middleware that logs each operation at debug level and
// failed operations at warn level with their error code.
func Logger(logger *slog.Logger) store.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next store.Handler) store.Handler {
		return func(op *store.Operation) (any, error) {
			start := time.Now()
			res, err := next(op)

			attrs := []any{
				"kind", string(op.Kind),
				"module", moduleLabel(op.Module),
				"name", op.Name,
				"duration", time.Since(start),
			}
			if err != nil {
				attrs = append(attrs, "code", errors.Code(err), "error", err)
				logger.WarnContext(op.Context(), "store operation failed", attrs...)
			} else {
				logger.DebugContext(op.Context(), "store operation", attrs...)
			}
			return res, err
		}
	}
}
