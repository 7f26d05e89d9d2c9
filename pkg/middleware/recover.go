package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/vango-dev/hive/internal/errors"
	"github.com/vango-dev/hive/pkg/store"
)

// Recover returns middleware that turns a panic inside a getter, setter or
// action into an H030 error. Place it first so it also covers the other
// middleware. Writes made before the panic stay dirty and go out with the
// next broadcast.
func Recover() store.Middleware {
	return func(next store.Handler) store.Handler {
		return func(op *store.Operation) (res any, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.New("H030").
						WithDetailf("%s %q in module %q panicked: %v", op.Kind, op.Name, moduleLabel(op.Module), r).
						Wrap(panicError{value: r, stack: debug.Stack()})
					res = nil
				}
			}()
			return next(op)
		}
	}
}

// panicError carries the recovered value and the stack at the panic site.
type panicError struct {
	value any
	stack []byte
}

func (p panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

// Stack returns the goroutine stack captured when the panic was recovered.
func (p panicError) Stack() []byte {
	return p.stack
}
