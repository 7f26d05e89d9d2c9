package store

import "context"

// OpKind names the store operation being dispatched.
type OpKind string

const (
	OpAccess OpKind = "access"
	OpChange OpKind = "change"
	OpSend   OpKind = "send"
)

// Operation is one Access, Change or Send call as seen by middleware.
type Operation struct {
	Kind    OpKind
	Module  string
	Name    string
	Payload any

	ctx context.Context
}

// Context returns the operation's context. It is never nil.
func (op *Operation) Context() context.Context {
	if op.ctx == nil {
		return context.Background()
	}
	return op.ctx
}

// SetContext replaces the operation's context. Setters and actions invoked
// further down, including nested calls they make, see the new context.
func (op *Operation) SetContext(ctx context.Context) {
	op.ctx = ctx
}

// Handler executes an operation.
type Handler func(op *Operation) (any, error)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

func chain(h Handler, mw []Middleware) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
