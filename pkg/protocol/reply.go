package protocol

import (
	"github.com/vango-dev/hive/internal/errors"
)

// Hello is the first message on a connection.
func Hello(conn string) *Message {
	return &Message{Type: TypeHello, Conn: conn, Version: Version}
}

// Snapshot carries the initial state of a subscription.
func Snapshot(req *Message, listener string, state map[string]any) *Message {
	return &Message{Type: TypeSnapshot, ID: req.ID, Sub: req.Sub, Listener: listener, State: state}
}

// Patch carries changed values for a subscription.
func Patch(sub string, patch map[string]any) *Message {
	return &Message{Type: TypePatch, Sub: sub, State: patch}
}

// Result answers a change, send or access request.
func Result(req *Message, result any) *Message {
	return &Message{Type: TypeResult, ID: req.ID, Result: result}
}

// Pong answers a ping.
func Pong(req *Message) *Message {
	return &Message{Type: TypePong, ID: req.ID}
}

// Error reports err for req. req may be nil when the frame could not be
// decoded. Errors without a code are reported as H031.
func Error(req *Message, err error, fatal bool) *Message {
	code := errors.Code(err)
	if code == "" {
		code = errors.FromError(err, "H031").Code
	}
	m := &Message{
		Type: TypeError,
		Error: &ErrorBody{
			Code:    code,
			Message: err.Error(),
			Fatal:   fatal,
		},
	}
	if req != nil {
		m.ID = req.ID
		m.Sub = req.Sub
	}
	return m
}
