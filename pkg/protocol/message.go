package protocol

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/vango-dev/hive/internal/errors"
)

// Version is the protocol version announced in the hello message.
const Version = 1

// DefaultMaxMessageSize is the default limit for a single client frame.
const DefaultMaxMessageSize = 64 * 1024

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Type identifies a message.
type Type string

// Client to server.
const (
	TypeSubscribe   Type = "subscribe"
	TypeUnsubscribe Type = "unsubscribe"
	TypeChange      Type = "change"
	TypeSend        Type = "send"
	TypeAccess      Type = "access"
	TypePing        Type = "ping"
)

// Server to client.
const (
	TypeHello    Type = "hello"
	TypeSnapshot Type = "snapshot"
	TypePatch    Type = "patch"
	TypeResult   Type = "result"
	TypeError    Type = "error"
	TypePong     Type = "pong"
)

// IsClient reports whether t is a message clients may send.
func (t Type) IsClient() bool {
	switch t {
	case TypeSubscribe, TypeUnsubscribe, TypeChange, TypeSend, TypeAccess, TypePing:
		return true
	}
	return false
}

// Message is the envelope for every frame. Fields not used by a type are
// omitted on the wire.
type Message struct {
	Type Type `json:"type"`

	// ID correlates a request with its result or error.
	ID string `json:"id,omitempty"`

	// Sub names a subscription; it is chosen by the client.
	Sub string `json:"sub,omitempty"`

	// Module is the dotted module path ("" for the root).
	Module string `json:"module,omitempty"`

	// Query is a key list or an {alias: key} object. Decode normalizes it
	// to []string or map[string]string.
	Query any `json:"query,omitempty"`

	// Name is the setter, action or getter name.
	Name    string `json:"name,omitempty"`
	Payload any    `json:"payload,omitempty"`

	// Listener is the listener id assigned to a subscription.
	Listener string `json:"listener,omitempty"`

	// State carries snapshot and patch values keyed by alias.
	State map[string]any `json:"state,omitempty"`

	Result any        `json:"result,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`

	// Conn and Version are set on hello.
	Conn    string `json:"conn,omitempty"`
	Version int    `json:"version,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`

	// Fatal means the server closes the connection after sending it.
	Fatal bool `json:"fatal,omitempty"`
}

// Encode marshals m.
func Encode(m *Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses and validates a client frame no larger than limit bytes.
// A limit of zero or less means DefaultMaxMessageSize.
func Decode(data []byte, limit int) (*Message, error) {
	if limit <= 0 {
		limit = DefaultMaxMessageSize
	}
	if len(data) > limit {
		return nil, errors.New("H062").
			WithDetailf("Frame of %d bytes exceeds the %d byte limit.", len(data), limit)
	}

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("H060").Wrap(err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Message) validate() error {
	if !m.Type.IsClient() {
		return errors.New("H061").WithDetailf("Message type %q is not accepted from clients.", m.Type)
	}

	switch m.Type {
	case TypeSubscribe:
		if m.Sub == "" {
			return malformed("subscribe requires \"sub\"")
		}
		q, err := normalizeQuery(m.Query)
		if err != nil {
			return err
		}
		m.Query = q
	case TypeUnsubscribe:
		if m.Sub == "" {
			return malformed("unsubscribe requires \"sub\"")
		}
	case TypeChange, TypeSend, TypeAccess:
		if m.Name == "" {
			return malformed("%s requires \"name\"", m.Type)
		}
	}
	return nil
}

// normalizeQuery turns decoded JSON into the query shapes the store
// accepts.
func normalizeQuery(q any) (any, error) {
	switch v := q.(type) {
	case []any:
		keys := make([]string, 0, len(v))
		for _, k := range v {
			s, ok := k.(string)
			if !ok {
				return nil, malformed("query keys must be strings, got %T", k)
			}
			keys = append(keys, s)
		}
		return keys, nil
	case map[string]any:
		aliases := make(map[string]string, len(v))
		for alias, k := range v {
			s, ok := k.(string)
			if !ok {
				return nil, malformed("query alias %q must map to a string key, got %T", alias, k)
			}
			aliases[alias] = s
		}
		return aliases, nil
	case nil:
		return nil, malformed("subscribe requires \"query\"")
	}
	return nil, malformed("query must be an array or an object, got %T", q)
}

func malformed(format string, args ...any) error {
	return errors.New("H060").WithDetailf(format, args...)
}
