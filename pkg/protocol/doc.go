// Package protocol defines the JSON messages exchanged between a hive
// server and its remote components over WebSocket.
//
// Every frame is one JSON object with a "type" field.
//
// # Client to server
//
//   - subscribe: open state for a module and mount a remote component
//     ({"type":"subscribe","sub":"s1","module":"cart","query":["items"]})
//   - unsubscribe: unmount and release a subscription
//   - change, send, access: run a setter, action or getter by name
//   - ping: heartbeat
//
// # Server to client
//
//   - hello: connection id and protocol version, sent once on connect
//   - snapshot: initial {alias: value} state for a subscription
//   - patch: {alias: value} for the aliases whose keys changed
//   - result: return value of change, send or access
//   - error: a failed request, with the hive error code
//   - pong: heartbeat reply
//
// Requests may carry an "id" that is echoed in the result or error reply.
package protocol
