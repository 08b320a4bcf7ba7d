// Package backend provides the HTTP bridge to the legacy DrinkMate
// commerce backend: a generic request forwarder for the proxy surface
// and a best-effort cart sync client.
package backend

import "encoding/json"

// Envelope is the response shape convention shared with the legacy
// backend: {success, data?|message?, error?}.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ErrorEnvelope builds a failure envelope with a caller-safe message.
func ErrorEnvelope(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
