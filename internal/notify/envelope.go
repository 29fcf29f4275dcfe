package notify

import "encoding/json"

// Envelope is the payload handed to the delivery worker. It carries enough
// context for the worker to confirm the send (ledger counters and, for
// status-change events, the application's last-notified markers).
type Envelope struct {
	Email          Email    `json:"email"`
	UserID         string   `json:"userId,omitempty"`
	Category       Category `json:"category"`
	EventType      string   `json:"eventType"`
	ApplicationID  string   `json:"applicationId,omitempty"`
	NotifiedStatus string   `json:"notifiedStatus,omitempty"`
	EnqueuedAt     string   `json:"enqueuedAt"`
	Version        int      `json:"version"`
}

// EncodeEnvelope returns the JSON representation of an envelope.
func EncodeEnvelope(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// DecodeEnvelope parses a JSON payload into an Envelope.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
