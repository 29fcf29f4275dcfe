package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Email is an outbound message handed to the delivery transport.
type Email struct {
	To       string `json:"to"`
	ToName   string `json:"toName,omitempty"`
	Subject  string `json:"subject"`
	TextBody string `json:"textBody"`
}

// Mailer delivers email through an external transport, returning the
// provider's opaque message id.
type Mailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

// MemoryMailer records sends in memory. Used in dev mode and tests; FailWith
// injects transport failures.
type MemoryMailer struct {
	mu       sync.Mutex
	sent     []Email
	FailWith error
}

func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

func (m *MemoryMailer) Send(ctx context.Context, email Email) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", m.FailWith
	}
	m.sent = append(m.sent, email)
	return uuid.NewString(), nil
}

// Sent returns a copy of everything delivered so far.
func (m *MemoryMailer) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}

var _ Mailer = (*MemoryMailer)(nil)
