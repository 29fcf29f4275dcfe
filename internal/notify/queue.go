package notify

import "context"

// QueueClient hands a gated notification to an asynchronous delivery worker.
type QueueClient interface {
	Send(ctx context.Context, env Envelope) error
}
