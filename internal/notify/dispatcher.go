package notify

import (
	"context"
	"sync"
	"time"

	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/status"
)

// MarkerStore persists an application's last-notified markers. Writes are
// last-writer-wins per application id; serialization of concurrent
// transitions on the same application is the persistence layer's job.
type MarkerStore interface {
	UpdateStatusNotified(ctx context.Context, applicationID string, notified status.Status, sentAt time.Time) error
}

// Dispatcher turns a gating decision into an asynchronous unit of delivery
// work. The decision is computed synchronously and returned to the caller
// before any transport call runs; delivery happens in a separate goroutine
// (or an external worker via the queue), and ledger counters plus status
// markers are updated only in the on-success continuation. A transport
// failure is logged and dropped: it never unwinds the triggering request and
// never moves counters or markers, so a retry is not miscounted.
type Dispatcher struct {
	Orchestrator *Orchestrator
	Mailer       Mailer
	// Queue, when set, hands delivery to an external worker instead of an
	// in-process goroutine.
	Queue   QueueClient
	Markers MarkerStore
	Now     func() time.Time

	wg sync.WaitGroup
}

func NewDispatcher(orch *Orchestrator, mailer Mailer) *Dispatcher {
	return &Dispatcher{Orchestrator: orch, Mailer: mailer}
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

// Dispatch evaluates the gating pipeline and, when the decision is "send",
// hands the email off for delivery. The returned Decision is final from the
// caller's perspective regardless of what delivery later does.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, category Category, eventType string, sc *StatusContext, email Email) Decision {
	dec := d.Orchestrator.Evaluate(ctx, userID, category, eventType, sc)
	if !dec.Send {
		telemetry.Info("notify.suppressed", map[string]any{
			"user_id":    userID,
			"category":   string(category),
			"event_type": eventType,
			"reason":     dec.Reason,
		})
		return dec
	}

	env := Envelope{
		Email:      email,
		UserID:     userID,
		Category:   category,
		EventType:  eventType,
		EnqueuedAt: d.now().Format(time.RFC3339),
		Version:    1,
	}
	if sc != nil {
		env.ApplicationID = sc.ApplicationID
		env.NotifiedStatus = string(sc.Candidate)
	}

	if d.Queue != nil {
		if err := d.Queue.Send(ctx, env); err != nil {
			// Delivery loss is non-fatal to the triggering operation.
			telemetry.Error("notify.enqueue_failed", map[string]any{
				"user_id":    userID,
				"event_type": eventType,
				"error":      err.Error(),
			})
		}
		return dec
	}

	deliverCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		_ = d.Deliver(deliverCtx, env)
	}()
	return dec
}

// Deliver performs the actual transport call and the on-success bookkeeping.
// It is called from Dispatch's goroutine and from the queue worker.
func (d *Dispatcher) Deliver(ctx context.Context, env Envelope) error {
	messageID, err := d.Mailer.Send(ctx, env.Email)
	if err != nil {
		telemetry.Error("notify.delivery_failed", map[string]any{
			"user_id":    env.UserID,
			"event_type": env.EventType,
			"to":         env.Email.To,
			"error":      err.Error(),
		})
		return err
	}

	d.Orchestrator.Confirm(ctx, env.UserID, env.Category, env.EventType)

	if env.EventType == EventStatusChanged && env.ApplicationID != "" && d.Markers != nil {
		notified, perr := status.Parse(env.NotifiedStatus)
		if perr != nil {
			telemetry.Error("notify.marker_status_invalid", map[string]any{
				"application_id": env.ApplicationID,
				"status":         env.NotifiedStatus,
			})
		} else if merr := d.Markers.UpdateStatusNotified(ctx, env.ApplicationID, notified, d.now()); merr != nil {
			telemetry.Error("notify.marker_update_failed", map[string]any{
				"application_id": env.ApplicationID,
				"error":          merr.Error(),
			})
		}
	}

	telemetry.Info("notify.sent", map[string]any{
		"user_id":    env.UserID,
		"category":   string(env.Category),
		"event_type": env.EventType,
		"message_id": messageID,
	})
	return nil
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown and in
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
