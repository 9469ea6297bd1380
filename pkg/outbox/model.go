package outbox

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Event is a domain event written in the same transaction as the entity
// change that produced it. The relay publishes pending events to the
// event stream out-of-band, so a failed publish never blocks or rolls
// back the originating write.
type Event struct {
	ID          int64
	AggregateID string
	Type        string
	Payload     []byte
	Traceparent string
	CreatedAt   time.Time
	Status      Status
	RetryCount  int
	LastError   *string
}
