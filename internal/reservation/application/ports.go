package application

import (
	"context"
	"time"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/google/uuid"
)

type ReservationRepository interface {
	// CreateWithOutbox persists the reservation and the given domain event
	// in one transaction.
	CreateWithOutbox(ctx context.Context, r domain.Reservation, eventType string, payload []byte, traceparent string) error
	// UpdateStatusWithOutbox persists the new status and the given domain
	// event in one transaction.
	UpdateStatusWithOutbox(ctx context.Context, id uuid.UUID, status domain.Status, eventType string, payload []byte, traceparent string) error
	Get(ctx context.Context, id uuid.UUID) (domain.Reservation, error)
	List(ctx context.Context, status *domain.Status) ([]domain.Reservation, error)
	// FindOverdueConfirmed returns confirmed reservations whose start time
	// is at or before cutoff.
	FindOverdueConfirmed(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error)
	// CompleteIfConfirmed sets status to completed only when the row is
	// still confirmed, reporting whether it changed anything. This is the
	// atomic guard that keeps concurrent completion attempts safe.
	CompleteIfConfirmed(ctx context.Context, id uuid.UUID) (bool, error)
}

type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, u domain.User) error
}

// Notifier delivers a rendered notification to a recipient.
type Notifier interface {
	Send(ctx context.Context, template, recipient string, data map[string]string) error
}

// TaskScheduler enqueues a job to execute no earlier than runAt and
// returns its id without waiting for execution.
type TaskScheduler interface {
	Enqueue(ctx context.Context, kind string, runAt time.Time, payload any) (uuid.UUID, error)
}

// EventHandler reacts to reservation writes. Handlers run synchronously
// with the write but only to enqueue work; they must not fail the write.
type EventHandler interface {
	HandleCreated(ctx context.Context, ev domain.ReservationCreated)
	HandleStatusChanged(ctx context.Context, ev domain.ReservationStatusChanged)
}
