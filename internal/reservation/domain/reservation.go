package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
)

// ParseStatus validates a raw status value at the system boundary.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCanceled, StatusCompleted:
		return Status(s), nil
	}
	return "", errors.New("unknown status: " + s)
}

// CanTransition reports whether moving from cur to next is a legal
// forward transition. Canceled and completed are terminal.
func CanTransition(cur, next Status) bool {
	switch cur {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCanceled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCanceled
	}
	return false
}

// Notifiable reports whether reaching s triggers a customer notification.
func Notifiable(s Status) bool {
	return s == StatusConfirmed || s == StatusCanceled
}

// CompletionEligible reports whether a reservation in status s may be
// auto-completed. Only confirmed reservations complete; everything else
// is a no-op for the completion handler.
func CompletionEligible(s Status) bool {
	return s == StatusConfirmed
}

type Reservation struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	Status     Status
	CreatedAt  time.Time
}

func NewReservation(customerID uuid.UUID, start, end time.Time) Reservation {
	return Reservation{
		ID:         uuid.New(),
		CustomerID: customerID,
		StartTime:  start,
		EndTime:    end,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

func (r Reservation) Validate() error {
	if r.CustomerID == uuid.Nil {
		return errors.New("customer required")
	}
	if r.StartTime.IsZero() {
		return errors.New("start_time required")
	}
	if !r.EndTime.After(r.StartTime) {
		return errors.New("end_time must be after start_time")
	}
	return nil
}

// Notification date formats, kept in one place so emails and the API agree.
const (
	DateFormat = "January 02, 2006"
	TimeFormat = "03:04 PM"
)
