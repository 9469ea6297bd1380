package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventReservationCreated       = "ReservationCreated"
	EventReservationStatusChanged = "ReservationStatusChanged"
)

type ReservationCreated struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	StartTime     time.Time `json:"start_time"`
}

type ReservationStatusChanged struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	StartTime     time.Time `json:"start_time"`
	Status        Status    `json:"status"`
}
