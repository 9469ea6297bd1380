package http

import (
	"context"
	"time"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/google/uuid"
)

type customerJSON struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

type reservationJSON struct {
	ID              uuid.UUID     `json:"id"`
	CustomerID      uuid.UUID     `json:"customer"`
	CustomerDetails *customerJSON `json:"customer_details,omitempty"`
	CustomerName    string        `json:"customer_name,omitempty"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Status          domain.Status `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}

// serialize embeds the customer the way the API has always shaped it:
// full details plus a precomputed display name. The customer lookup is
// best-effort; the reservation itself still serializes without it.
func (h *Handler) serialize(ctx context.Context, res domain.Reservation) reservationJSON {
	out := reservationJSON{
		ID:         res.ID,
		CustomerID: res.CustomerID,
		StartTime:  res.StartTime,
		EndTime:    res.EndTime,
		Status:     res.Status,
		CreatedAt:  res.CreatedAt,
	}

	user, err := h.service.GetCustomer(ctx, res.CustomerID)
	if err != nil {
		h.log.Warn("serialize: customer lookup failed", "reservation_id", res.ID, "err", err)
		return out
	}
	out.CustomerDetails = &customerJSON{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
	out.CustomerName = user.DisplayName()
	return out
}
