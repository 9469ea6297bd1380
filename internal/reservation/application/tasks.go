package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/example/reservation-backend/pkg/notify"
	"github.com/example/reservation-backend/pkg/taskqueue"
	"github.com/google/uuid"
)

// Task kinds handled by the worker.
const (
	KindNotifyAdmin         = "notify_admin_new_reservation"
	KindNotifyCustomer      = "notify_customer_status"
	KindCompleteReservation = "complete_reservation"
)

type AdminNotification struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Date          string    `json:"reservation_date"`
	Time          string    `json:"reservation_time"`
}

type CustomerNotification struct {
	ReservationID uuid.UUID     `json:"reservation_id"`
	UserEmail     string        `json:"user_email"`
	UserName      string        `json:"user_name"`
	Status        domain.Status `json:"status"`
	Date          string        `json:"reservation_date"`
	Time          string        `json:"reservation_time"`
}

type CompletionRequest struct {
	ReservationID uuid.UUID `json:"reservation_id"`
}

// RegisterHandlers wires the task kinds onto the worker mux.
func RegisterHandlers(mux *taskqueue.Mux, notifier Notifier, completer *Completer, adminEmail string) {
	mux.Register(KindNotifyAdmin, notifyAdminHandler(notifier, adminEmail))
	mux.Register(KindNotifyCustomer, notifyCustomerHandler(notifier))
	mux.Register(KindCompleteReservation, completionHandler(completer))
}

func notifyAdminHandler(notifier Notifier, adminEmail string) taskqueue.Handler {
	return func(ctx context.Context, payload []byte) (string, error) {
		var p AdminNotification
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", fmt.Errorf("decode admin notification: %w", err)
		}
		if p.ReservationID == uuid.Nil {
			return "", fmt.Errorf("admin notification missing reservation id")
		}
		data := map[string]string{
			"reservation_id":   p.ReservationID.String(),
			"customer_name":    p.CustomerName,
			"customer_email":   p.CustomerEmail,
			"reservation_date": p.Date,
			"reservation_time": p.Time,
		}
		if err := notifier.Send(ctx, notify.TemplateNewReservationAdmin, adminEmail, data); err != nil {
			return "", err
		}
		return fmt.Sprintf("admin notification sent for reservation %s", p.ReservationID), nil
	}
}

func notifyCustomerHandler(notifier Notifier) taskqueue.Handler {
	return func(ctx context.Context, payload []byte) (string, error) {
		var p CustomerNotification
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", fmt.Errorf("decode customer notification: %w", err)
		}

		var tmpl string
		switch p.Status {
		case domain.StatusConfirmed:
			tmpl = notify.TemplateReservationConfirmed
		case domain.StatusCanceled:
			tmpl = notify.TemplateReservationCancelled
		default:
			// Only confirmed and canceled notify the customer.
			return fmt.Sprintf("no email for status %s", p.Status), nil
		}

		data := map[string]string{
			"reservation_id":   p.ReservationID.String(),
			"user_name":        p.UserName,
			"reservation_date": p.Date,
			"reservation_time": p.Time,
			"status":           string(p.Status),
		}
		if err := notifier.Send(ctx, tmpl, p.UserEmail, data); err != nil {
			return "", err
		}
		return fmt.Sprintf("email sent to %s for reservation %s", p.UserEmail, p.ReservationID), nil
	}
}

func completionHandler(completer *Completer) taskqueue.Handler {
	return func(ctx context.Context, payload []byte) (string, error) {
		var p CompletionRequest
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", fmt.Errorf("decode completion request: %w", err)
		}
		if p.ReservationID == uuid.Nil {
			return "", fmt.Errorf("completion request missing reservation id")
		}
		return completer.CompleteReservation(ctx, p.ReservationID)
	}
}
