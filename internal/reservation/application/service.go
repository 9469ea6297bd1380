package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/example/reservation-backend/pkg/tracing"
	"github.com/google/uuid"
)

// Service owns reservation writes. Every committed write is followed by a
// synchronous publish to the subscribed handlers, which only enqueue
// work; the write itself never waits on notifications or scheduling.
type Service struct {
	log      *slog.Logger
	repo     ReservationRepository
	users    UserRepository
	handlers []EventHandler
}

func NewService(log *slog.Logger, repo ReservationRepository, users UserRepository) *Service {
	return &Service{log: log, repo: repo, users: users}
}

// Subscribe registers a handler for reservation events.
func (s *Service) Subscribe(h EventHandler) {
	s.handlers = append(s.handlers, h)
}

func (s *Service) CreateReservation(ctx context.Context, customerID uuid.UUID, start, end time.Time) (domain.Reservation, error) {
	if _, err := s.users.Get(ctx, customerID); err != nil {
		return domain.Reservation{}, fmt.Errorf("customer %s: %w", customerID, err)
	}

	r := domain.NewReservation(customerID, start, end)
	if err := r.Validate(); err != nil {
		return domain.Reservation{}, err
	}

	ev := domain.ReservationCreated{
		ReservationID: r.ID,
		CustomerID:    r.CustomerID,
		StartTime:     r.StartTime,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return domain.Reservation{}, err
	}

	if err := s.repo.CreateWithOutbox(ctx, r, domain.EventReservationCreated, payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Reservation{}, fmt.Errorf("create reservation: %w", err)
	}
	s.log.Info("reservation created", "reservation_id", r.ID, "customer_id", r.CustomerID)

	for _, h := range s.handlers {
		h.HandleCreated(ctx, ev)
	}
	return r, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next domain.Status) (domain.Reservation, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !domain.CanTransition(r.Status, next) {
		return domain.Reservation{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, r.Status, next)
	}

	ev := domain.ReservationStatusChanged{
		ReservationID: r.ID,
		CustomerID:    r.CustomerID,
		StartTime:     r.StartTime,
		Status:        next,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return domain.Reservation{}, err
	}

	if err := s.repo.UpdateStatusWithOutbox(ctx, id, next, domain.EventReservationStatusChanged, payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Reservation{}, fmt.Errorf("update reservation status: %w", err)
	}
	r.Status = next
	s.log.Info("reservation status updated", "reservation_id", r.ID, "status", next)

	for _, h := range s.handlers {
		h.HandleStatusChanged(ctx, ev)
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status *domain.Status) ([]domain.Reservation, error) {
	return s.repo.List(ctx, status)
}

func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.users.Get(ctx, id)
}
