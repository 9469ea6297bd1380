package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/google/uuid"
)

// Completer applies the auto-completion transition. It is the single
// handler behind both the scheduled task and the sweep, and it is
// idempotent: anything but a confirmed reservation is a no-op.
type Completer struct {
	log  *slog.Logger
	repo ReservationRepository
}

func NewCompleter(log *slog.Logger, repo ReservationRepository) *Completer {
	return &Completer{log: log, repo: repo}
}

func (c *Completer) CompleteReservation(ctx context.Context, id uuid.UUID) (string, error) {
	r, err := c.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		// The reservation can be gone by the time a deferred task runs.
		c.log.Error("reservation not found for completion", "reservation_id", id)
		return fmt.Sprintf("reservation %s not found", id), nil
	}
	if err != nil {
		return "", fmt.Errorf("load reservation %s: %w", id, err)
	}

	if !domain.CompletionEligible(r.Status) {
		c.log.Info("reservation not completed", "reservation_id", id, "status", r.Status)
		return fmt.Sprintf("reservation %s not completed - status is %s", id, r.Status), nil
	}

	completed, err := c.repo.CompleteIfConfirmed(ctx, id)
	if err != nil {
		return "", fmt.Errorf("complete reservation %s: %w", id, err)
	}
	if !completed {
		// Lost the race with the sweep or another worker; same end state.
		return fmt.Sprintf("reservation %s already handled", id), nil
	}
	c.log.Info("auto-completed reservation", "reservation_id", id)
	return fmt.Sprintf("reservation %s auto-completed", id), nil
}
