package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/reservation-backend/pkg/leader"
)

// Sweeper is the safety net behind the one-shot completion tasks. On a
// fixed cadence it completes every confirmed reservation whose start time
// is at least the completion delay in the past, whether or not the
// scheduled task for it ever fired.
type Sweeper struct {
	log             *slog.Logger
	repo            ReservationRepository
	lock            *leader.Lock
	interval        time.Duration
	completionDelay time.Duration

	now func() time.Time
}

// NewSweeper builds a sweeper. lock may be nil, in which case every
// instance sweeps; overlapping sweeps are safe because the completion
// transition is idempotent.
func NewSweeper(log *slog.Logger, repo ReservationRepository, lock *leader.Lock, interval, completionDelay time.Duration) *Sweeper {
	return &Sweeper{
		log:             log,
		repo:            repo,
		lock:            lock,
		interval:        interval,
		completionDelay: completionDelay,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *Sweeper) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return nil
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if s.lock != nil {
		held, err := s.lock.TryAcquire(ctx)
		if err != nil {
			// Redis being down must not stop reconciliation; sweep anyway.
			s.log.Error("sweep leader lock error, sweeping without it", "err", err)
		} else if !held {
			s.log.Debug("sweep skipped, another instance holds the lock")
			return
		}
	}
	if _, err := s.Sweep(ctx); err != nil {
		s.log.Error("sweep failed", "err", err)
	}
}

// Sweep completes all overdue confirmed reservations and returns how many
// it processed. A failure on one record is logged and skipped; the sweep
// keeps going.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.completionDelay)

	overdue, err := s.repo.FindOverdueConfirmed(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, r := range overdue {
		completed, err := s.repo.CompleteIfConfirmed(ctx, r.ID)
		if err != nil {
			s.log.Error("sweep: complete failed, skipping", "reservation_id", r.ID, "status", r.Status, "err", err)
			continue
		}
		if !completed {
			// Completed concurrently between query and update.
			continue
		}
		count++
		s.log.Info("auto-completed overdue reservation", "reservation_id", r.ID)
	}

	if count > 0 {
		s.log.Info("processed overdue reservations", "count", count)
	}
	return count, nil
}
