package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/reservation-backend/internal/reservation/domain"
)

// Dispatcher turns reservation events into queued work: admin mail on
// creation, customer mail on confirm/cancel, and the delayed completion
// task on confirm. Every failure here is logged and swallowed; the write
// that triggered us has already committed and must stay committed.
type Dispatcher struct {
	log             *slog.Logger
	users           UserRepository
	tasks           TaskScheduler
	adminEmail      string
	completionDelay time.Duration

	now func() time.Time
}

func NewDispatcher(log *slog.Logger, users UserRepository, tasks TaskScheduler, adminEmail string, completionDelay time.Duration) *Dispatcher {
	return &Dispatcher{
		log:             log,
		users:           users,
		tasks:           tasks,
		adminEmail:      adminEmail,
		completionDelay: completionDelay,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (d *Dispatcher) HandleCreated(ctx context.Context, ev domain.ReservationCreated) {
	user, err := d.users.Get(ctx, ev.CustomerID)
	if err != nil {
		d.log.Error("dispatch: load customer failed", "reservation_id", ev.ReservationID, "customer_id", ev.CustomerID, "err", err)
		return
	}

	payload := AdminNotification{
		ReservationID: ev.ReservationID,
		CustomerName:  user.DisplayName(),
		CustomerEmail: user.Email,
		Date:          ev.StartTime.Format(domain.DateFormat),
		Time:          ev.StartTime.Format(domain.TimeFormat),
	}
	if _, err := d.tasks.Enqueue(ctx, KindNotifyAdmin, d.now(), payload); err != nil {
		d.log.Error("dispatch: enqueue admin notification failed", "reservation_id", ev.ReservationID, "err", err)
		return
	}
	d.log.Info("admin notification queued", "reservation_id", ev.ReservationID)
}

func (d *Dispatcher) HandleStatusChanged(ctx context.Context, ev domain.ReservationStatusChanged) {
	if !domain.Notifiable(ev.Status) {
		return
	}

	user, err := d.users.Get(ctx, ev.CustomerID)
	if err != nil {
		d.log.Error("dispatch: load customer failed", "reservation_id", ev.ReservationID, "customer_id", ev.CustomerID, "err", err)
		return
	}

	payload := CustomerNotification{
		ReservationID: ev.ReservationID,
		UserEmail:     user.Email,
		UserName:      user.DisplayName(),
		Status:        ev.Status,
		Date:          ev.StartTime.Format(domain.DateFormat),
		Time:          ev.StartTime.Format(domain.TimeFormat),
	}
	if _, err := d.tasks.Enqueue(ctx, KindNotifyCustomer, d.now(), payload); err != nil {
		d.log.Error("dispatch: enqueue customer notification failed", "reservation_id", ev.ReservationID, "err", err)
	} else {
		d.log.Info("customer notification queued", "reservation_id", ev.ReservationID, "status", ev.Status)
	}

	if ev.Status != domain.StatusConfirmed {
		return
	}
	runAt := ev.StartTime.Add(d.completionDelay)
	if _, err := d.tasks.Enqueue(ctx, KindCompleteReservation, runAt, CompletionRequest{ReservationID: ev.ReservationID}); err != nil {
		d.log.Error("dispatch: schedule auto-completion failed", "reservation_id", ev.ReservationID, "err", err)
		return
	}
	d.log.Info("scheduled auto-completion", "reservation_id", ev.ReservationID, "run_at", runAt)
}
