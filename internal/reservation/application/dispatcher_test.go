package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() domain.User {
	return domain.User{
		ID:        uuid.New(),
		Username:  "tester",
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
	}
}

func TestDispatcherCreatedQueuesAdminNotification(t *testing.T) {
	user := testUser()
	sched := &fakeScheduler{}
	d := NewDispatcher(testLogger(), newFakeUsers(user), sched, "admin@example.com", 35*time.Minute)

	start := time.Date(2026, time.March, 7, 14, 20, 0, 0, time.UTC)
	rid := uuid.New()
	d.HandleCreated(context.Background(), domain.ReservationCreated{
		ReservationID: rid,
		CustomerID:    user.ID,
		StartTime:     start,
	})

	calls := sched.byKind(KindNotifyAdmin)
	if len(calls) != 1 {
		t.Fatalf("admin notifications queued = %d, want 1", len(calls))
	}
	p, ok := calls[0].payload.(AdminNotification)
	if !ok {
		t.Fatalf("payload type = %T, want AdminNotification", calls[0].payload)
	}
	if p.ReservationID != rid {
		t.Errorf("ReservationID = %v, want %v", p.ReservationID, rid)
	}
	if p.CustomerName != "Test User" {
		t.Errorf("CustomerName = %q, want %q", p.CustomerName, "Test User")
	}
	if p.Date != "March 07, 2026" {
		t.Errorf("Date = %q, want %q", p.Date, "March 07, 2026")
	}
	if p.Time != "02:20 PM" {
		t.Errorf("Time = %q, want %q", p.Time, "02:20 PM")
	}
	if got := len(sched.byKind(KindCompleteReservation)); got != 0 {
		t.Errorf("completion tasks queued on create = %d, want 0", got)
	}
}

func TestDispatcherConfirmedQueuesNotificationAndCompletion(t *testing.T) {
	user := testUser()
	sched := &fakeScheduler{}
	d := NewDispatcher(testLogger(), newFakeUsers(user), sched, "admin@example.com", 35*time.Minute)

	start := time.Date(2026, time.March, 7, 14, 20, 0, 0, time.UTC)
	rid := uuid.New()
	d.HandleStatusChanged(context.Background(), domain.ReservationStatusChanged{
		ReservationID: rid,
		CustomerID:    user.ID,
		StartTime:     start,
		Status:        domain.StatusConfirmed,
	})

	notifies := sched.byKind(KindNotifyCustomer)
	if len(notifies) != 1 {
		t.Fatalf("customer notifications queued = %d, want 1", len(notifies))
	}
	np := notifies[0].payload.(CustomerNotification)
	if np.Status != domain.StatusConfirmed {
		t.Errorf("notification status = %s, want confirmed", np.Status)
	}
	if np.UserEmail != user.Email {
		t.Errorf("notification recipient = %q, want %q", np.UserEmail, user.Email)
	}

	completions := sched.byKind(KindCompleteReservation)
	if len(completions) != 1 {
		t.Fatalf("completion tasks queued = %d, want 1", len(completions))
	}
	wantRunAt := time.Date(2026, time.March, 7, 14, 55, 0, 0, time.UTC)
	if !completions[0].runAt.Equal(wantRunAt) {
		t.Errorf("completion runAt = %v, want %v", completions[0].runAt, wantRunAt)
	}
	cp := completions[0].payload.(CompletionRequest)
	if cp.ReservationID != rid {
		t.Errorf("completion payload id = %v, want %v", cp.ReservationID, rid)
	}
}

func TestDispatcherCanceledQueuesNotificationOnly(t *testing.T) {
	user := testUser()
	sched := &fakeScheduler{}
	d := NewDispatcher(testLogger(), newFakeUsers(user), sched, "admin@example.com", 35*time.Minute)

	d.HandleStatusChanged(context.Background(), domain.ReservationStatusChanged{
		ReservationID: uuid.New(),
		CustomerID:    user.ID,
		StartTime:     time.Now().Add(time.Hour),
		Status:        domain.StatusCanceled,
	})

	if got := len(sched.byKind(KindNotifyCustomer)); got != 1 {
		t.Errorf("customer notifications queued = %d, want 1", got)
	}
	if got := len(sched.byKind(KindCompleteReservation)); got != 0 {
		t.Errorf("completion tasks queued = %d, want 0", got)
	}
}

func TestDispatcherIgnoresNonNotifiableStatus(t *testing.T) {
	user := testUser()
	sched := &fakeScheduler{}
	d := NewDispatcher(testLogger(), newFakeUsers(user), sched, "admin@example.com", 35*time.Minute)

	for _, status := range []domain.Status{domain.StatusPending, domain.StatusCompleted} {
		d.HandleStatusChanged(context.Background(), domain.ReservationStatusChanged{
			ReservationID: uuid.New(),
			CustomerID:    user.ID,
			StartTime:     time.Now(),
			Status:        status,
		})
	}
	if got := len(sched.calls); got != 0 {
		t.Errorf("tasks queued for non-notifiable statuses = %d, want 0", got)
	}
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	user := testUser()
	sched := &fakeScheduler{failWith: errBoom}
	d := NewDispatcher(testLogger(), newFakeUsers(user), sched, "admin@example.com", 35*time.Minute)

	// Neither a failing scheduler nor an unknown customer may panic or
	// propagate; the triggering write has already committed.
	d.HandleCreated(context.Background(), domain.ReservationCreated{
		ReservationID: uuid.New(),
		CustomerID:    user.ID,
		StartTime:     time.Now(),
	})
	d.HandleStatusChanged(context.Background(), domain.ReservationStatusChanged{
		ReservationID: uuid.New(),
		CustomerID:    uuid.New(), // unknown
		StartTime:     time.Now(),
		Status:        domain.StatusConfirmed,
	})
}
