package application

import (
	"context"
	"testing"
	"time"

	"github.com/example/reservation-backend/internal/reservation/domain"
)

func newTestSweeper(repo *fakeRepo, now time.Time) *Sweeper {
	s := NewSweeper(testLogger(), repo, nil, 5*time.Minute, 35*time.Minute)
	s.now = func() time.Time { return now }
	return s
}

func TestSweepCompletesOverdueConfirmed(t *testing.T) {
	now := time.Date(2026, time.March, 7, 14, 0, 0, 0, time.UTC)
	repo := newFakeRepo()

	overdue := confirmedReservation()
	overdue.StartTime = now.Add(-60 * time.Minute) // started 13:00
	repo.put(overdue)

	recent := confirmedReservation()
	recent.StartTime = now.Add(-20 * time.Minute) // started 13:40, under 35 min
	repo.put(recent)

	count, err := newTestSweeper(repo, now).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if got := repo.status(overdue.ID); got != domain.StatusCompleted {
		t.Errorf("overdue status = %s, want completed", got)
	}
	if got := repo.status(recent.ID); got != domain.StatusConfirmed {
		t.Errorf("recent status = %s, want confirmed", got)
	}

	wantCutoff := now.Add(-35 * time.Minute)
	if !repo.lastCutoff.Equal(wantCutoff) {
		t.Errorf("cutoff = %v, want %v", repo.lastCutoff, wantCutoff)
	}
}

func TestSweepIgnoresNonConfirmed(t *testing.T) {
	now := time.Now().UTC()
	repo := newFakeRepo()

	for _, status := range []domain.Status{domain.StatusPending, domain.StatusCanceled, domain.StatusCompleted} {
		r := confirmedReservation()
		r.Status = status
		r.StartTime = now.Add(-2 * time.Hour)
		repo.put(r)
	}

	count, err := newTestSweeper(repo, now).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestSweepSkipsFailedRecordAndContinues(t *testing.T) {
	now := time.Now().UTC()
	repo := newFakeRepo()

	bad := confirmedReservation()
	bad.StartTime = now.Add(-2 * time.Hour)
	repo.put(bad)
	repo.completeErr[bad.ID] = errBoom

	good := confirmedReservation()
	good.StartTime = now.Add(-2 * time.Hour)
	repo.put(good)

	count, err := newTestSweeper(repo, now).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error: %v, want per-record failures swallowed", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if got := repo.status(good.ID); got != domain.StatusCompleted {
		t.Errorf("good status = %s, want completed", got)
	}
	if got := repo.status(bad.ID); got != domain.StatusConfirmed {
		t.Errorf("bad status = %s, want confirmed (left for next sweep)", got)
	}
}

func TestSweepAfterDeadlineThenExcluded(t *testing.T) {
	// A reservation confirmed at T shows up once the sweep runs past
	// T+35m and disappears after it got completed.
	start := time.Date(2026, time.March, 7, 13, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	r := confirmedReservation()
	r.StartTime = start
	repo.put(r)

	early := newTestSweeper(repo, start.Add(30*time.Minute))
	count, err := early.Sweep(context.Background())
	if err != nil {
		t.Fatalf("early Sweep() error: %v", err)
	}
	if count != 0 {
		t.Errorf("early count = %d, want 0", count)
	}

	late := newTestSweeper(repo, start.Add(36*time.Minute))
	if count, _ = late.Sweep(context.Background()); count != 1 {
		t.Errorf("late count = %d, want 1", count)
	}
	if count, _ = late.Sweep(context.Background()); count != 0 {
		t.Errorf("repeat count = %d, want 0 after completion", count)
	}

	if got := repo.status(r.ID); got != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", got)
	}
}
