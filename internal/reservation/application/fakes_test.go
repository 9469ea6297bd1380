package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/google/uuid"
)

// fakeRepo is an in-memory ReservationRepository.
type fakeRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]domain.Reservation
	outboxTypes  []string
	completeErr  map[uuid.UUID]error
	lastCutoff   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reservations: make(map[uuid.UUID]domain.Reservation),
		completeErr:  make(map[uuid.UUID]error),
	}
}

func (f *fakeRepo) CreateWithOutbox(ctx context.Context, r domain.Reservation, eventType string, payload []byte, traceparent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[r.ID] = r
	f.outboxTypes = append(f.outboxTypes, eventType)
	return nil
}

func (f *fakeRepo) UpdateStatusWithOutbox(ctx context.Context, id uuid.UUID, status domain.Status, eventType string, payload []byte, traceparent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	f.reservations[id] = r
	f.outboxTypes = append(f.outboxTypes, eventType)
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) List(ctx context.Context, status *domain.Status) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for _, r := range f.reservations {
		if status == nil || r.Status == *status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindOverdueConfirmed(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCutoff = cutoff
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.Status == domain.StatusConfirmed && !r.StartTime.After(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) CompleteIfConfirmed(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.completeErr[id]; err != nil {
		return false, err
	}
	r, ok := f.reservations[id]
	if !ok || r.Status != domain.StatusConfirmed {
		return false, nil
	}
	r.Status = domain.StatusCompleted
	f.reservations[id] = r
	return true, nil
}

func (f *fakeRepo) put(r domain.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[r.ID] = r
}

func (f *fakeRepo) status(id uuid.UUID) domain.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reservations[id].Status
}

// fakeUsers serves one fixed user per id.
type fakeUsers struct {
	users map[uuid.UUID]domain.User
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	m := make(map[uuid.UUID]domain.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUsers{users: m}
}

func (f *fakeUsers) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) Create(ctx context.Context, u domain.User) error {
	f.users[u.ID] = u
	return nil
}

// enqueued captures one Enqueue call.
type enqueued struct {
	kind    string
	runAt   time.Time
	payload any
}

type fakeScheduler struct {
	mu       sync.Mutex
	calls    []enqueued
	failWith error
}

func (f *fakeScheduler) Enqueue(ctx context.Context, kind string, runAt time.Time, payload any) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return uuid.Nil, f.failWith
	}
	f.calls = append(f.calls, enqueued{kind: kind, runAt: runAt, payload: payload})
	return uuid.New(), nil
}

func (f *fakeScheduler) byKind(kind string) []enqueued {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []enqueued
	for _, c := range f.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// sent captures one Notifier.Send call.
type sent struct {
	template  string
	recipient string
	data      map[string]string
}

type fakeNotifier struct {
	mu       sync.Mutex
	sends    []sent
	failWith error
}

func (f *fakeNotifier) Send(ctx context.Context, template, recipient string, data map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.sends = append(f.sends, sent{template: template, recipient: recipient, data: data})
	return nil
}

var errBoom = errors.New("boom")
