package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Task is a unit of work that executes no earlier than RunAt. Delivery is
// at-least-once; handlers must be idempotent. Failed tasks are not retried
// here, that belongs to whatever supervises the queue.
type Task struct {
	ID        uuid.UUID
	Kind      string
	RunAt     time.Time
	Payload   []byte
	Status    Status
	Result    *string
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store interface {
	Insert(ctx context.Context, t Task) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]Task, error)
	MarkSucceeded(ctx context.Context, id uuid.UUID, result string) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

var ErrUnknownKind = errors.New("unknown task kind")

// Mux maps task kinds to handlers. It doubles as the validation boundary:
// enqueueing a kind nobody registered is rejected up front.
type Mux struct {
	handlers map[string]Handler
}

// Handler executes one task. The returned string is a human-readable
// outcome recorded on the task row.
type Handler func(ctx context.Context, payload []byte) (string, error)

func NewMux() *Mux {
	return &Mux{handlers: make(map[string]Handler)}
}

func (m *Mux) Register(kind string, h Handler) {
	m.handlers[kind] = h
}

func (m *Mux) handler(kind string) (Handler, bool) {
	h, ok := m.handlers[kind]
	return h, ok
}

// Queue enqueues tasks onto a durable store.
type Queue struct {
	store Store
	mux   *Mux
}

func NewQueue(store Store, mux *Mux) *Queue {
	return &Queue{store: store, mux: mux}
}

// Enqueue schedules payload to run as kind no earlier than runAt and
// returns the task id without waiting for execution.
func (q *Queue) Enqueue(ctx context.Context, kind string, runAt time.Time, payload any) (uuid.UUID, error) {
	if _, ok := q.mux.handler(kind); !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	t := Task{
		ID:        uuid.New(),
		Kind:      kind,
		RunAt:     runAt.UTC(),
		Payload:   body,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := q.store.Insert(ctx, t); err != nil {
		return uuid.Nil, fmt.Errorf("insert task %s: %w", kind, err)
	}
	return t.ID, nil
}
