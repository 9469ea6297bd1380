package postgres

import (
	"context"
	"time"

	"github.com/example/reservation-backend/pkg/taskqueue"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskStore is the durable queue behind the delayed task worker.
type TaskStore struct {
	pool *pgxpool.Pool
}

func NewTaskStore(pool *pgxpool.Pool) *TaskStore {
	return &TaskStore{pool: pool}
}

func (s *TaskStore) Insert(ctx context.Context, t taskqueue.Task) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO tasks (id, kind, run_at, payload, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6)`,
		t.ID, t.Kind, t.RunAt, t.Payload, t.Status, t.CreatedAt)
	return err
}

// ClaimDue marks due queued tasks as running and returns them. SKIP
// LOCKED keeps concurrent workers from claiming the same rows.
func (s *TaskStore) ClaimDue(ctx context.Context, now time.Time, limit int) ([]taskqueue.Task, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, kind, run_at, payload, created_at
		FROM tasks
		WHERE status = 'queued' AND run_at <= $1
		ORDER BY run_at
		FOR UPDATE SKIP LOCKED
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}

	var tasks []taskqueue.Task
	for rows.Next() {
		var t taskqueue.Task
		if err := rows.Scan(&t.ID, &t.Kind, &t.RunAt, &t.Payload, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		t.Status = taskqueue.StatusRunning
		tasks = append(tasks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	_, err = tx.Exec(ctx, `UPDATE tasks SET status='running', updated_at=now() WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskStore) MarkSucceeded(ctx context.Context, id uuid.UUID, result string) error {
	_, err := s.pool.Exec(ctx, `UPDATE tasks SET status='succeeded', result=$2, updated_at=now() WHERE id=$1`, id, result)
	return err
}

func (s *TaskStore) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := s.pool.Exec(ctx, `UPDATE tasks SET status='failed', last_error=$2, updated_at=now() WHERE id=$1`, id, errMsg)
	return err
}
