package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores reservations and writes their domain events to the
// outbox table in the same transaction.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) CreateWithOutbox(ctx context.Context, res domain.Reservation, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO reservations (id, customer_id, start_time, end_time, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		res.ID, res.CustomerID, res.StartTime, res.EndTime, res.Status, res.CreatedAt)
	if err != nil {
		return err
	}

	if err := insertOutbox(ctx, tx, res.ID, eventType, payload, traceparent); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) UpdateStatusWithOutbox(ctx context.Context, id uuid.UUID, status domain.Status, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE reservations SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := insertOutbox(ctx, tx, id, eventType, payload, traceparent); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	var res domain.Reservation
	err := r.pool.QueryRow(ctx, `SELECT id, customer_id, start_time, end_time, status, created_at
		FROM reservations WHERE id=$1`, id).
		Scan(&res.ID, &res.CustomerID, &res.StartTime, &res.EndTime, &res.Status, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Reservation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}

func (r *Repository) List(ctx context.Context, status *domain.Status) ([]domain.Reservation, error) {
	q := `SELECT id, customer_id, start_time, end_time, status, created_at
		FROM reservations ORDER BY start_time DESC`
	args := []any{}
	if status != nil {
		q = `SELECT id, customer_id, start_time, end_time, status, created_at
			FROM reservations WHERE status=$1 ORDER BY start_time DESC`
		args = append(args, *status)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *Repository) FindOverdueConfirmed(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, customer_id, start_time, end_time, status, created_at
		FROM reservations
		WHERE status=$1 AND start_time <= $2
		ORDER BY start_time ASC`, domain.StatusConfirmed, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

// CompleteIfConfirmed flips a still-confirmed reservation to completed
// and records the status-change event. Zero rows means someone else got
// there first (or the status moved), which callers treat as a no-op.
func (r *Repository) CompleteIfConfirmed(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var customerID uuid.UUID
	var startTime time.Time
	err = tx.QueryRow(ctx, `UPDATE reservations SET status=$2 WHERE id=$1 AND status=$3
		RETURNING customer_id, start_time`,
		id, domain.StatusCompleted, domain.StatusConfirmed).
		Scan(&customerID, &startTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	payload, err := json.Marshal(domain.ReservationStatusChanged{
		ReservationID: id,
		CustomerID:    customerID,
		StartTime:     startTime,
		Status:        domain.StatusCompleted,
	})
	if err != nil {
		return false, err
	}
	if err := insertOutbox(ctx, tx, id, domain.EventReservationStatusChanged, payload, ""); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateID uuid.UUID, eventType string, payload []byte, traceparent string) error {
	_, err := tx.Exec(ctx, `INSERT INTO outbox (aggregate_id, type, payload, traceparent, status)
		VALUES ($1,$2,$3,$4,'pending')`,
		aggregateID.String(), eventType, payload, traceparent)
	return err
}

func scanReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.CustomerID, &res.StartTime, &res.EndTime, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
