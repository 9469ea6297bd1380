package postgres

import (
	"context"
	"errors"

	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.scanOne(ctx, `SELECT id, username, first_name, last_name, email, created_at
		FROM users WHERE id=$1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanOne(ctx, `SELECT id, username, first_name, last_name, email, created_at
		FROM users WHERE email=$1`, email)
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, username, first_name, last_name, email, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.CreatedAt)
	return err
}

func (r *UserRepository) scanOne(ctx context.Context, q string, arg any) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
