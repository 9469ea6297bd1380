package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/reservation-backend/internal/config"
	"github.com/example/reservation-backend/internal/reservation/application"
	"github.com/example/reservation-backend/internal/reservation/domain"
	respg "github.com/example/reservation-backend/internal/reservation/infrastructure/postgres"
	"github.com/example/reservation-backend/pkg/logging"
	"github.com/example/reservation-backend/pkg/taskqueue"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// seed exercises the whole pipeline: it creates a test customer and a
// reservation at the given time today, then confirms it so the customer
// notification and the delayed completion task get queued.
func newSeedCmd() *cobra.Command {
	var email string
	var timeStr string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a test reservation and walk it to confirmed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel)

			hour, minute, err := parseClock(timeStr)
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("pg connect: %w", err)
			}
			defer pool.Close()

			if err := respg.Migrate(ctx, pool); err != nil {
				return err
			}

			repo := respg.NewRepository(log, pool)
			users := respg.NewUserRepository(pool)

			user, err := users.GetByEmail(ctx, email)
			if errors.Is(err, domain.ErrNotFound) {
				user = domain.User{
					ID:        uuid.New(),
					Username:  strings.Split(email, "@")[0],
					FirstName: "Test",
					LastName:  "User",
					Email:     email,
					CreatedAt: time.Now().UTC(),
				}
				if err := users.Create(ctx, user); err != nil {
					return fmt.Errorf("create test user: %w", err)
				}
				fmt.Printf("Created test user %s\n", user.Email)
			} else if err != nil {
				return err
			} else {
				fmt.Printf("Using existing user %s\n", user.Email)
			}

			mux := taskqueue.NewMux()
			registerKindsOnly(mux)
			queue := taskqueue.NewQueue(respg.NewTaskStore(pool), mux)

			svc := application.NewService(log, repo, users)
			svc.Subscribe(application.NewDispatcher(log, users, queue, cfg.AdminEmail, cfg.CompletionDelay))

			now := time.Now()
			start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

			res, err := svc.CreateReservation(ctx, user.ID, start, start.Add(time.Hour))
			if err != nil {
				return err
			}
			fmt.Printf("Created reservation %s (status %s) for %s\n", res.ID, res.Status, start.Format(time.Kitchen))

			res, err = svc.UpdateStatus(ctx, res.ID, domain.StatusConfirmed)
			if err != nil {
				return err
			}
			fmt.Printf("Confirmed reservation %s; auto-completion due at %s\n",
				res.ID, start.Add(cfg.CompletionDelay).Format(time.Kitchen))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "test@example.com", "email address for the test customer")
	cmd.Flags().StringVar(&timeStr, "time", "14:20", "reservation time today (HH:MM, 24-hour)")
	return cmd
}

// registerKindsOnly registers no-op handlers so enqueueing passes kind
// validation; the running serve process does the actual work.
func registerKindsOnly(mux *taskqueue.Mux) {
	noop := func(ctx context.Context, payload []byte) (string, error) { return "", nil }
	mux.Register(application.KindNotifyAdmin, noop)
	mux.Register(application.KindNotifyCustomer, noop)
	mux.Register(application.KindCompleteReservation, noop)
}

func parseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid --time %q, want HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid --time %q, want HH:MM", s)
	}
	return hour, minute, nil
}
