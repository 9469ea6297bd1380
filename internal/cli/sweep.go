package cli

import (
	"context"
	"fmt"

	"github.com/example/reservation-backend/internal/config"
	"github.com/example/reservation-backend/internal/reservation/application"
	respg "github.com/example/reservation-backend/internal/reservation/infrastructure/postgres"
	"github.com/example/reservation-backend/pkg/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one reconciliation sweep over overdue confirmed reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel)

			ctx := context.Background()
			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("pg connect: %w", err)
			}
			defer pool.Close()

			repo := respg.NewRepository(log, pool)
			sweeper := application.NewSweeper(log, repo, nil, cfg.SweepInterval, cfg.CompletionDelay)
			count, err := sweeper.Sweep(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Processed %d overdue reservations\n", count)
			return nil
		},
	}
}
