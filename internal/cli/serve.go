package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/reservation-backend/internal/config"
	"github.com/example/reservation-backend/internal/reservation/application"
	reshttp "github.com/example/reservation-backend/internal/reservation/infrastructure/http"
	reskafka "github.com/example/reservation-backend/internal/reservation/infrastructure/kafka"
	respg "github.com/example/reservation-backend/internal/reservation/infrastructure/postgres"
	"github.com/example/reservation-backend/pkg/leader"
	"github.com/example/reservation-backend/pkg/logging"
	"github.com/example/reservation-backend/pkg/notify"
	"github.com/example/reservation-backend/pkg/outbox"
	"github.com/example/reservation-backend/pkg/shutdown"
	"github.com/example/reservation-backend/pkg/taskqueue"
	"github.com/example/reservation-backend/pkg/tracing"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API, outbox relay, task worker and reconciliation sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel)

			ctx, cancel := shutdown.WithSignals(context.Background())
			defer cancel()

			tp, err := tracing.Init(ctx, "reservationd", cfg.OTELEndpoint, log)
			if err != nil {
				return fmt.Errorf("tracing init: %w", err)
			}
			defer func() { _ = tp.Shutdown(context.Background()) }()

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("pg connect: %w", err)
			}
			defer pool.Close()

			if migrateUp {
				if err := respg.Migrate(ctx, pool); err != nil {
					return err
				}
			}

			// Storage
			repo := respg.NewRepository(log, pool)
			users := respg.NewUserRepository(pool)
			taskStore := respg.NewTaskStore(pool)
			outboxStore := respg.NewOutboxStore(log, pool)

			// Delayed task queue + handlers
			mux := taskqueue.NewMux()
			queue := taskqueue.NewQueue(taskStore, mux)
			completer := application.NewCompleter(log, repo)
			mailer := notify.NewMailer(notify.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUser,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFrom,
			})
			application.RegisterHandlers(mux, mailer, completer, cfg.AdminEmail)
			worker := taskqueue.NewWorker(log, taskStore, mux, cfg.WorkerPollInterval, cfg.WorkerCount)

			// Service + dispatcher
			svc := application.NewService(log, repo, users)
			svc.Subscribe(application.NewDispatcher(log, users, queue, cfg.AdminEmail, cfg.CompletionDelay))

			// Outbox relay onto the event stream
			writer := reskafka.NewWriter(cfg.KafkaAddrs)
			defer writer.Close()
			relay := outbox.NewRelay(log, outboxStore, outbox.NewDispatcher(log, writer, cfg.EventsTopic), "reservationd-relay")

			// Sweeper, leader-locked when redis is configured
			var lock *leader.Lock
			if cfg.RedisAddr != "" {
				rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
				defer rdb.Close()
				lock = leader.NewLock(rdb, "reservations:sweep-leader", cfg.SweepInterval)
			}
			sweeper := application.NewSweeper(log, repo, lock, cfg.SweepInterval, cfg.CompletionDelay)

			go func() {
				if err := relay.Run(ctx); err != nil {
					log.Error("relay stopped with error", "err", err)
				}
			}()
			go func() {
				if err := worker.Run(ctx); err != nil {
					log.Error("worker stopped with error", "err", err)
				}
			}()
			go func() {
				if err := sweeper.Run(ctx); err != nil {
					log.Error("sweeper stopped with error", "err", err)
				}
			}()

			handler := reshttp.NewHandler(log, svc)
			srv := &http.Server{
				Addr:    cfg.HTTPAddr,
				Handler: handler.Routes(),
			}
			go func() {
				log.Info("http listening", "addr", cfg.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server error", "err", err)
					cancel()
				}
			}()

			<-ctx.Done()

			drainCtx, drainCancel := shutdown.Grace(10 * time.Second)
			defer drainCancel()
			_ = srv.Shutdown(drainCtx)
			log.Info("reservationd shutdown complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	return cmd
}
