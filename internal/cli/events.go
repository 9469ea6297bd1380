package cli

import (
	"context"
	"fmt"

	"github.com/example/reservation-backend/internal/config"
	"github.com/example/reservation-backend/pkg/logging"
	"github.com/example/reservation-backend/pkg/shutdown"
	"github.com/example/reservation-backend/pkg/tracing"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

// events tails the reservation event stream, mostly for debugging what
// the outbox relay is publishing.
func newEventsCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail the reservation event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := shutdown.WithSignals(context.Background())
			defer cancel()

			// Propagator only; lets us read traceparents off the stream.
			if _, err := tracing.Init(ctx, "reservationd-events", "", logging.New(cfg.LogLevel)); err != nil {
				return err
			}

			reader := kafka.NewReader(kafka.ReaderConfig{
				Brokers: cfg.KafkaAddrs,
				Topic:   cfg.EventsTopic,
				GroupID: group,
			})
			defer reader.Close()

			for {
				msg, err := reader.FetchMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
				msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
				line := fmt.Sprintf("%s %s %s", msg.Time.Format("15:04:05"), headerValue(msg.Headers, "event_type"), msg.Value)
				if sc := trace.SpanContextFromContext(msgCtx); sc.HasTraceID() {
					line += " trace=" + sc.TraceID().String()
				}
				fmt.Println(line)
				_ = reader.CommitMessages(ctx, msg)
			}
		},
	}

	cmd.Flags().StringVar(&group, "group", "reservationd-events-cli", "consumer group id")
	return cmd
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}
