package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/example/reservation-backend/internal/config"
	"github.com/example/reservation-backend/internal/reservation/domain"
	"github.com/example/reservation-backend/pkg/notify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// testmail sends one rendered notification straight through SMTP,
// bypassing the queue, to verify mail configuration.
func newTestmailCmd() *cobra.Command {
	var recipient string
	var template string

	cmd := &cobra.Command{
		Use:   "testmail",
		Short: "Send a test notification email",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			mailer := notify.NewMailer(notify.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUser,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFrom,
			})

			now := time.Now()
			data := map[string]string{
				"reservation_id":   uuid.New().String(),
				"user_name":        "Test User",
				"customer_name":    "Test User",
				"customer_email":   recipient,
				"reservation_date": now.Format(domain.DateFormat),
				"reservation_time": now.Format(domain.TimeFormat),
				"status":           string(domain.StatusConfirmed),
			}
			if err := mailer.Send(context.Background(), template, recipient, data); err != nil {
				return err
			}
			fmt.Printf("Sent %s to %s\n", template, recipient)
			return nil
		},
	}

	cmd.Flags().StringVar(&recipient, "to", "test@example.com", "recipient address")
	cmd.Flags().StringVar(&template, "template", notify.TemplateReservationConfirmed, "template id to send")
	return cmd
}
