// Package notify renders and delivers reservation emails. Delivery is
// best-effort: callers enqueue sends as tasks and a failed send marks the
// task failed without touching the reservation itself.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Template identifiers, one per email kind.
const (
	TemplateNewReservationAdmin  = "new_reservation_admin"
	TemplateReservationConfirmed = "reservation_confirmed"
	TemplateReservationCancelled = "reservation_cancelled"
)

var subjects = map[string]string{
	TemplateNewReservationAdmin:  "New Reservation #%s - Action Required",
	TemplateReservationConfirmed: "Your Reservation is Confirmed!",
	TemplateReservationCancelled: "Your Reservation has been Cancelled",
}

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Render produces the subject and HTML body for a template id.
func Render(tmpl string, data map[string]string) (subject, body string, err error) {
	subj, ok := subjects[tmpl]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", tmpl)
	}
	if tmpl == TemplateNewReservationAdmin {
		subj = fmt.Sprintf(subj, data["reservation_id"])
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", tmpl, err)
	}
	return subj, buf.String(), nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers rendered notifications over SMTP.
type Mailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *Mailer) Send(ctx context.Context, tmpl, recipient string, data map[string]string) error {
	subject, body, err := Render(tmpl, data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %s to %s: %w", tmpl, recipient, err)
	}
	return nil
}
