package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"
	"github.com/skyaid/airambulance/config"
	"github.com/skyaid/airambulance/internal/kafka"
)

// Sender delivers notification events to their recipients over SMTP. When no
// SMTP host is configured it logs the delivery instead, which keeps local
// development working without a mail relay.
type Sender struct {
	host string
	port int
	from string
}

func NewSender(cfg config.WorkerConfig) *Sender {
	return &Sender{host: cfg.SMTPHost, port: cfg.SMTPPort, from: cfg.From}
}

func (s *Sender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	for _, recipient := range event.Recipients {
		if recipient.Email == "" {
			continue
		}
		if err := s.deliver(recipient.Email, event); err != nil {
			// Best-effort per recipient; one bounce must not stop the rest.
			log.Warn().Err(err).Str("recipient", recipient.Email).Str("kind", event.Kind).
				Msg("email delivery failed")
		}
	}
	return nil
}

func (s *Sender) deliver(to string, event kafka.NotificationEvent) error {
	if s.host == "" {
		log.Info().Str("to", to).Str("kind", event.Kind).Str("booking_id", event.BookingID).
			Msg("smtp not configured, logging notification instead")
		return nil
	}

	subject := fmt.Sprintf("Air Ambulance: %s notification", event.Kind)
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, event.Message)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(body))
}
