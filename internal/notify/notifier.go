// Package notify implements the post-commit notification fan-out. Delivery
// failures are logged and swallowed at this boundary: a booking operation
// must never fail because a notification could not be dispatched.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skyaid/airambulance/internal/domain"
	"github.com/skyaid/airambulance/internal/kafka"
	"github.com/skyaid/airambulance/internal/repository"
)

type EventKind string

const (
	KindCreated      EventKind = "created"
	KindStatusChange EventKind = "status_change"
	KindCompletion   EventKind = "completion"
	KindDeleted      EventKind = "deleted"
	KindEmergency    EventKind = "emergency"
)

// dispatchGroupKinds lists the event kinds whose recipients include all
// active dispatchers, superadmins, and airline coordinators. Status-change
// and deletion events deliberately reach only the actor (plus medical staff
// for critical bookings).
var dispatchGroupKinds = map[EventKind]struct{}{
	KindCreated:   {},
	KindEmergency: {},
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Notifier struct {
	users    repository.UserRepository
	producer Producer
	topic    string
}

func NewNotifier(users repository.UserRepository, producer Producer, topic string) *Notifier {
	return &Notifier{users: users, producer: producer, topic: topic}
}

// Send resolves the recipient set for the event kind and publishes one
// notification event to the delivery topic. Best-effort, at-most-once: any
// failure is logged, never returned.
func (n *Notifier) Send(ctx context.Context, kind EventKind, booking *domain.Booking, patientName, message, severity string, actor domain.Actor) {
	if n.producer == nil || n.topic == "" {
		return
	}

	recipients := n.resolveRecipients(ctx, kind, booking, actor)

	event := kafka.NotificationEvent{
		Kind:        string(kind),
		BookingID:   booking.ID.String(),
		PatientName: patientName,
		Urgency:     string(booking.Urgency),
		Message:     message,
		Severity:    severity,
		Recipients:  recipients,
		CreatedAt:   time.Now().UTC(),
	}

	if err := n.producer.Publish(ctx, n.topic, booking.ID.String(), event); err != nil {
		log.Warn().Err(err).
			Str("kind", string(kind)).
			Str("booking_id", booking.ID.String()).
			Msg("failed to publish notification event")
	}
}

func (n *Notifier) resolveRecipients(ctx context.Context, kind EventKind, booking *domain.Booking, actor domain.Actor) []kafka.Recipient {
	actors := []domain.Actor{actor}

	if _, ok := dispatchGroupKinds[kind]; ok {
		dispatchers, err := n.users.ActiveByRoles(ctx, []domain.Role{
			domain.RoleDispatcher, domain.RoleSuperadmin, domain.RoleAirlineCoordinator,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve dispatch recipients, notifying actor only")
			return toRecipients([]domain.Actor{actor})
		}
		actors = append(actors, dispatchers...)
	}

	if kind == KindEmergency || booking.Urgency == domain.UrgencyCritical {
		medical, err := n.users.ActiveByRoles(ctx, []domain.Role{domain.RoleDoctor, domain.RoleParamedic})
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve medical recipients, notifying actor only")
			return toRecipients([]domain.Actor{actor})
		}
		actors = append(actors, medical...)
	}

	return toRecipients(dedupe(actors))
}

func dedupe(actors []domain.Actor) []domain.Actor {
	seen := make(map[string]struct{}, len(actors))
	unique := make([]domain.Actor, 0, len(actors))
	for _, a := range actors {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}

func toRecipients(actors []domain.Actor) []kafka.Recipient {
	recipients := make([]kafka.Recipient, 0, len(actors))
	for _, a := range actors {
		recipients = append(recipients, kafka.Recipient{
			ID:       a.ID,
			Email:    a.Email,
			FullName: a.FullName,
			Phone:    a.Phone,
			Role:     string(a.Role),
		})
	}
	return recipients
}
