package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/skyaid/airambulance/internal/cost"
	"github.com/skyaid/airambulance/internal/domain"
	"github.com/skyaid/airambulance/internal/notify"
	"github.com/skyaid/airambulance/internal/repository"
	"github.com/skyaid/airambulance/internal/ws"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput, actor domain.Actor) (*domain.Booking, error)
	List(ctx context.Context, filter ListFilter, actor domain.Actor) ([]domain.Booking, error)
	Get(ctx context.Context, id string, actor domain.Actor) (*domain.BookingWithDetails, error)
	Update(ctx context.Context, id string, input UpdateBookingInput, actor domain.Actor) (*domain.Booking, error)
	Delete(ctx context.Context, id string, actor domain.Actor) error
	Escalate(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error)
}

// Notifier is the post-commit notification fan-out. Implementations must
// swallow their own failures; the engine never checks them.
type Notifier interface {
	Send(ctx context.Context, kind notify.EventKind, booking *domain.Booking, patientName, message, severity string, actor domain.Actor)
}

// Broadcaster pushes lifecycle events to connected real-time observers.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// Cache fronts the hospital/aircraft registries for Get enrichment. May be
// nil, in which case lookups always hit the directory.
type Cache interface {
	GetHospital(ctx context.Context, id string) (*domain.HospitalSummary, error)
	SetHospital(ctx context.Context, h *domain.HospitalSummary) error
	GetAircraft(ctx context.Context, id string) (*domain.AircraftSummary, error)
	SetAircraft(ctx context.Context, a *domain.AircraftSummary) error
}

type BookingService struct {
	bookings    repository.BookingRepository
	directory   repository.DirectoryRepository
	cache       Cache
	notifier    Notifier
	broadcaster Broadcaster
}

type CreateBookingInput struct {
	PatientID             string   `json:"patient_id"`
	OriginHospitalID      string   `json:"origin_hospital_id"`
	DestinationHospitalID string   `json:"destination_hospital_id"`
	PickupLocation        string   `json:"pickup_location"`
	Destination           string   `json:"destination"`
	Urgency               string   `json:"urgency"`
	PreferredDate         string   `json:"preferred_date"`
	PreferredTime         string   `json:"preferred_time"`
	RequiredEquipment     []string `json:"required_equipment"`
	SpecialInstructions   string   `json:"special_instructions"`
}

type ListFilter struct {
	Status string
	Skip   int
	Limit  int
}

// UpdateBookingInput is a partial patch; nil fields are left as stored.
type UpdateBookingInput struct {
	Urgency             *string  `json:"urgency"`
	PickupLocation      *string  `json:"pickup_location"`
	Destination         *string  `json:"destination"`
	PreferredDate       *string  `json:"preferred_date"`
	PreferredTime       *string  `json:"preferred_time"`
	RequiredEquipment   []string `json:"required_equipment"`
	SpecialInstructions *string  `json:"special_instructions"`
	Status              *string  `json:"status"`
	AssignedAircraftID  *string  `json:"assigned_aircraft_id"`
	AssignedCrewIDs     []string `json:"assigned_crew_ids"`
	ActualCost          *float64 `json:"actual_cost"`
	FlightDuration      *int     `json:"flight_duration"`
}

func NewBookingService(
	bookings repository.BookingRepository,
	directory repository.DirectoryRepository,
	cache Cache,
	notifier Notifier,
	broadcaster Broadcaster,
) *BookingService {
	return &BookingService{
		bookings:    bookings,
		directory:   directory,
		cache:       cache,
		notifier:    notifier,
		broadcaster: broadcaster,
	}
}

func (s *BookingService) Create(ctx context.Context, input CreateBookingInput, actor domain.Actor) (*domain.Booking, error) {
	if !actor.HasRole(domain.RoleSuperadmin, domain.RoleDispatcher, domain.RoleHospitalStaff) {
		return nil, fmt.Errorf("create booking: %w", domain.ErrPermissionDenied)
	}

	if input.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required: %w", domain.ErrValidation)
	}
	urgency, err := parseUrgency(input.Urgency)
	if err != nil {
		return nil, err
	}
	preferredDate, preferredTime, err := parseSchedule(input.PreferredDate, input.PreferredTime)
	if err != nil {
		return nil, err
	}

	equipment := domain.NormalizeEquipment(input.RequiredEquipment)
	patientName := s.patientName(ctx, input.PatientID)

	booking := &domain.Booking{
		ID:                    uuid.New(),
		PatientID:             input.PatientID,
		OriginHospitalID:      defaultString(input.OriginHospitalID, "unknown"),
		DestinationHospitalID: defaultString(input.DestinationHospitalID, "unknown"),
		PickupLocation:        input.PickupLocation,
		Destination:           input.Destination,
		Urgency:               urgency,
		RequiredEquipment:     equipment,
		SpecialInstructions:   input.SpecialInstructions,
		PreferredDate:         preferredDate,
		PreferredTime:         preferredTime,
		Status:                domain.BookingStatusPending,
		AssignedCrewIDs:       []string{},
		EstimatedCost:         cost.Estimate(urgency, len(equipment)),
		CreatedBy:             actor.ID,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("New booking created for patient %s. Urgency: %s. Status: Pending", patientName, urgency)
	s.notifier.Send(ctx, notify.KindCreated, booking, patientName, message, "info", actor)

	if urgency == domain.UrgencyCritical {
		alert := fmt.Sprintf("CRITICAL PATIENT: %s requires immediate air ambulance transport from %s",
			patientName, defaultString(booking.PickupLocation, "Unknown"))
		s.notifier.Send(ctx, notify.KindEmergency, booking, patientName, alert, "emergency", actor)
	}

	s.broadcaster.Broadcast(ws.Event{
		Type:        "booking_created",
		BookingID:   booking.ID.String(),
		Message:     "New booking created",
		Urgency:     string(urgency),
		PatientName: patientName,
	})

	log.Info().Str("booking_id", booking.ID.String()).Str("created_by", actor.Email).Msg("booking created")
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, filter ListFilter, actor domain.Actor) ([]domain.Booking, error) {
	repoFilter := repository.BookingFilter{Skip: filter.Skip, Limit: filter.Limit}

	if filter.Status != "" {
		status, err := parseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		repoFilter.Status = &status
	}

	// Visibility is a query-time filter, not a stored property.
	switch actor.Role {
	case domain.RoleHospitalStaff:
		repoFilter.CreatedBy = actor.ID
	case domain.RoleDoctor, domain.RoleParamedic:
		repoFilter.UrgencyIn = []domain.Urgency{domain.UrgencyCritical, domain.UrgencyUrgent}
	}

	return s.bookings.List(ctx, repoFilter)
}

func (s *BookingService) Get(ctx context.Context, id string, actor domain.Actor) (*domain.BookingWithDetails, error) {
	bookingID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleHospitalStaff && booking.CreatedBy != actor.ID {
		return nil, fmt.Errorf("get booking: %w", domain.ErrPermissionDenied)
	}

	details := &domain.BookingWithDetails{Booking: *booking}

	if booking.PatientID != "" {
		if patient, err := s.directory.Patient(ctx, booking.PatientID); err == nil {
			details.Patient = patient
		} else {
			log.Warn().Err(err).Str("patient_id", booking.PatientID).Msg("patient lookup failed")
		}
	}
	details.OriginHospital = s.hospitalSummary(ctx, booking.OriginHospitalID)
	details.DestinationHospital = s.hospitalSummary(ctx, booking.DestinationHospitalID)
	if booking.AssignedAircraftID != nil {
		details.AssignedAircraft = s.aircraftSummary(ctx, *booking.AssignedAircraftID)
	}

	return details, nil
}

func (s *BookingService) Update(ctx context.Context, id string, input UpdateBookingInput, actor domain.Actor) (*domain.Booking, error) {
	if !actor.HasRole(domain.RoleSuperadmin, domain.RoleDispatcher) {
		return nil, fmt.Errorf("update booking: %w", domain.ErrPermissionDenied)
	}

	bookingID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	patientName := s.patientName(ctx, current.PatientID)

	patch, newStatus, err := buildPatch(input)
	if err != nil {
		return nil, err
	}

	statusChanged := newStatus != nil && *newStatus != current.Status

	// Completion backfills duration and cost when the caller omits them. The
	// actual cost always derives from the stored urgency/equipment, not the
	// patch. Caller-supplied values are accepted without range checks.
	if newStatus != nil && *newStatus == domain.BookingStatusCompleted {
		if patch.FlightDuration == nil {
			duration := cost.RandomFlightDuration()
			patch.FlightDuration = &duration
		}
		if patch.ActualCost == nil {
			actual := cost.Actualize(current.Urgency, len(current.RequiredEquipment), *patch.FlightDuration)
			patch.ActualCost = &actual
		}
	}

	updated, err := s.bookings.Update(ctx, bookingID, patch)
	if err != nil {
		return nil, err
	}

	if statusChanged {
		severity := "info"
		if *newStatus == domain.BookingStatusCancelled {
			severity = "warning"
		}
		message := fmt.Sprintf("Booking status changed for patient %s: %s -> %s", patientName, current.Status, *newStatus)
		s.notifier.Send(ctx, notify.KindStatusChange, updated, patientName, message, severity, actor)

		if *newStatus == domain.BookingStatusCompleted {
			completion := fmt.Sprintf("Booking completed for patient %s. Flight duration: %d mins. Cost: $%.2f",
				patientName, intOrZero(updated.FlightDuration), floatOrZero(updated.ActualCost))
			s.notifier.Send(ctx, notify.KindCompletion, updated, patientName, completion, "success", actor)
		}
	}

	event := ws.Event{
		Type:        "booking_updated",
		BookingID:   updated.ID.String(),
		Message:     fmt.Sprintf("Booking %s updated", updated.ID),
		PatientName: patientName,
	}
	if statusChanged {
		event.Status = string(*newStatus)
	}
	s.broadcaster.Broadcast(event)

	log.Info().Str("booking_id", updated.ID.String()).Str("updated_by", actor.Email).Msg("booking updated")
	return updated, nil
}

func (s *BookingService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	if !actor.HasRole(domain.RoleSuperadmin, domain.RoleDispatcher) {
		return fmt.Errorf("delete booking: %w", domain.ErrPermissionDenied)
	}

	bookingID, err := parseID(id)
	if err != nil {
		return err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	patientName := s.patientName(ctx, booking.PatientID)

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		return err
	}

	message := fmt.Sprintf("Booking for patient %s has been deleted", patientName)
	s.notifier.Send(ctx, notify.KindDeleted, booking, patientName, message, "warning", actor)

	s.broadcaster.Broadcast(ws.Event{
		Type:        "booking_deleted",
		BookingID:   booking.ID.String(),
		Message:     "Booking deleted",
		PatientName: patientName,
	})

	log.Info().Str("booking_id", booking.ID.String()).Str("deleted_by", actor.Email).Msg("booking deleted")
	return nil
}

func (s *BookingService) Escalate(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error) {
	if !actor.HasRole(domain.RoleSuperadmin, domain.RoleDispatcher, domain.RoleDoctor) {
		return nil, fmt.Errorf("escalate booking: %w", domain.ErrPermissionDenied)
	}

	bookingID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	patientName := s.patientName(ctx, booking.PatientID)

	critical := domain.UrgencyCritical
	updated, err := s.bookings.Update(ctx, bookingID, repository.BookingPatch{Urgency: &critical})
	if err != nil {
		return nil, err
	}

	// The alert is not gated on whether urgency actually changed.
	alert := fmt.Sprintf("EMERGENCY ESCALATION: Patient %s condition critical. Immediate transport required from %s to %s",
		patientName, defaultString(booking.PickupLocation, "Unknown"), defaultString(booking.Destination, "Unknown"))
	s.notifier.Send(ctx, notify.KindEmergency, updated, patientName, alert, "emergency", actor)

	s.broadcaster.Broadcast(ws.Event{
		Type:        "emergency_alert",
		BookingID:   updated.ID.String(),
		Message:     "Emergency alert triggered",
		Urgency:     string(domain.UrgencyCritical),
		PatientName: patientName,
	})

	log.Info().Str("booking_id", updated.ID.String()).Str("escalated_by", actor.Email).Msg("booking escalated")
	return updated, nil
}

// patientName resolves a display name for notifications. Resolution failure
// is non-fatal and falls back to a placeholder.
func (s *BookingService) patientName(ctx context.Context, patientID string) string {
	if patientID == "" {
		return "Unknown Patient"
	}
	patient, err := s.directory.Patient(ctx, patientID)
	if err != nil || patient == nil || patient.FullName == "" {
		return "Unknown Patient"
	}
	return patient.FullName
}

func (s *BookingService) hospitalSummary(ctx context.Context, id string) *domain.HospitalSummary {
	if id == "" || id == "unknown" {
		return nil
	}
	if s.cache != nil {
		if cached, err := s.cache.GetHospital(ctx, id); err == nil && cached != nil {
			return cached
		}
	}
	hospital, err := s.directory.Hospital(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("hospital_id", id).Msg("hospital lookup failed")
		return nil
	}
	if hospital != nil && s.cache != nil {
		_ = s.cache.SetHospital(ctx, hospital)
	}
	return hospital
}

func (s *BookingService) aircraftSummary(ctx context.Context, id string) *domain.AircraftSummary {
	if id == "" {
		return nil
	}
	if s.cache != nil {
		if cached, err := s.cache.GetAircraft(ctx, id); err == nil && cached != nil {
			return cached
		}
	}
	aircraft, err := s.directory.Aircraft(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("aircraft_id", id).Msg("aircraft lookup failed")
		return nil
	}
	if aircraft != nil && s.cache != nil {
		_ = s.cache.SetAircraft(ctx, aircraft)
	}
	return aircraft
}

func buildPatch(input UpdateBookingInput) (repository.BookingPatch, *domain.BookingStatus, error) {
	patch := repository.BookingPatch{
		PickupLocation:      input.PickupLocation,
		Destination:         input.Destination,
		SpecialInstructions: input.SpecialInstructions,
		AssignedAircraftID:  input.AssignedAircraftID,
		AssignedCrewIDs:     input.AssignedCrewIDs,
		ActualCost:          input.ActualCost,
		FlightDuration:      input.FlightDuration,
	}

	if input.Urgency != nil {
		urgency, err := parseUrgency(*input.Urgency)
		if err != nil {
			return patch, nil, err
		}
		patch.Urgency = &urgency
	}
	if input.PreferredDate != nil {
		date, err := time.Parse("2006-01-02", *input.PreferredDate)
		if err != nil {
			return patch, nil, fmt.Errorf("invalid preferred_date %q: %w", *input.PreferredDate, domain.ErrValidation)
		}
		patch.PreferredDate = &date
	}
	if input.PreferredTime != nil {
		parsed, err := parseTimeOfDay(*input.PreferredTime)
		if err != nil {
			return patch, nil, err
		}
		patch.PreferredTime = &parsed
	}
	if input.RequiredEquipment != nil {
		patch.RequiredEquipment = domain.NormalizeEquipment(input.RequiredEquipment)
	}

	var newStatus *domain.BookingStatus
	if input.Status != nil {
		status, err := parseStatus(*input.Status)
		if err != nil {
			return patch, nil, err
		}
		patch.Status = &status
		newStatus = &status
	}

	return patch, newStatus, nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid booking ID format: %w", domain.ErrValidation)
	}
	return parsed, nil
}

func parseUrgency(value string) (domain.Urgency, error) {
	switch domain.Urgency(value) {
	case domain.UrgencyCritical, domain.UrgencyUrgent, domain.UrgencyStable:
		return domain.Urgency(value), nil
	}
	return "", fmt.Errorf("invalid urgency %q: %w", value, domain.ErrValidation)
}

func parseStatus(value string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(value) {
	case domain.BookingStatusPending, domain.BookingStatusApproved, domain.BookingStatusScheduled,
		domain.BookingStatusEnRoute, domain.BookingStatusCompleted, domain.BookingStatusCancelled:
		return domain.BookingStatus(value), nil
	}
	return "", fmt.Errorf("invalid status %q: %w", value, domain.ErrValidation)
}

// parseSchedule defaults an absent date to today and an absent time to noon;
// present but unparseable values are rejected.
func parseSchedule(date, timeOfDay string) (time.Time, string, error) {
	preferredDate := time.Now().UTC().Truncate(24 * time.Hour)
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("invalid preferred_date %q: %w", date, domain.ErrValidation)
		}
		preferredDate = parsed
	}

	preferredTime := "12:00:00"
	if timeOfDay != "" {
		parsed, err := parseTimeOfDay(timeOfDay)
		if err != nil {
			return time.Time{}, "", err
		}
		preferredTime = parsed
	}

	return preferredDate, preferredTime, nil
}

func parseTimeOfDay(value string) (string, error) {
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t.Format("15:04:05"), nil
	}
	if t, err := time.Parse("15:04", value); err == nil {
		return t.Format("15:04:05"), nil
	}
	return "", fmt.Errorf("invalid preferred_time %q: %w", value, domain.ErrValidation)
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func floatOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

var _ BookingUseCase = (*BookingService)(nil)
