package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/skyaid/airambulance/internal/domain"
)

// bookingRow is the loosely-shaped row as stored. Legacy rows may be missing
// fields or carry free-text equipment labels; repair() patches them in one
// place so the rest of the code only ever sees a well-formed aggregate.
type bookingRow struct {
	ID                    uuid.UUID
	PatientID             *string
	OriginHospitalID      *string
	DestinationHospitalID *string
	PickupLocation        *string
	Destination           *string
	Urgency               *string
	RequiredEquipment     []string
	SpecialInstructions   *string
	PreferredDate         *time.Time
	PreferredTime         *string
	Status                *string
	AssignedAircraftID    *string
	AssignedCrewIDs       []string
	EstimatedCost         *float64
	ActualCost            *float64
	FlightDuration        *int
	CreatedBy             *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var raw bookingRow
	if err := row.Scan(&raw.ID, &raw.PatientID, &raw.OriginHospitalID, &raw.DestinationHospitalID,
		&raw.PickupLocation, &raw.Destination, &raw.Urgency, &raw.RequiredEquipment,
		&raw.SpecialInstructions, &raw.PreferredDate, &raw.PreferredTime, &raw.Status,
		&raw.AssignedAircraftID, &raw.AssignedCrewIDs, &raw.EstimatedCost, &raw.ActualCost,
		&raw.FlightDuration, &raw.CreatedBy, &raw.CreatedAt, &raw.UpdatedAt); err != nil {
		return nil, err
	}
	booking := raw.repair()
	return &booking, nil
}

func (r bookingRow) repair() domain.Booking {
	b := domain.Booking{
		ID:                    r.ID,
		PatientID:             stringOr(r.PatientID, ""),
		OriginHospitalID:      stringOr(r.OriginHospitalID, "unknown"),
		DestinationHospitalID: stringOr(r.DestinationHospitalID, "unknown"),
		PickupLocation:        stringOr(r.PickupLocation, "Unknown Location"),
		Destination:           stringOr(r.Destination, "Unknown Location"),
		Urgency:               domain.Urgency(stringOr(r.Urgency, string(domain.UrgencyStable))),
		RequiredEquipment:     domain.NormalizeEquipment(r.RequiredEquipment),
		SpecialInstructions:   stringOr(r.SpecialInstructions, ""),
		Status:                domain.BookingStatus(stringOr(r.Status, string(domain.BookingStatusPending))),
		AssignedAircraftID:    r.AssignedAircraftID,
		AssignedCrewIDs:       r.AssignedCrewIDs,
		ActualCost:            r.ActualCost,
		FlightDuration:        r.FlightDuration,
		CreatedBy:             stringOr(r.CreatedBy, ""),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	if r.EstimatedCost != nil {
		b.EstimatedCost = *r.EstimatedCost
	}
	if b.AssignedCrewIDs == nil {
		b.AssignedCrewIDs = []string{}
	}
	if r.PreferredDate != nil {
		b.PreferredDate = *r.PreferredDate
	} else {
		b.PreferredDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	b.PreferredTime = repairTime(r.PreferredTime)
	return b
}

// repairTime accepts "HH:MM:SS" or "HH:MM" and normalizes to "HH:MM:SS";
// anything else falls back to noon.
func repairTime(value *string) string {
	if value == nil {
		return "12:00:00"
	}
	if t, err := time.Parse("15:04:05", *value); err == nil {
		return t.Format("15:04:05")
	}
	if t, err := time.Parse("15:04", *value); err == nil {
		return t.Format("15:04:05")
	}
	return "12:00:00"
}

func stringOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}
