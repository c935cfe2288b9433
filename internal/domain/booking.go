package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusEnRoute   BookingStatus = "en_route"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyStable   Urgency = "stable"
)

// Booking is a single air-ambulance transport request. ActualCost and
// FlightDuration stay nil until the booking reaches completed status and are
// never cleared afterwards.
type Booking struct {
	ID                    uuid.UUID
	PatientID             string
	OriginHospitalID      string
	DestinationHospitalID string
	PickupLocation        string
	Destination           string
	Urgency               Urgency
	RequiredEquipment     []EquipmentType
	SpecialInstructions   string
	PreferredDate         time.Time
	PreferredTime         string
	Status                BookingStatus
	AssignedAircraftID    *string
	AssignedCrewIDs       []string
	EstimatedCost         float64
	ActualCost            *float64
	FlightDuration        *int
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// PatientSummary is the denormalized patient view attached to a booking.
type PatientSummary struct {
	ID                  string `json:"id"`
	FullName            string `json:"full_name"`
	MedicalRecordNumber string `json:"medical_record_number"`
	AcuityLevel         string `json:"acuity_level"`
	Age                 int    `json:"age"`
	Condition           string `json:"condition"`
}

type HospitalSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

type AircraftSummary struct {
	ID           string `json:"id"`
	AircraftType string `json:"aircraft_type"`
	Registration string `json:"registration"`
	Operator     string `json:"operator"`
	Status       string `json:"status"`
}

// BookingWithDetails enriches a booking with related-entity summaries. Each
// summary is independently optional: a missing related entity leaves the
// field nil instead of failing the lookup.
type BookingWithDetails struct {
	Booking
	Patient             *PatientSummary
	OriginHospital      *HospitalSummary
	DestinationHospital *HospitalSummary
	AssignedAircraft    *AircraftSummary
}
