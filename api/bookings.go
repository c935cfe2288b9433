package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyaid/airambulance/internal/domain"
	"github.com/skyaid/airambulance/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingResponse struct {
	ID                    string                 `json:"id"`
	PatientID             string                 `json:"patient_id"`
	OriginHospitalID      string                 `json:"origin_hospital_id"`
	DestinationHospitalID string                 `json:"destination_hospital_id"`
	PickupLocation        string                 `json:"pickup_location"`
	Destination           string                 `json:"destination"`
	Urgency               string                 `json:"urgency"`
	RequiredEquipment     []domain.EquipmentType `json:"required_equipment"`
	SpecialInstructions   string                 `json:"special_instructions,omitempty"`
	PreferredDate         string                 `json:"preferred_date"`
	PreferredTime         string                 `json:"preferred_time"`
	Status                string                 `json:"status"`
	AssignedAircraftID    *string                `json:"assigned_aircraft_id"`
	AssignedCrewIDs       []string               `json:"assigned_crew_ids"`
	EstimatedCost         float64                `json:"estimated_cost"`
	ActualCost            *float64               `json:"actual_cost"`
	FlightDuration        *int                   `json:"flight_duration"`
	CreatedBy             string                 `json:"created_by"`
	CreatedAt             string                 `json:"created_at"`
	UpdatedAt             string                 `json:"updated_at"`
}

type bookingDetailsResponse struct {
	bookingResponse
	Patient             *domain.PatientSummary  `json:"patient,omitempty"`
	OriginHospital      *domain.HospitalSummary `json:"origin_hospital,omitempty"`
	DestinationHospital *domain.HospitalSummary `json:"destination_hospital,omitempty"`
	AssignedAircraft    *domain.AircraftSummary `json:"assigned_aircraft,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
	router.PUT("/:id/emergency", h.escalate)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	skip, err := paginationParam(c, "skip", 0)
	if err != nil {
		writeError(c, err)
		return
	}
	limit, err := paginationParam(c, "limit", 100)
	if err != nil {
		writeError(c, err)
		return
	}

	filter := booking.ListFilter{
		Status: c.Query("status"),
		Skip:   skip,
		Limit:  limit,
	}

	bookings, err := h.service.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *BookingHandler) get(c *gin.Context) {
	details, err := h.service.Get(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookingDetailsResponse{
		bookingResponse:     toBookingResponse(&details.Booking),
		Patient:             details.Patient,
		OriginHospital:      details.OriginHospital,
		DestinationHospital: details.DestinationHospital,
		AssignedAircraft:    details.AssignedAircraft,
	})
}

func (h *BookingHandler) update(c *gin.Context) {
	var req booking.UpdateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

func (h *BookingHandler) escalate(c *gin.Context) {
	updated, err := h.service.Escalate(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Emergency alert sent successfully",
		"booking": toBookingResponse(updated),
	})
}

// paginationParam parses a non-negative integer query parameter; negative
// values would otherwise flow into the SQL OFFSET/LIMIT and fail there.
func paginationParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, domain.ErrValidation)
	}
	return value, nil
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                    b.ID.String(),
		PatientID:             b.PatientID,
		OriginHospitalID:      b.OriginHospitalID,
		DestinationHospitalID: b.DestinationHospitalID,
		PickupLocation:        b.PickupLocation,
		Destination:           b.Destination,
		Urgency:               string(b.Urgency),
		RequiredEquipment:     b.RequiredEquipment,
		SpecialInstructions:   b.SpecialInstructions,
		PreferredDate:         b.PreferredDate.Format("2006-01-02"),
		PreferredTime:         b.PreferredTime,
		Status:                string(b.Status),
		AssignedAircraftID:    b.AssignedAircraftID,
		AssignedCrewIDs:       b.AssignedCrewIDs,
		EstimatedCost:         b.EstimatedCost,
		ActualCost:            b.ActualCost,
		FlightDuration:        b.FlightDuration,
		CreatedBy:             b.CreatedBy,
		CreatedAt:             b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             b.UpdatedAt.Format(time.RFC3339),
	}
}
