package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyaid/airambulance/internal/domain"
)

// BookingFilter narrows List results. CreatedBy and UrgencyIn carry the
// role-based visibility constraints computed by the service layer.
type BookingFilter struct {
	Status    *domain.BookingStatus
	CreatedBy string
	UrgencyIn []domain.Urgency
	Skip      int
	Limit     int
}

// BookingPatch is a partial update. Nil fields are left untouched.
type BookingPatch struct {
	Urgency             *domain.Urgency
	PickupLocation      *string
	Destination         *string
	PreferredDate       *time.Time
	PreferredTime       *string
	RequiredEquipment   []domain.EquipmentType
	SpecialInstructions *string
	Status              *domain.BookingStatus
	AssignedAircraftID  *string
	AssignedCrewIDs     []string
	ActualCost          *float64
	FlightDuration      *int
}

// CompletedStats aggregates completed bookings for the dashboard.
type CompletedStats struct {
	TotalCompleted  int
	TotalRevenue    float64
	TotalFlightTime int
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	Update(ctx context.Context, id uuid.UUID, patch BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status domain.BookingStatus) (int, error)
	CompletedStats(ctx context.Context) (*CompletedStats, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, patient_id, origin_hospital_id, destination_hospital_id, pickup_location, destination,
	urgency, required_equipment, special_instructions, preferred_date, preferred_time, status,
	assigned_aircraft_id, assigned_crew_ids, estimated_cost, actual_cost, flight_duration,
	created_by, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	equipment := equipmentStrings(b.RequiredEquipment)
	err := r.db.QueryRow(ctx, `INSERT INTO bookings (id, patient_id, origin_hospital_id, destination_hospital_id,
		pickup_location, destination, urgency, required_equipment, special_instructions, preferred_date,
		preferred_time, status, assigned_aircraft_id, assigned_crew_ids, estimated_cost, actual_cost,
		flight_duration, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at`,
		b.ID, b.PatientID, b.OriginHospitalID, b.DestinationHospitalID, b.PickupLocation, b.Destination,
		b.Urgency, equipment, b.SpecialInstructions, b.PreferredDate, b.PreferredTime, b.Status,
		b.AssignedAircraftID, b.AssignedCrewIDs, b.EstimatedCost, b.ActualCost, b.FlightDuration, b.CreatedBy).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert booking: %v", domain.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get booking: %v", domain.ErrDependencyUnavailable, err)
	}
	return booking, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		conditions = append(conditions, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if len(filter.UrgencyIn) > 0 {
		urgencies := make([]string, 0, len(filter.UrgencyIn))
		for _, u := range filter.UrgencyIn {
			urgencies = append(urgencies, string(u))
		}
		args = append(args, urgencies)
		conditions = append(conditions, fmt.Sprintf("urgency = ANY($%d)", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Skip)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings: %v", domain.ErrDependencyUnavailable, err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan booking: %v", domain.ErrDependencyUnavailable, err)
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list bookings: %v", domain.ErrDependencyUnavailable, err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) Update(ctx context.Context, id uuid.UUID, patch BookingPatch) (*domain.Booking, error) {
	sets := []string{"updated_at=now()"}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Urgency != nil {
		add("urgency", *patch.Urgency)
	}
	if patch.PickupLocation != nil {
		add("pickup_location", *patch.PickupLocation)
	}
	if patch.Destination != nil {
		add("destination", *patch.Destination)
	}
	if patch.PreferredDate != nil {
		add("preferred_date", *patch.PreferredDate)
	}
	if patch.PreferredTime != nil {
		add("preferred_time", *patch.PreferredTime)
	}
	if patch.RequiredEquipment != nil {
		add("required_equipment", equipmentStrings(patch.RequiredEquipment))
	}
	if patch.SpecialInstructions != nil {
		add("special_instructions", *patch.SpecialInstructions)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.AssignedAircraftID != nil {
		add("assigned_aircraft_id", *patch.AssignedAircraftID)
	}
	if patch.AssignedCrewIDs != nil {
		add("assigned_crew_ids", patch.AssignedCrewIDs)
	}
	if patch.ActualCost != nil {
		add("actual_cost", *patch.ActualCost)
	}
	if patch.FlightDuration != nil {
		add("flight_duration", *patch.FlightDuration)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE bookings SET %s WHERE id=$%d RETURNING `+bookingColumns,
		strings.Join(sets, ", "), len(args))

	row := r.db.QueryRow(ctx, query, args...)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: update booking: %v", domain.ErrDependencyUnavailable, err)
	}
	return booking, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete booking: %v", domain.ErrDependencyUnavailable, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PGBookingRepository) CountByStatus(ctx context.Context, status domain.BookingStatus) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE status=$1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count bookings: %v", domain.ErrDependencyUnavailable, err)
	}
	return count, nil
}

func (r *PGBookingRepository) CompletedStats(ctx context.Context) (*CompletedStats, error) {
	var stats CompletedStats
	err := r.db.QueryRow(ctx, `SELECT count(*), coalesce(sum(actual_cost), 0), coalesce(sum(flight_duration), 0)
		FROM bookings WHERE status=$1`, domain.BookingStatusCompleted).
		Scan(&stats.TotalCompleted, &stats.TotalRevenue, &stats.TotalFlightTime)
	if err != nil {
		return nil, fmt.Errorf("%w: completed stats: %v", domain.ErrDependencyUnavailable, err)
	}
	return &stats, nil
}

func equipmentStrings(equipment []domain.EquipmentType) []string {
	out := make([]string, 0, len(equipment))
	for _, eq := range equipment {
		out = append(out, string(eq))
	}
	return out
}

var _ BookingRepository = (*PGBookingRepository)(nil)
