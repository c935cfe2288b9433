package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyaid/airambulance/internal/domain"
)

// DirectoryRepository exposes read-only lookups against the patient,
// hospital, and aircraft registries. These are external collaborators as far
// as the booking engine is concerned: a missing entity is reported as a nil
// summary, not an error, so callers can degrade gracefully.
type DirectoryRepository interface {
	Patient(ctx context.Context, id string) (*domain.PatientSummary, error)
	Hospital(ctx context.Context, id string) (*domain.HospitalSummary, error)
	Aircraft(ctx context.Context, id string) (*domain.AircraftSummary, error)
}

type PGDirectoryRepository struct {
	db *pgxpool.Pool
}

func NewDirectoryRepository(db *pgxpool.Pool) DirectoryRepository {
	return &PGDirectoryRepository{db: db}
}

func (r *PGDirectoryRepository) Patient(ctx context.Context, id string) (*domain.PatientSummary, error) {
	row := r.db.QueryRow(ctx, `SELECT id, full_name, coalesce(medical_record_number, ''),
		coalesce(acuity_level, 'unknown'), coalesce(age, 0), coalesce(condition, '')
		FROM patients WHERE id=$1`, id)

	var p domain.PatientSummary
	if err := row.Scan(&p.ID, &p.FullName, &p.MedicalRecordNumber, &p.AcuityLevel, &p.Age, &p.Condition); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get patient: %v", domain.ErrDependencyUnavailable, err)
	}
	return &p, nil
}

func (r *PGDirectoryRepository) Hospital(ctx context.Context, id string) (*domain.HospitalSummary, error) {
	row := r.db.QueryRow(ctx, `SELECT id, hospital_name, coalesce(address, ''), coalesce(contact_number, '')
		FROM hospitals WHERE id=$1`, id)

	var h domain.HospitalSummary
	if err := row.Scan(&h.ID, &h.Name, &h.Address, &h.ContactNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get hospital: %v", domain.ErrDependencyUnavailable, err)
	}
	return &h, nil
}

func (r *PGDirectoryRepository) Aircraft(ctx context.Context, id string) (*domain.AircraftSummary, error) {
	row := r.db.QueryRow(ctx, `SELECT id, aircraft_type, registration, airline_operator, status
		FROM aircraft WHERE id=$1`, id)

	var a domain.AircraftSummary
	if err := row.Scan(&a.ID, &a.AircraftType, &a.Registration, &a.Operator, &a.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get aircraft: %v", domain.ErrDependencyUnavailable, err)
	}
	return &a, nil
}

var _ DirectoryRepository = (*PGDirectoryRepository)(nil)
