package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/skyaid/airambulance/internal/domain"
	"github.com/skyaid/airambulance/internal/repository"
)

type DashboardUseCase interface {
	PendingCount(ctx context.Context, actor domain.Actor) (int, error)
	CompletedStats(ctx context.Context, actor domain.Actor) (*Stats, error)
}

// Stats summarizes completed transports for the dispatcher dashboard.
type Stats struct {
	TotalCompleted           int     `json:"total_completed"`
	TotalRevenue             float64 `json:"total_revenue"`
	TotalFlightTime          int     `json:"total_flight_time"`
	AverageFlightTime        float64 `json:"average_flight_time"`
	AverageRevenuePerBooking float64 `json:"average_revenue_per_booking"`
}

// Cache stores computed stats for a short TTL. May be nil.
type Cache interface {
	GetCompletedStats(ctx context.Context) (*repository.CompletedStats, error)
	SetCompletedStats(ctx context.Context, stats *repository.CompletedStats) error
}

type DashboardService struct {
	bookings repository.BookingRepository
	cache    Cache
}

func NewDashboardService(bookings repository.BookingRepository, cache Cache) *DashboardService {
	return &DashboardService{bookings: bookings, cache: cache}
}

func (s *DashboardService) PendingCount(ctx context.Context, actor domain.Actor) (int, error) {
	if !actor.HasRole(domain.RoleSuperadmin, domain.RoleDispatcher) {
		return 0, fmt.Errorf("pending count: %w", domain.ErrPermissionDenied)
	}
	return s.bookings.CountByStatus(ctx, domain.BookingStatusPending)
}

func (s *DashboardService) CompletedStats(ctx context.Context, actor domain.Actor) (*Stats, error) {
	if !actor.HasRole(domain.RoleSuperadmin, domain.RoleDispatcher) {
		return nil, fmt.Errorf("completed stats: %w", domain.ErrPermissionDenied)
	}

	var raw *repository.CompletedStats
	if s.cache != nil {
		if cached, err := s.cache.GetCompletedStats(ctx); err == nil && cached != nil {
			raw = cached
		}
	}
	if raw == nil {
		stats, err := s.bookings.CompletedStats(ctx)
		if err != nil {
			return nil, err
		}
		raw = stats
		if s.cache != nil {
			_ = s.cache.SetCompletedStats(ctx, raw)
		}
	}

	result := &Stats{
		TotalCompleted:  raw.TotalCompleted,
		TotalRevenue:    raw.TotalRevenue,
		TotalFlightTime: raw.TotalFlightTime,
	}
	if raw.TotalCompleted > 0 {
		result.AverageFlightTime = round2(float64(raw.TotalFlightTime) / float64(raw.TotalCompleted))
		result.AverageRevenuePerBooking = round2(raw.TotalRevenue / float64(raw.TotalCompleted))
	}
	return result, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

var _ DashboardUseCase = (*DashboardService)(nil)
