package dashboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/skyaid/airambulance/internal/domain"
	"github.com/skyaid/airambulance/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, id uuid.UUID, patch repository.BookingPatch) (*domain.Booking, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context, status domain.BookingStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) CompletedStats(ctx context.Context) (*repository.CompletedStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CompletedStats), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetCompletedStats(ctx context.Context) (*repository.CompletedStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CompletedStats), args.Error(1)
}

func (m *MockCache) SetCompletedStats(ctx context.Context, stats *repository.CompletedStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

var (
	dispatcher = domain.Actor{ID: "disp-1", Role: domain.RoleDispatcher}
	pilot      = domain.Actor{ID: "pilot-1", Role: domain.RolePilot}
)

func TestDashboardService_PendingCount(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewDashboardService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("CountByStatus", ctx, domain.BookingStatusPending).Return(7, nil).Once()

	count, err := service.PendingCount(ctx, dispatcher)

	assert.NoError(t, err)
	assert.Equal(t, 7, count)
	mockRepo.AssertExpectations(t)
}

func TestDashboardService_PendingCount_PermissionDenied(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewDashboardService(mockRepo, nil)

	_, err := service.PendingCount(context.Background(), pilot)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	mockRepo.AssertNotCalled(t, "CountByStatus")
}

func TestDashboardService_CompletedStats_ComputesAverages(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewDashboardService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("CompletedStats", ctx).
		Return(&repository.CompletedStats{TotalCompleted: 3, TotalRevenue: 30100, TotalFlightTime: 280}, nil).Once()

	stats, err := service.CompletedStats(ctx, dispatcher)

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCompleted)
	assert.Equal(t, 30100.0, stats.TotalRevenue)
	assert.Equal(t, 280, stats.TotalFlightTime)
	assert.Equal(t, 93.33, stats.AverageFlightTime)
	assert.Equal(t, 10033.33, stats.AverageRevenuePerBooking)
}

func TestDashboardService_CompletedStats_ZeroCompleted(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewDashboardService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("CompletedStats", ctx).Return(&repository.CompletedStats{}, nil).Once()

	stats, err := service.CompletedStats(ctx, dispatcher)

	assert.NoError(t, err)
	assert.Zero(t, stats.AverageFlightTime)
	assert.Zero(t, stats.AverageRevenuePerBooking)
}

func TestDashboardService_CompletedStats_CacheHitSkipsRepository(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	service := NewDashboardService(mockRepo, mockCache)

	ctx := context.Background()
	mockCache.On("GetCompletedStats", ctx).
		Return(&repository.CompletedStats{TotalCompleted: 2, TotalRevenue: 20000, TotalFlightTime: 120}, nil).Once()

	stats, err := service.CompletedStats(ctx, dispatcher)

	assert.NoError(t, err)
	assert.Equal(t, 60.0, stats.AverageFlightTime)
	mockRepo.AssertNotCalled(t, "CompletedStats")
	mockCache.AssertExpectations(t)
}

func TestDashboardService_CompletedStats_CacheMissFillsCache(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	service := NewDashboardService(mockRepo, mockCache)

	ctx := context.Background()
	raw := &repository.CompletedStats{TotalCompleted: 1, TotalRevenue: 9500, TotalFlightTime: 45}

	mockCache.On("GetCompletedStats", ctx).Return(nil, nil).Once()
	mockRepo.On("CompletedStats", ctx).Return(raw, nil).Once()
	mockCache.On("SetCompletedStats", ctx, raw).Return(nil).Once()

	stats, err := service.CompletedStats(ctx, dispatcher)

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCompleted)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}
