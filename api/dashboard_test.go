package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/skyaid/airambulance/internal/domain"
	"github.com/skyaid/airambulance/internal/service/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) PendingCount(ctx context.Context, actor domain.Actor) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardUseCase) CompletedStats(ctx context.Context, actor domain.Actor) (*dashboard.Stats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.Stats), args.Error(1)
}

func TestDashboardHandler_pendingCount(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	c, w := testContext(t, "GET", "/api/bookings/pending/count", nil)
	mockService.On("PendingCount", c.Request.Context(), testActor).Return(4, nil)

	handler.pendingCount(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pending_approvals_count": 4}`, w.Body.String())

	mockService.AssertExpectations(t)
}

func TestDashboardHandler_completedStats(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	c, w := testContext(t, "GET", "/api/bookings/completed/stats", nil)
	mockService.On("CompletedStats", c.Request.Context(), testActor).
		Return(&dashboard.Stats{TotalCompleted: 2, TotalRevenue: 20000, TotalFlightTime: 120, AverageFlightTime: 60, AverageRevenuePerBooking: 10000}, nil)

	handler.completedStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total_completed": 2,
		"total_revenue": 20000,
		"total_flight_time": 120,
		"average_flight_time": 60,
		"average_revenue_per_booking": 10000
	}`, w.Body.String())

	mockService.AssertExpectations(t)
}

func TestDashboardHandler_pendingCount_PermissionDenied(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	c, w := testContext(t, "GET", "/api/bookings/pending/count", nil)
	mockService.On("PendingCount", c.Request.Context(), testActor).Return(0, domain.ErrPermissionDenied)

	handler.pendingCount(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
