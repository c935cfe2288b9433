package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyaid/airambulance/api"
	"github.com/skyaid/airambulance/config"
	"github.com/skyaid/airambulance/internal/service/booking"
	"github.com/skyaid/airambulance/internal/service/dashboard"
	"github.com/skyaid/airambulance/internal/ws"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, dashboardSvc dashboard.DashboardUseCase, hub *ws.Hub) error {
	router := gin.New()
	router.Use(gin.Recovery())

	bookingHandler := api.NewBookingHandler(bookingSvc)
	dashboardHandler := api.NewDashboardHandler(dashboardSvc)
	wsHandler := ws.NewHandler(hub)

	authed := router.Group("/api", api.AuthMiddleware(cfg.Auth.JWTSecret))
	bookings := authed.Group("/bookings")
	bookingHandler.Register(bookings)
	dashboardHandler.Register(bookings)

	// The broadcast channel carries no commands today, so it stays outside
	// the auth middleware; observers identify themselves by client id.
	wsHandler.Register(router.Group("/ws"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
