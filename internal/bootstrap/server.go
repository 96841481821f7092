package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/api"
	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/service/approval"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/notification"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Services struct {
	Bookings      booking.BookingUseCase
	Approvals     approval.ApprovalUseCase
	Notifications notification.NotificationUseCase
	Sessions      api.SessionResolver
}

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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

func newRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.Default()

	if cfg.HTTP.SwaggerURL != "" {
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(cfg.HTTP.SwaggerURL))))
	}

	authed := router.Group("/api", api.SessionAuth(svc.Sessions, cfg.Session.CookieName))

	api.NewBookingHandler(svc.Bookings).Register(authed)
	api.NewNotificationHandler(svc.Notifications).Register(authed.Group("/notifications"))

	admin := authed.Group("/admin", api.RequireAdmin())
	api.NewAdminHandler(svc.Approvals, svc.Notifications).Register(admin)

	return router
}
