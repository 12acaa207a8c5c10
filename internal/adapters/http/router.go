package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lromero/customerbook/internal/adapters/config"
	"github.com/lromero/customerbook/internal/adapters/http/controllers"
	"github.com/lromero/customerbook/internal/adapters/http/middleware"
)

type Router struct {
	healthController   *controllers.HealthController
	customerController *controllers.CustomerController
	rateLimiter        middleware.RateLimiter
}

func NewRouter(
	healthController *controllers.HealthController,
	customerController *controllers.CustomerController,
	rateLimiter middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:   healthController,
		customerController: customerController,
		rateLimiter:        rateLimiter,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	rl := r.rateLimiter

	apiGroup := router.Group("/api")
	{
		apiGroup.Use(middleware.LogRequest())
		apiGroup.GET("/health", r.healthController.Health)

		apiGroup.GET("/customers", r.customerController.GetAll)
		apiGroup.POST("/customers", middleware.RateLimit(rl, 15, 1*time.Minute), r.customerController.CreateCustomer)
	}
}

func (r *Router) ListenAndServe(ctx context.Context, config config.HTTPConfig) error {
	engine := gin.Default()
	r.SetupRoutes(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", config.BindInterface, config.Port),
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
