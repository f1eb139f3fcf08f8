package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/shopping/internal/adapters/config"
	"github.com/rafaelleal24/shopping/internal/adapters/http/controllers"
	"github.com/rafaelleal24/shopping/internal/adapters/http/middleware"
	"github.com/swaggo/swag"
)

const shutdownTimeout = 5 * time.Second

type Router struct {
	healthController   *controllers.HealthController
	productController  *controllers.ProductController
	purchaseController *controllers.PurchaseController
	rateLimiter        middleware.RateLimiter
	purchaseConfig     config.PurchaseConfig
	observer           middleware.RequestObserver
	metricsHandler     http.Handler
}

type RouterOption func(*Router)

// WithMetrics records every API request on observer and serves handler at /metrics.
func WithMetrics(observer middleware.RequestObserver, handler http.Handler) RouterOption {
	return func(r *Router) {
		r.observer = observer
		r.metricsHandler = handler
	}
}

func NewRouter(
	healthController *controllers.HealthController,
	productController *controllers.ProductController,
	purchaseController *controllers.PurchaseController,
	rateLimiter middleware.RateLimiter,
	purchaseConfig config.PurchaseConfig,
	opts ...RouterOption,
) *Router {
	r := &Router{
		healthController:   healthController,
		productController:  productController,
		purchaseController: purchaseController,
		rateLimiter:        rateLimiter,
		purchaseConfig:     purchaseConfig,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	purchaseLimit := middleware.RateLimit(r.rateLimiter, r.purchaseConfig.RateLimitRequests, r.purchaseConfig.RateLimitWindow)

	v1Group := router.Group("/api/v1")
	{
		v1Group.Use(middleware.LogRequest(r.observer))
		v1Group.GET("/health", r.healthController.Health)

		v1Group.GET("/products", r.productController.GetAll)
		v1Group.GET("/products/:name", r.productController.GetByName)

		v1Group.POST("/purchases", purchaseLimit, r.purchaseController.Checkout)
	}

	router.GET("/swagger/doc.json", serveSwaggerDoc)
	if r.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

func serveSwaggerDoc(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "api documentation not registered"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

func (r *Router) ListenAndServe(ctx context.Context, cfg config.HTTPConfig) error {
	engine := gin.New()
	engine.Use(gin.Recovery())
	r.SetupRoutes(engine)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.BindInterface, cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
