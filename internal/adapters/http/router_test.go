package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/rafaelleal24/shopping/docs"
	"github.com/rafaelleal24/shopping/internal/adapters/config"
	adapthttp "github.com/rafaelleal24/shopping/internal/adapters/http"
	"github.com/rafaelleal24/shopping/internal/adapters/http/controllers"
	"github.com/rafaelleal24/shopping/internal/adapters/http/handlers"
	"github.com/rafaelleal24/shopping/internal/adapters/http/middleware"
	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/port"
	"github.com/rafaelleal24/shopping/internal/core/port/mock"
	"github.com/rafaelleal24/shopping/internal/core/service"
	"github.com/rafaelleal24/shopping/internal/core/serviceerrors"
	"go.uber.org/mock/gomock"
)

type fakeLimiter struct {
	decision middleware.RateLimitDecision
	err      error
}

func (f *fakeLimiter) Allow(context.Context, string, int, time.Duration) (middleware.RateLimitDecision, error) {
	return f.decision, f.err
}

type recordingObserver struct {
	mu     sync.Mutex
	routes []string
}

func (o *recordingObserver) ObserveRequest(route, _ string, _ int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, route)
}

type routerMocks struct {
	productRepo  *mock.MockProductPort
	productCache *mock.MockCachePort[domain.Product]
	events       *mock.MockEventRecorder
	txManager    *mock.MockTransactionManager
	metrics      *mock.MockPurchaseMetrics
	limiter      *fakeLimiter
	observer     *recordingObserver
	healthErr    error
}

func setupRouter(t *testing.T) (*gin.Engine, *routerMocks) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	m := &routerMocks{
		productRepo:  mock.NewMockProductPort(ctrl),
		productCache: mock.NewMockCachePort[domain.Product](ctrl),
		events:       mock.NewMockEventRecorder(ctrl),
		txManager:    mock.NewMockTransactionManager(ctrl),
		metrics:      mock.NewMockPurchaseMetrics(ctrl),
		limiter:      &fakeLimiter{decision: middleware.RateLimitDecision{Allowed: true, Remaining: 9}},
		observer:     &recordingObserver{},
	}

	shopping := service.NewShoppingService(m.productRepo, m.productCache, m.events, m.txManager, m.metrics)
	idempotency := service.NewIdempotencyService[domain.Purchase](
		mock.NewMockCachePort[service.IdempotencyEntry[domain.Purchase]](ctrl),
		service.IdempotencyOptions{TTL: time.Minute, PollInterval: 10 * time.Millisecond, PollTimeout: 100 * time.Millisecond},
	)

	health := controllers.NewHealthController([]controllers.HealthChecker{
		{Name: "mongodb", Check: func(context.Context) error { return m.healthErr }},
	})
	router := adapthttp.NewRouter(
		health,
		controllers.NewProductController(shopping),
		controllers.NewPurchaseController(service.NewCheckoutService(shopping, idempotency)),
		m.limiter,
		config.PurchaseConfig{RateLimitRequests: 10, RateLimitWindow: time.Minute},
		adapthttp.WithMetrics(m.observer, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("shopping_purchases_total 0\n"))
		})),
	)

	engine := gin.New()
	router.SetupRoutes(engine)
	return engine, m
}

func postPurchase(t *testing.T, engine *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func purchaseBody(items ...map[string]any) map[string]any {
	return map[string]any{
		"customer": map[string]any{"id": 1, "contact": "11-11-11"},
		"items":    items,
	}
}

func item(name string, quantity int) map[string]any {
	return map[string]any{"product_name": name, "quantity": quantity}
}

func TestRouter_Purchase(t *testing.T) {
	t.Run("buys the cart", func(t *testing.T) {
		engine, m := setupRouter(t)
		product := domain.NewProduct("widget", 10)

		m.productRepo.EXPECT().GetByName(gomock.Any(), "widget").Return(product, nil)
		m.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
		m.productRepo.EXPECT().Save(gomock.Any(), product).Return(nil)
		m.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
		m.productCache.EXPECT().Del(gomock.Any(), "product:widget").Return(nil)
		m.metrics.EXPECT().ObservePurchase(port.PurchaseOutcomeBought, 7)

		rec := postPurchase(t, engine, purchaseBody(item("widget", 7)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var response controllers.PurchaseResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !response.Bought || response.CustomerID != 1 || response.ID == "" {
			t.Fatalf("unexpected response %+v", response)
		}
		if product.Stock != 3 {
			t.Fatalf("expected stock 3, got %d", product.Stock)
		}
		if rec.Header().Get("X-RateLimit-Remaining") != "9" {
			t.Fatalf("expected rate limit header, got %q", rec.Header().Get("X-RateLimit-Remaining"))
		}
	})

	t.Run("empty cart buys nothing", func(t *testing.T) {
		engine, m := setupRouter(t)
		m.metrics.EXPECT().ObservePurchase(port.PurchaseOutcomeEmpty, 0)

		rec := postPurchase(t, engine, purchaseBody())

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var response controllers.PurchaseResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &response)
		if response.Bought {
			t.Fatal("expected bought=false")
		}
	})

	t.Run("insufficient stock is a conflict", func(t *testing.T) {
		engine, m := setupRouter(t)
		product := domain.NewProduct("widget", 5)

		m.productRepo.EXPECT().GetByName(gomock.Any(), "widget").Return(product, nil)
		m.metrics.EXPECT().ObservePurchase(port.PurchaseOutcomeInsufficientStock, 0)

		rec := postPurchase(t, engine, purchaseBody(item("widget", 10)))

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var response handlers.ErrorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &response)
		if response.Error != "no sufficient quantity of item 'widget' in stock" || response.Product != "widget" {
			t.Fatalf("unexpected error body %+v", response)
		}
		if product.Stock != 5 {
			t.Fatalf("expected stock 5, got %d", product.Stock)
		}
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		engine, _ := setupRouter(t)

		rec := postPurchase(t, engine, purchaseBody(item("widget", 0)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		engine, m := setupRouter(t)
		m.limiter.decision = middleware.RateLimitDecision{Allowed: false, ResetIn: 1500 * time.Millisecond}

		rec := postPurchase(t, engine, purchaseBody(item("widget", 1)))

		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") != "2" {
			t.Fatalf("expected Retry-After 2, got %q", rec.Header().Get("Retry-After"))
		}
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		engine, m := setupRouter(t)
		m.limiter.err = errors.New("redis down")
		m.metrics.EXPECT().ObservePurchase(port.PurchaseOutcomeEmpty, 0)

		rec := postPurchase(t, engine, purchaseBody())

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestRouter_Products(t *testing.T) {
	t.Run("lists products", func(t *testing.T) {
		engine, m := setupRouter(t)
		m.productRepo.EXPECT().GetAll(gomock.Any()).Return([]*domain.Product{domain.NewProduct("widget", 3)}, nil)

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var products []controllers.ProductResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &products)
		if len(products) != 1 || products[0].Stock != 3 {
			t.Fatalf("unexpected products %+v", products)
		}
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		engine, m := setupRouter(t)
		m.productCache.EXPECT().Get(gomock.Any(), "product:ghost").Return(nil, nil)
		m.productRepo.EXPECT().GetByName(gomock.Any(), "ghost").Return(nil, serviceerrors.NewNotFoundError("entity not found"))

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/ghost", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRouter_Health(t *testing.T) {
	engine, m := setupRouter(t)
	m.healthErr = errors.New("no primary")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var response controllers.HealthResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &response)
	if response.Status != "degraded" || response.Services["mongodb"] != "no primary" {
		t.Fatalf("unexpected health %+v", response)
	}
	if len(m.observer.routes) != 1 || m.observer.routes[0] != "/api/v1/health" {
		t.Fatalf("expected observed health route, got %v", m.observer.routes)
	}
}

func TestRouter_MetricsAndDocs(t *testing.T) {
	engine, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("shopping_purchases_total")) {
		t.Fatalf("unexpected metrics response %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("expected json doc, got %v", err)
	}
	if _, ok := doc["paths"]; !ok {
		t.Fatal("expected paths in api doc")
	}
}
