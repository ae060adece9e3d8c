package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avoronov/catalog-backend/api/controllers"
	"github.com/avoronov/catalog-backend/api/middleware"
	discountpolicy "github.com/avoronov/catalog-backend/internal/discountpolicies"
	"github.com/avoronov/catalog-backend/internal/discountprocessing"
	productsvc "github.com/avoronov/catalog-backend/internal/products"
	"github.com/avoronov/catalog-backend/pkg/config"
	"github.com/avoronov/catalog-backend/pkg/db"
	"github.com/avoronov/catalog-backend/pkg/logger"
	"github.com/avoronov/catalog-backend/pkg/metrics"
	"github.com/avoronov/catalog-backend/pkg/redis"
)

// Dependencies carries everything the router needs wired in.
type Dependencies struct {
	Config            *config.Config
	Logger            *logger.Logger
	DBPinger          db.Pinger
	RedisPinger       redis.Pinger
	IdempotencyStore  redis.IdempotencyStore
	HTTPMetrics       *metrics.HTTPMetrics
	MetricsGatherer   prometheus.Gatherer
	ProductService    productsvc.Service
	PolicyService     discountpolicy.Service
	ProcessingService discountprocessing.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))

		r.Get("/products", controllers.ListProducts(deps.ProductService, logg))
		r.Post("/products", controllers.CreateProduct(deps.ProductService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.ProductService, logg))
		r.Put("/products/{productId}", controllers.UpdateProduct(deps.ProductService, logg))
		r.Delete("/products/{productId}", controllers.DeleteProduct(deps.ProductService, logg))
		r.Post("/products/{productId}/discount-policies/{policyId}", controllers.AttachProductPolicy(deps.ProductService, logg))
		r.Delete("/products/{productId}/discount-policies/{policyId}", controllers.DetachProductPolicy(deps.ProductService, logg))

		r.Get("/discount-policies", controllers.ListDiscountPolicies(deps.PolicyService, logg))
		r.Post("/discount-policies", controllers.CreateDiscountPolicy(deps.PolicyService, logg))
		r.Get("/discount-policies/{discountPolicyId}", controllers.GetDiscountPolicy(deps.PolicyService, logg))
		r.Put("/discount-policies/{discountPolicyId}", controllers.UpdateDiscountPolicy(deps.PolicyService, logg))
		r.Delete("/discount-policies/{discountPolicyId}", controllers.DeleteDiscountPolicy(deps.PolicyService, logg))

		r.Post("/discount-processing/calculate", controllers.CalculateDiscount(deps.ProcessingService, logg))
	})

	return r
}
