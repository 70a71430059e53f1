package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bayuwidodo/belanja-backend/api/controllers"
	webhookcontrollers "github.com/bayuwidodo/belanja-backend/api/controllers/webhooks"
	"github.com/bayuwidodo/belanja-backend/api/middleware"
	"github.com/bayuwidodo/belanja-backend/internal/cart"
	checkoutsvc "github.com/bayuwidodo/belanja-backend/internal/checkout"
	"github.com/bayuwidodo/belanja-backend/internal/orders"
	midtranswebhook "github.com/bayuwidodo/belanja-backend/internal/webhooks/midtrans"
	"github.com/bayuwidodo/belanja-backend/pkg/config"
	"github.com/bayuwidodo/belanja-backend/pkg/db"
	"github.com/bayuwidodo/belanja-backend/pkg/logger"
	"github.com/bayuwidodo/belanja-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	webhookService *midtranswebhook.Service,
	webhookGuard *midtranswebhook.IdempotencyGuard,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Get("/midtrans", webhookcontrollers.MidtransPing())
		r.Post("/midtrans", webhookcontrollers.MidtransNotification(webhookService, webhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Post("/checkout/validate", controllers.CheckoutValidate(checkoutService, logg))
		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/*", controllers.OrderDetail(ordersService, logg))
		})
	})

	return r
}
