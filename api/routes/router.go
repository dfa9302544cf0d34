package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feriavirtual/marketplace-backend/api/controllers"
	"github.com/feriavirtual/marketplace-backend/api/middleware"
	"github.com/feriavirtual/marketplace-backend/internal/audit"
	"github.com/feriavirtual/marketplace-backend/internal/checkout"
	"github.com/feriavirtual/marketplace-backend/internal/commission"
	"github.com/feriavirtual/marketplace-backend/internal/notifications"
	"github.com/feriavirtual/marketplace-backend/internal/purchases"
	"github.com/feriavirtual/marketplace-backend/internal/shipping"
	"github.com/feriavirtual/marketplace-backend/pkg/config"
	"github.com/feriavirtual/marketplace-backend/pkg/db"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
	"github.com/feriavirtual/marketplace-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	checkoutService checkout.Service,
	shippingService shipping.Service,
	commissionService commission.Service,
	notificationsService notifications.Service,
	purchasesRepo purchases.Repository,
	auditor *audit.Auditor,
	promGatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var cache interface {
		Ping(ctx context.Context) error
	}
	if redisClient != nil {
		cache = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cache))
	})

	if promGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ActorContext(logg))

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutCentralized(checkoutService, logg))
			r.Post("/single", controllers.CheckoutSingle(checkoutService, logg))
			r.Post("/multi", controllers.CheckoutMulti(checkoutService, logg))
		})

		r.Route("/purchases/{purchaseId}/shipping", func(r chi.Router) {
			r.Get("/", controllers.GetShipping(shippingService, logg))
			r.Post("/", controllers.InitializeShipping(shippingService, logg))
			r.Patch("/", controllers.UpdateShippingStatus(shippingService, logg))
		})

		r.Route("/seller", func(r chi.Router) {
			r.Get("/purchases", controllers.SellerApprovedPurchases(purchasesRepo, logg))
			r.Get("/bank-config", controllers.GetBankConfig(commissionService, logg))
			r.Put("/bank-config", controllers.SetBankConfig(commissionService, logg))
			r.Get("/payout-preview", controllers.PayoutPreview(commissionService, logg))
			r.Get("/audit", controllers.AuditSellerPurchases(auditor, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Get("/audit/purchases/{purchaseId}", controllers.AuditPurchase(auditor, logg))
	})

	return r
}
