package handler

import (
	"net/http"

	"github.com/onfly/isp-portal-bff-go/internal/infra/observability"
	"github.com/onfly/isp-portal-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the portal mobile app.
func NewRouter(portalSvc *service.Portal, networkSvc *service.Network, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Público: login e validação de documento
		// =============================================
		r.Post("/auth/login", loginHandler(portalSvc, logger))
		r.Post("/documents/validate", documentValidateHandler(logger))
		r.Post("/network/quality", networkQualityHandler(networkSvc, logger))
		r.Get("/metrics/logins", loginMetricsHandler(metrics))

		// =============================================
		// Protegido: dados do cliente e do contrato
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(portalSvc, logger))

			r.Get("/customers/{document}", getCustomerHandler(portalSvc, logger))
			r.Get("/customers/{document}/invoices", listInvoicesHandler(portalSvc, logger))

			r.Get("/contracts/{contractId}/access", checkAccessHandler(portalSvc, logger))
			r.Post("/contracts/{contractId}/trust-unlock", trustUnlockHandler(portalSvc, logger))
			r.Put("/contracts/{contractId}/wifi", updateWifiHandler(portalSvc, logger))

			r.Get("/contracts/{contractId}/tickets", listTicketsHandler(portalSvc, logger))
			r.Post("/contracts/{contractId}/tickets", openTicketHandler(portalSvc, logger))
			r.Get("/tickets/types", listTicketTypesHandler(portalSvc, logger))

			r.Get("/contracts/{contractId}/usage", getUsageHandler(portalSvc, logger))
		})
	})

	return r
}

// loginMetricsHandler serves an aggregated view of the login counters for
// quick ops checks without scraping /metrics.
func loginMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetLoginSnapshot())
	}
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
