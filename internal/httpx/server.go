package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/middleware"
)

// NewRouter assembles the full HTTP surface: public endpoints, the
// bearer-authenticated admin API, and the ops endpoints.
func NewRouter(h *Handler, admins domain.AdminRepository, metrics *middleware.Metrics, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.WithRequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	if metrics != nil {
		r.Use(metrics.Middleware)
		r.Handle("/metrics", metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Customer surface, no auth.
		r.Post("/orders", h.createOrder)
		r.Get("/orders/{trackingCode}", h.trackOrder)
		r.Get("/services", h.publicServices)
		r.Get("/settings", h.publicSettings)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(admins))

				r.Post("/logout", h.logout)
				r.Get("/me", h.me)

				r.Get("/orders", h.listOrders)
				r.Get("/orders/{id}", h.getOrder)
				r.Put("/orders/{id}", h.updateOrder)
				r.Delete("/orders/{id}", h.deleteOrder)
				r.Delete("/orders-reset", h.resetOrders)
				r.Get("/stats", h.stats)

				r.Get("/services", h.listServices)
				r.Post("/services", h.createService)
				r.Put("/services/{id}", h.updateService)
				r.Delete("/services/{id}", h.deleteService)

				r.Get("/settings", h.allSettings)
				r.Put("/settings", h.updateSettings)
			})
		})
	})

	return r
}
