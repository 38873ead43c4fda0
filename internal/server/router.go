package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"myday-qr/internal/admin"
	admindataapi "myday-qr/internal/admindata/api"
	"myday-qr/internal/auth"
	"myday-qr/internal/logger"
	"myday-qr/internal/metrics"
	"myday-qr/internal/utils"
)

func newRouter(h handlers, resolver auth.TokenResolver, gate *admin.Gate, db *bun.DB, registry *prometheus.Registry, log *logger.Logger) chi.Router {
	httpMetrics := metrics.NewHTTPMetrics(registry)
	requireUser := auth.Middleware(resolver, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics.Middleware)
	r.Use(RequestLogger(log))

	r.Get("/health", healthHandler(db))
	r.Handle("/metrics", metrics.Handler(registry))

	// Public QR viewer.
	r.Get("/q/{code}", h.qrcodes.Viewer)
	r.Get("/q/{code}/qr.png", h.qrcodes.PNG)

	r.Route("/api", func(r chi.Router) {
		h.auth.RegisterPublicRoutes(r)
		h.catalog.RegisterPublicRoutes(r)
		r.Get("/qrcodes/public/{code}", h.qrcodes.Resolve)
		r.Get("/site-config", h.content.Public)
		r.Post("/coupons/validate", h.coupons.Check)
		r.With(auth.OptionalMiddleware(resolver, log)).Post("/checkout", h.orders.Checkout)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/auth/me", h.auth.Me)
			r.Get("/checkout/prefill", h.orders.Prefill)
			h.qrcodes.RegisterOwnerRoutes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/verify", h.admins.Verify)
			r.Post("/setup", h.admins.Setup)

			r.Group(func(r chi.Router) {
				r.Use(requireUser, gate.RequireAdmin)
				h.admins.RegisterRoutes(r)
				h.orders.RegisterAdminRoutes(r)
				h.catalog.RegisterAdminRoutes(r)
				h.coupons.RegisterAdminRoutes(r)
				h.content.RegisterAdminRoutes(r)
				h.qrcodes.RegisterAdminRoutes(r)
				h.analytics.RegisterRoutes(r)
			})
		})

		r.Route("/admin-data", func(r chi.Router) {
			r.Use(admindataapi.BodyToken, requireUser, gate.RequireAdmin)
			h.adminData.RegisterRoutes(r)
		})
	})

	log.Info("ROUTER", "Routes registered")
	return r
}

func healthHandler(db *bun.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// RequestLogger writes one API line per request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", status), time.Since(start).String())
		})
	}
}
