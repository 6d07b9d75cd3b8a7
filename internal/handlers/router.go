package handlers

import (
	"fmt"
	"net/http"
	"time"

	"stellforge/internal/middleware"
	"stellforge/internal/store"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Security)
		r.Use(middleware.RateLimit(h.limiter, h.cfg.RateLimitPerHour, time.Hour, h.auditRateLimited))

		r.Route("/points", func(r chi.Router) {
			r.Post("/mint", h.Mint)
			r.Post("/claim-bonus", h.ClaimBonus)
			r.Post("/platform-reward", h.PlatformReward)
			r.Get("/balance/{walletAddress}", h.GetBalance)
			r.Get("/stats", h.GetStats)
			r.Get("/mints/{walletAddress}", h.ListMints)

			r.Route("/referral", func(r chi.Router) {
				r.Post("/claim", h.ClaimReferral)
				r.Get("/{walletAddress}", h.GetReferralLink)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.ListTasks)
				r.Get("/completed/{walletAddress}", h.CompletedTasks)
				r.Post("/complete", h.CompleteTask)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.AdminLogin)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(h.cfg.JWTSecret))
				r.Put("/settings", h.UpdateSettings)
				r.Post("/tasks", h.CreateTask)
				r.Put("/tasks/{id}/status", h.SetTaskStatus)
				r.Get("/audit", h.ListAuditLogs)
			})
		})
	})

	router.Get("/ws/points", h.WSPoints)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func (h *Handler) auditRateLimited(r *http.Request, count int64) {
	_ = h.audit.Log(r.Context(), store.AuditEntry{
		IPAddress:         middleware.ClientIP(r),
		DeviceFingerprint: middleware.DeviceFingerprint(r),
		Action:            "rate_limit_exceeded",
		Details:           fmt.Sprintf(`{"count":%d,"path":%q}`, count, r.URL.Path),
		Flagged:           true,
	})
}
