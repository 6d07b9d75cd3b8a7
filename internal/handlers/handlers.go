package handlers

import (
	"encoding/json"
	"net/http"

	"stellforge/internal/config"
	"stellforge/internal/db"
	"stellforge/internal/ratelimit"
	"stellforge/internal/websocket"
)

type Handler struct {
	cfg             config.Config
	txRunner        db.TxRunner
	limiter         ratelimit.Counter
	mintService     MintService
	referralService ReferralService
	taskService     TaskService
	balances        BalanceStore
	mints           MintStore
	stats           StatsStore
	tasks           TaskStore
	audit           AuditStore
	hub             *websocket.Hub
}

func New(cfg config.Config, txRunner db.TxRunner, limiter ratelimit.Counter, mintService MintService, referralService ReferralService, taskService TaskService, balances BalanceStore, mints MintStore, stats StatsStore, tasks TaskStore, audit AuditStore, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:             cfg,
		txRunner:        txRunner,
		limiter:         limiter,
		mintService:     mintService,
		referralService: referralService,
		taskService:     taskService,
		balances:        balances,
		mints:           mints,
		stats:           stats,
		tasks:           tasks,
		audit:           audit,
		hub:             hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
