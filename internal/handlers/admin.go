package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"stellforge/internal/auth"
	"stellforge/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if h.cfg.AdminPasswordHash == "" {
		respondError(w, http.StatusServiceUnavailable, "admin access is not configured")
		return
	}
	if !auth.CheckPassword(h.cfg.AdminPasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, "admin", h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to issue token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type updateSettingsRequest struct {
	TotalSupply           string  `json:"totalSupply"`
	PointHoldersPercent   string  `json:"pointHoldersPercent"`
	ListingReservePercent string  `json:"listingReservePercent"`
	TeamPercent           string  `json:"teamPercent"`
	LaunchPercent         string  `json:"launchPercent"`
	OtherPercent          string  `json:"otherPercent"`
	MintingActive         bool    `json:"mintingActive"`
	TreasuryWalletAddress *string `json:"treasuryWalletAddress"`
}

// UpdateSettings replaces the tokenomics singleton. Allocation percents must
// sum to exactly 100.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	update := store.SettingsUpdate{
		MintingActive:         req.MintingActive,
		TreasuryWalletAddress: req.TreasuryWalletAddress,
	}
	fields := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{req.TotalSupply, &update.TotalSupply},
		{req.PointHoldersPercent, &update.PointHoldersPercent},
		{req.ListingReservePercent, &update.ListingReservePercent},
		{req.TeamPercent, &update.TeamPercent},
		{req.LaunchPercent, &update.LaunchPercent},
		{req.OtherPercent, &update.OtherPercent},
	}
	for _, f := range fields {
		parsed, err := decimal.NewFromString(f.raw)
		if err != nil || parsed.IsNegative() {
			respondError(w, http.StatusBadRequest, "invalid settings values")
			return
		}
		*f.dest = parsed
	}
	if update.TotalSupply.LessThanOrEqual(decimal.Zero) {
		respondError(w, http.StatusBadRequest, "total supply must be positive")
		return
	}
	percentSum := update.PointHoldersPercent.
		Add(update.ListingReservePercent).
		Add(update.TeamPercent).
		Add(update.LaunchPercent).
		Add(update.OtherPercent)
	if !percentSum.Equal(decimal.NewFromInt(100)) {
		respondError(w, http.StatusBadRequest, "allocation percents must sum to 100")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.mints.UpdateSettings(r.Context(), tx, update)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update settings")
		return
	}
	settings, err := h.mints.GetSettings(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load settings")
		return
	}
	respondJSON(w, http.StatusOK, settingsResponse(settings))
}

func settingsResponse(settings store.MintSettings) map[string]any {
	return map[string]any{
		"totalSupply":           settings.TotalSupply,
		"pointHoldersPercent":   settings.PointHoldersPercent,
		"listingReservePercent": settings.ListingReservePercent,
		"teamPercent":           settings.TeamPercent,
		"launchPercent":         settings.LaunchPercent,
		"otherPercent":          settings.OtherPercent,
		"mintingActive":         settings.MintingActive,
		"treasuryWalletAddress": settings.TreasuryWalletAddress,
		"totalXlmReceived":      settings.TotalXlmReceived,
		"totalStarMinted":       settings.TotalStarMinted,
	}
}

type createTaskRequest struct {
	TaskType       string `json:"taskType"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	StarReward     string `json:"starReward"`
	MaxCompletions *int   `json:"maxCompletions"`
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TaskType == "" || req.Title == "" {
		respondError(w, http.StatusBadRequest, "taskType and title are required")
		return
	}
	reward, err := decimal.NewFromString(req.StarReward)
	if err != nil || reward.LessThanOrEqual(decimal.Zero) {
		respondError(w, http.StatusBadRequest, "invalid star reward")
		return
	}
	taskID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.tasks.Insert(r.Context(), tx, store.TaskInput{
			ID:             taskID,
			TaskType:       req.TaskType,
			Title:          req.Title,
			Description:    req.Description,
			StarReward:     reward,
			IsActive:       true,
			MaxCompletions: req.MaxCompletions,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create task")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": taskID})
}

type taskStatusRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) SetTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	var req taskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		rows, err := h.tasks.SetActive(r.Context(), tx, taskID, req.IsActive)
		affected = rows
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update task")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": taskID, "isActive": req.IsActive})
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"logs": logs})
}
