package handlers

import (
	"encoding/json"
	"net/http"

	"stellforge/internal/services"
	"stellforge/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ActiveTasks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load tasks")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *Handler) CompletedTasks(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "walletAddress")
	if err := validator.ValidateAddress(address); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	completions, err := h.taskService.CompletedTasks(r.Context(), address)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load completed tasks")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"walletAddress": address,
		"completions":   completions,
	})
}

type completeTaskRequest struct {
	WalletAddress string          `json:"walletAddress"`
	TaskID        string          `json:"taskId"`
	ProofData     json.RawMessage `json:"proofData"`
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateAddress(req.WalletAddress); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	if req.TaskID == "" {
		respondError(w, http.StatusBadRequest, "taskId is required")
		return
	}
	points, err := h.taskService.CompleteTask(r.Context(), req.WalletAddress, req.TaskID, req.ProofData)
	if err != nil {
		if err == services.ErrTaskNotFound {
			respondError(w, http.StatusNotFound, "task not found")
			return
		}
		if err == services.ErrTaskInactive {
			respondError(w, http.StatusBadRequest, "task is not active")
			return
		}
		if err == services.ErrTaskAlreadyCompleted {
			respondError(w, http.StatusConflict, "task already completed")
			return
		}
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "task already completed")
			return
		}
		respondError(w, http.StatusInternalServerError, "task completion failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"walletAddress": req.WalletAddress,
		"taskId":        req.TaskID,
		"pointsAwarded": points,
	})
}
