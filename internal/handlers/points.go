package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"stellforge/internal/services"
	"stellforge/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type mintRequest struct {
	WalletAddress   string `json:"walletAddress"`
	XlmAmount       string `json:"xlmAmount"`
	TransactionHash string `json:"transactionHash"`
}

func (h *Handler) Mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateAddress(req.WalletAddress); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	if err := validator.ValidateTransactionHash(req.TransactionHash); err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction hash")
		return
	}
	amount, err := validator.ParseAmount(req.XlmAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	points, err := h.mintService.MintPoints(r.Context(), req.WalletAddress, amount, req.TransactionHash)
	if err != nil {
		if err == services.ErrInvalidAmount {
			respondError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		if err == services.ErrMintingDisabled {
			respondError(w, http.StatusForbidden, "minting is currently disabled")
			return
		}
		if err == services.ErrDuplicateTransaction {
			respondError(w, http.StatusConflict, "transaction hash already processed")
			return
		}
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "transaction hash already processed")
			return
		}
		respondError(w, http.StatusInternalServerError, "mint failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"walletAddress":   req.WalletAddress,
		"pointsMinted":    points,
		"transactionHash": req.TransactionHash,
	})
}

type claimBonusRequest struct {
	WalletAddress string `json:"walletAddress"`
}

func (h *Handler) ClaimBonus(w http.ResponseWriter, r *http.Request) {
	var req claimBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateAddress(req.WalletAddress); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	awarded, points, err := h.mintService.AwardInitialBonus(r.Context(), req.WalletAddress)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "bonus claim failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"walletAddress": req.WalletAddress,
		"awarded":       awarded,
		"pointsAwarded": points,
	})
}

type platformRewardRequest struct {
	WalletAddress   string `json:"walletAddress"`
	XlmSpent        string `json:"xlmSpent"`
	TransactionHash string `json:"transactionHash"`
	TransactionType string `json:"transactionType"`
}

func (h *Handler) PlatformReward(w http.ResponseWriter, r *http.Request) {
	var req platformRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateAddress(req.WalletAddress); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	if err := validator.ValidateTransactionHash(req.TransactionHash); err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction hash")
		return
	}
	if req.TransactionType == "" {
		respondError(w, http.StatusBadRequest, "transactionType is required")
		return
	}
	amount, err := validator.ParseAmount(req.XlmSpent)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	points, err := h.mintService.RecordPlatformReward(r.Context(), req.WalletAddress, amount, req.TransactionHash, req.TransactionType)
	if err != nil {
		if err == services.ErrInvalidAmount {
			respondError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		if err == services.ErrDuplicateTransaction {
			respondError(w, http.StatusConflict, "transaction hash already processed")
			return
		}
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "transaction hash already processed")
			return
		}
		respondError(w, http.StatusInternalServerError, "platform reward failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"walletAddress": req.WalletAddress,
		"pointsAwarded": points,
	})
}

type balanceResponse struct {
	WalletAddress        string          `json:"walletAddress"`
	StarPoints           decimal.Decimal `json:"starPoints"`
	PointsFromMinting    decimal.Decimal `json:"pointsFromMinting"`
	PointsFromPlatform   decimal.Decimal `json:"pointsFromPlatform"`
	PointsFromReferrals  decimal.Decimal `json:"pointsFromReferrals"`
	PointsFromTasks      decimal.Decimal `json:"pointsFromTasks"`
	InitialBonusReceived bool            `json:"initialBonusReceived"`
}

// GetBalance returns an all-zero balance for wallets that have never been
// seen. Reads never create rows.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "walletAddress")
	if err := validator.ValidateAddress(address); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	balance, err := h.balances.GetByAddress(r.Context(), address)
	if err != nil {
		if err == sql.ErrNoRows {
			respondJSON(w, http.StatusOK, balanceResponse{WalletAddress: address})
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load balance")
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{
		WalletAddress:        balance.WalletAddress,
		StarPoints:           balance.StarPoints,
		PointsFromMinting:    balance.PointsFromMinting,
		PointsFromPlatform:   balance.PointsFromPlatform,
		PointsFromReferrals:  balance.PointsFromReferrals,
		PointsFromTasks:      balance.PointsFromTasks,
		InitialBonusReceived: balance.InitialBonusReceived,
	})
}

type statsResponse struct {
	TotalUsers            int             `json:"totalUsers"`
	UsersWithInitialBonus int             `json:"usersWithInitialBonus"`
	TotalStarDistributed  decimal.Decimal `json:"totalStarDistributed"`
	TotalXlmReceived      decimal.Decimal `json:"totalXlmReceived"`
	TotalStarMinted       decimal.Decimal `json:"totalStarMinted"`
	TotalSupply           decimal.Decimal `json:"totalSupply"`
	MintingActive         bool            `json:"mintingActive"`
	TreasuryWalletAddress *string         `json:"treasuryWalletAddress"`
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	var resp statsResponse
	stats, err := h.stats.Get(r.Context())
	if err != nil && err != sql.ErrNoRows {
		respondError(w, http.StatusInternalServerError, "unable to load stats")
		return
	}
	if err == nil {
		resp.TotalUsers = stats.TotalUsers
		resp.UsersWithInitialBonus = stats.UsersWithInitialBonus
		resp.TotalStarDistributed = stats.TotalStarDistributed
	}
	settings, err := h.mints.GetSettings(r.Context())
	if err != nil && err != sql.ErrNoRows {
		respondError(w, http.StatusInternalServerError, "unable to load stats")
		return
	}
	if err == nil {
		resp.TotalXlmReceived = settings.TotalXlmReceived
		resp.TotalStarMinted = settings.TotalStarMinted
		resp.TotalSupply = settings.TotalSupply
		resp.MintingActive = settings.MintingActive
		resp.TreasuryWalletAddress = settings.TreasuryWalletAddress
	}
	respondJSON(w, http.StatusOK, resp)
}

type mintHistoryItem struct {
	ID              string          `json:"id"`
	XlmAmount       decimal.Decimal `json:"xlmAmount"`
	PointsAwarded   decimal.Decimal `json:"pointsAwarded"`
	TransactionHash string          `json:"transactionHash"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (h *Handler) ListMints(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "walletAddress")
	if err := validator.ValidateAddress(address); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	mints, err := h.mints.ListMintsByWallet(r.Context(), address)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load mint history")
		return
	}
	items := make([]mintHistoryItem, 0, len(mints))
	for _, m := range mints {
		items = append(items, mintHistoryItem{
			ID:              m.ID,
			XlmAmount:       m.XlmAmount,
			PointsAwarded:   m.PointsAwarded,
			TransactionHash: m.TransactionHash,
			Status:          m.Status,
			CreatedAt:       m.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"walletAddress": address,
		"mints":         items,
	})
}
