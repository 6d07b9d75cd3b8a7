package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stellforge/internal/middleware"
	"stellforge/internal/services"
	"stellforge/internal/store"
	"stellforge/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

func (h *Handler) GetReferralLink(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "walletAddress")
	if err := validator.ValidateAddress(address); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	link, err := h.referralService.GetOrCreateLink(r.Context(), address)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load referral link")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"walletAddress":       link.WalletAddress,
		"referralCode":        link.ReferralCode,
		"referralUrl":         fmt.Sprintf("%s/?ref=%s", h.cfg.FrontendURL, link.ReferralCode),
		"totalReferrals":      link.TotalReferrals,
		"successfulReferrals": link.SuccessfulReferrals,
	})
}

type claimReferralRequest struct {
	ReferralCode  string `json:"referralCode"`
	WalletAddress string `json:"walletAddress"`
}

func (h *Handler) ClaimReferral(w http.ResponseWriter, r *http.Request) {
	var req claimReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateAddress(req.WalletAddress); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	if err := validator.ValidateReferralCode(req.ReferralCode); err != nil {
		respondError(w, http.StatusBadRequest, "invalid referral code")
		return
	}
	sec, _ := middleware.SecurityFromContext(r.Context())
	referrer, points, err := h.referralService.RecordReferral(r.Context(), req.ReferralCode, req.WalletAddress, sec.IP, sec.Fingerprint)
	if err != nil {
		if err == services.ErrInvalidReferralCode {
			respondError(w, http.StatusBadRequest, "invalid referral code")
			return
		}
		if err == services.ErrSelfReferral {
			h.auditReferral(r, req, "self_referral_attempt", true)
			respondError(w, http.StatusBadRequest, "cannot refer yourself")
			return
		}
		if err == services.ErrAlreadyReferred {
			respondError(w, http.StatusConflict, "wallet already referred")
			return
		}
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "wallet already referred")
			return
		}
		respondError(w, http.StatusInternalServerError, "referral claim failed")
		return
	}
	h.auditReferral(r, req, "referral_claimed", false)
	respondJSON(w, http.StatusCreated, map[string]any{
		"referrerAddress": referrer,
		"pointsAwarded":   points,
	})
}

func (h *Handler) auditReferral(r *http.Request, req claimReferralRequest, action string, flagged bool) {
	sec, _ := middleware.SecurityFromContext(r.Context())
	_ = h.audit.Log(r.Context(), store.AuditEntry{
		WalletAddress:     req.WalletAddress,
		IPAddress:         sec.IP,
		DeviceFingerprint: sec.Fingerprint,
		Action:            action,
		Details:           fmt.Sprintf(`{"referralCode":%q}`, req.ReferralCode),
		Flagged:           flagged,
	})
}
