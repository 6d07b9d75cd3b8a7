package handlers

import (
	"net/http"

	"stellforge/internal/validator"
	"stellforge/internal/websocket"
)

// WSPoints subscribes the caller to live balance updates for one wallet.
func (h *Handler) WSPoints(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("wallet")
	if err := validator.ValidateAddress(address); err != nil {
		respondError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	websocket.ServeWS(w, r, h.hub, address)
}
