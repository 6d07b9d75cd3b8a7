package websocket

import (
	"encoding/json"
	"sync"
)

// PointsUpdate is pushed to every client subscribed to a wallet address
// after a successful point credit.
type PointsUpdate struct {
	WalletAddress string `json:"wallet_address"`
	StarPoints    string `json:"star_points"`
	Source        string `json:"source"`
	Delta         string `json:"delta"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(walletAddress string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[walletAddress] == nil {
		h.clients[walletAddress] = make(map[*Client]struct{})
	}
	h.clients[walletAddress][client] = struct{}{}
}

func (h *Hub) Unregister(walletAddress string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[walletAddress] == nil {
		return
	}
	delete(h.clients[walletAddress], client)
	if len(h.clients[walletAddress]) == 0 {
		delete(h.clients, walletAddress)
	}
}

func (h *Hub) BroadcastPoints(walletAddress string, update PointsUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[walletAddress] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
