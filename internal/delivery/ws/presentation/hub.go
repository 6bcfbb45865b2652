package ws_presentation

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Hub keeps track of the websocket clients of every presentation.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]bool),
		logger:  logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.presentationID]; !ok {
		h.clients[client.presentationID] = make(map[*Client]bool)
	}
	h.clients[client.presentationID][client] = true

	h.logger.Info("client registered",
		"presentation", client.presentationID,
		"presenter", client.presenter)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.presentationID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.presentationID)
		}
	}
	h.logger.Info("client unregistered", "presentation", client.presentationID)
}

func (h *Hub) Clients(presentationID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[presentationID])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	all := make([]*Client, 0)
	for _, clients := range h.clients {
		for c := range clients {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range all {
		c.close()
	}
}
