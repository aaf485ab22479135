package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
)

// ClientDirectory is the read side of the clients table used for autofill.
type ClientDirectory interface {
	Search(ctx context.Context, fragment string, limit int) ([]model.Client, error)
}

type ClientHandler struct {
	directory ClientDirectory
	logger    *slog.Logger
}

func NewClientHandler(directory ClientDirectory, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{directory: directory, logger: logger}
}

type clientItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	VIP   bool   `json:"vip"`
}

// Search serves /v1/clients?q=. An empty query returns an empty list rather
// than the full directory.
func (h *ClientHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []clientItem{})
		return
	}

	clients, err := h.directory.Search(r.Context(), q, 5)
	if err != nil {
		h.logger.Error("client search failed", "err", err)
		http.Error(w, "failed to search clients", http.StatusInternalServerError)
		return
	}

	items := make([]clientItem, 0, len(clients))
	for _, c := range clients {
		items = append(items, clientItem{ID: c.ID, Name: c.Name, Phone: c.Phone, VIP: c.VIP})
	}
	writeJSON(w, http.StatusOK, items)
}
