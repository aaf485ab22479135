package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/revenue"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/store"
)

type RevenueHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewRevenueHandler(store *store.Store, logger *slog.Logger) *RevenueHandler {
	return &RevenueHandler{store: store, logger: logger}
}

type revenueResponse struct {
	Granularity string           `json:"granularity"`
	Reference   string           `json:"reference"`
	Buckets     []revenue.Bucket `json:"buckets"`
	TotalCents  int64            `json:"total_cents"`
}

// Report serves /v1/revenue. Granularity selects the bucket grid; the
// reference date picks the day, month, or year being reported.
func (h *RevenueHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	g, err := revenue.ParseGranularity(strings.TrimSpace(r.URL.Query().Get("granularity")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ref := civil.Today(time.UTC)
	if dateStr := strings.TrimSpace(r.URL.Query().Get("date")); dateStr != "" {
		parsed, err := civil.ParseDate(dateStr)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		ref = parsed
	}

	buckets, err := revenue.Aggregate(h.store.Snapshot(), g, ref)
	if err != nil {
		h.logger.Error("revenue aggregation failed", "err", err)
		http.Error(w, "failed to aggregate revenue", http.StatusInternalServerError)
		return
	}

	var total int64
	for _, b := range buckets {
		total += b.TotalCents
	}

	writeJSON(w, http.StatusOK, revenueResponse{
		Granularity: string(g),
		Reference:   ref.String(),
		Buckets:     buckets,
		TotalCents:  total,
	})
}
