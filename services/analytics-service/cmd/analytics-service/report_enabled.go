//go:build protogen

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/agendaluz/agendaluz/libs/config"
	"github.com/agendaluz/agendaluz/services/analytics-service/internal/report"
)

func setupReportRoutes(ctx context.Context, mux *http.ServeMux, logger *slog.Logger) {
	addr := config.String("SCHEDULE_GRPC_ADDR", "schedule-service:9090")
	client, err := report.NewClient(addr)
	if err != nil {
		logger.Error("report client init failed", "err", err)
		return
	}

	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	mux.HandleFunc("/debug/revenue", func(w http.ResponseWriter, r *http.Request) {
		granularity := r.URL.Query().Get("granularity")
		date := r.URL.Query().Get("date")
		if granularity == "" || date == "" {
			http.Error(w, "granularity and date are required", http.StatusBadRequest)
			return
		}

		reqCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp, err := client.GetRevenueReport(reqCtx, granularity, date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}
