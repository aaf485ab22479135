package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/calendar"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
)

type CalendarHandler struct {
	logger *slog.Logger
}

func NewCalendarHandler(logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{logger: logger}
}

type weekResponse struct {
	Monday string   `json:"monday"`
	Days   []string `json:"days"`
}

// Week serves /v1/calendar/week. The reference date defaults to today and
// shift moves the window by whole weeks in either direction.
func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
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

	if raw := strings.TrimSpace(r.URL.Query().Get("shift")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid shift", http.StatusBadRequest)
			return
		}
		ref = calendar.ShiftWeek(ref, n)
	}

	week := calendar.WeekOf(ref)
	days := make([]string, 0, len(week))
	for _, d := range week {
		days = append(days, d.String())
	}

	writeJSON(w, http.StatusOK, weekResponse{Monday: days[0], Days: days})
}
