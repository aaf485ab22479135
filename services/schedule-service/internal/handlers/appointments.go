package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/recurrence"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/store"
)

type AppointmentHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewAppointmentHandler(store *store.Store, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{store: store, logger: logger}
}

type appointmentItem struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	ClientName    string `json:"client_name"`
	Service       string `json:"service"`
	PriceCents    int64  `json:"price_cents"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	SeriesID      string `json:"series_id,omitempty"`
}

type createAppointmentRequest struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	ClientName    string `json:"client_name"`
	Service       string `json:"service"`
	PriceCents    int64  `json:"price_cents"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	Recurring     bool   `json:"recurring"`
}

type updateAppointmentRequest struct {
	Scope         string `json:"scope"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	ClientName    string `json:"client_name"`
	Service       string `json:"service"`
	PriceCents    int64  `json:"price_cents"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
}

type deleteAppointmentResponse struct {
	DeletedIDs []string `json:"deleted_ids"`
}

// Collection serves /v1/appointments: POST creates (optionally a weekly
// series), GET lists one day's appointments ordered by time.
func (h *AppointmentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.listDay(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item serves /v1/appointments/{id}: PUT edits, DELETE removes. Scope for
// series members comes from the request body (PUT) or the scope query
// parameter (DELETE).
func (h *AppointmentHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/appointments/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "appointment id required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AppointmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	draft, ok := h.draftFromRequest(w, req)
	if !ok {
		return
	}

	created, err := h.store.Create(r.Context(), draft, req.Recurring)
	if err != nil {
		h.writeStoreError(w, err, "create appointment failed")
		return
	}

	writeJSON(w, http.StatusCreated, itemsFromRecords(created))
}

func (h *AppointmentHandler) listDay(w http.ResponseWriter, r *http.Request) {
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}
	date, err := civil.ParseDate(dateStr)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, itemsFromRecords(h.store.Day(date)))
}

func (h *AppointmentHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	var scope *recurrence.EditScope
	if s := strings.TrimSpace(req.Scope); s != "" {
		parsed, err := recurrence.ParseEditScope(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scope = &parsed
	}

	ch := recurrence.Changes{
		Time:          strings.TrimSpace(req.Time),
		ClientName:    strings.TrimSpace(req.ClientName),
		Service:       strings.TrimSpace(req.Service),
		PriceCents:    req.PriceCents,
		Status:        model.Status(req.Status),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	}
	if dateStr := strings.TrimSpace(req.Date); dateStr != "" {
		date, err := civil.ParseDate(dateStr)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		ch.Date = date
	}

	updated, err := h.store.Update(r.Context(), id, ch, scope)
	if err != nil {
		h.writeStoreError(w, err, "update appointment failed")
		return
	}

	writeJSON(w, http.StatusOK, itemsFromRecords(updated))
}

func (h *AppointmentHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	var scope *recurrence.DeleteScope
	if s := strings.TrimSpace(r.URL.Query().Get("scope")); s != "" {
		parsed, err := recurrence.ParseDeleteScope(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scope = &parsed
	}

	deleted, err := h.store.Delete(r.Context(), id, scope)
	if err != nil {
		h.writeStoreError(w, err, "delete appointment failed")
		return
	}

	writeJSON(w, http.StatusOK, deleteAppointmentResponse{DeletedIDs: deleted})
}

func (h *AppointmentHandler) draftFromRequest(w http.ResponseWriter, req createAppointmentRequest) (model.Appointment, bool) {
	draft := model.Appointment{
		Time:          strings.TrimSpace(req.Time),
		ClientName:    strings.TrimSpace(req.ClientName),
		Service:       strings.TrimSpace(req.Service),
		PriceCents:    req.PriceCents,
		Status:        model.Status(req.Status),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	}
	if dateStr := strings.TrimSpace(req.Date); dateStr != "" {
		date, err := civil.ParseDate(dateStr)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return model.Appointment{}, false
		}
		draft.Date = date
	}
	return draft, true
}

func (h *AppointmentHandler) writeStoreError(w http.ResponseWriter, err error, msg string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, recurrence.ErrScopeRequired):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	default:
		h.logger.Error(msg, "err", err)
		http.Error(w, "persistence failure", http.StatusInternalServerError)
	}
}

func itemsFromRecords(records []model.Appointment) []appointmentItem {
	items := make([]appointmentItem, 0, len(records))
	for _, rec := range records {
		items = append(items, appointmentItem{
			ID:            rec.ID,
			Date:          rec.Date.String(),
			Time:          rec.Time,
			ClientName:    rec.ClientName,
			Service:       rec.Service,
			PriceCents:    rec.PriceCents,
			Status:        string(rec.Status),
			PaymentMethod: string(rec.PaymentMethod),
			SeriesID:      rec.SeriesID,
		})
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
