package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
)

type fakeDirectory struct {
	clients []model.Client
	fail    bool
	gotQ    string
	gotLim  int
}

func (f *fakeDirectory) Search(_ context.Context, fragment string, limit int) ([]model.Client, error) {
	f.gotQ = fragment
	f.gotLim = limit
	if f.fail {
		return nil, errors.New("backend unavailable")
	}
	var out []model.Client
	for _, c := range f.clients {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(fragment)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestClientSearch(t *testing.T) {
	dir := &fakeDirectory{clients: []model.Client{
		{ID: "c1", Name: "Ana Souza", Phone: "+55 11 98765-4321", VIP: true},
		{ID: "c2", Name: "Beatriz Lima"},
	}}
	h := NewClientHandler(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/v1/clients?q=ana", nil)
	rw := httptest.NewRecorder()
	h.Search(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	var items []clientItem
	if err := json.Unmarshal(rw.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 || items[0].ID != "c1" {
		t.Fatalf("expected only Ana, got %+v", items)
	}
	if !items[0].VIP {
		t.Fatal("expected vip flag preserved")
	}
	if dir.gotLim != 5 {
		t.Fatalf("expected limit 5, got %d", dir.gotLim)
	}
}

func TestClientSearchEmptyQuery(t *testing.T) {
	dir := &fakeDirectory{}
	h := NewClientHandler(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	rw := httptest.NewRecorder()
	h.Search(rw, req)

	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	if body := strings.TrimSpace(rw.Body.String()); body != "[]" {
		t.Fatalf("expected empty list, got %q", body)
	}
	if dir.gotQ != "" {
		t.Fatal("directory must not be queried for an empty q")
	}
}

func TestClientSearchBackendFailure(t *testing.T) {
	h := NewClientHandler(&fakeDirectory{fail: true}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/v1/clients?q=ana", nil)
	rw := httptest.NewRecorder()
	h.Search(rw, req)

	if rw.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rw.Code)
	}
}
