package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/recurrence"
)

// fakePersister assigns sequential ids and can be told to fail.
type fakePersister struct {
	nextID    int
	fail      bool
	persisted [][]model.Appointment
	removed   [][]string
	events    []string
}

func (f *fakePersister) Persist(_ context.Context, records []model.Appointment, event string) ([]model.Appointment, error) {
	if f.fail {
		return nil, errors.New("backend unavailable")
	}
	out := make([]model.Appointment, len(records))
	for i, r := range records {
		if r.ID == "" {
			f.nextID++
			r.ID = fmt.Sprintf("id-%d", f.nextID)
		}
		out[i] = r
	}
	f.persisted = append(f.persisted, out)
	f.events = append(f.events, event)
	return out, nil
}

func (f *fakePersister) Remove(_ context.Context, ids []string, event string) error {
	if f.fail {
		return errors.New("backend unavailable")
	}
	f.removed = append(f.removed, ids)
	f.events = append(f.events, event)
	return nil
}

func draft(date string) model.Appointment {
	return model.Appointment{
		Date:          civil.MustParse(date),
		Time:          "10:00",
		ClientName:    "Ana Souza",
		Service:       "Manicure",
		PriceCents:    4500,
		Status:        model.StatusPending,
		PaymentMethod: model.PaymentCash,
	}
}

func TestCreate_Single(t *testing.T) {
	p := &fakePersister{}
	s := New(p, 12)

	created, err := s.Create(context.Background(), draft("2024-01-05"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 record, got %d", len(created))
	}
	if created[0].ID == "" {
		t.Fatal("expected assigned id")
	}
	if created[0].SeriesID != "" {
		t.Fatal("standalone creation must not carry a series id")
	}
	if got, ok := s.Get(created[0].ID); !ok || got != created[0] {
		t.Fatalf("record not committed to store: %+v ok=%v", got, ok)
	}
	if p.events[0] != EventBooked {
		t.Fatalf("expected booked event, got %s", p.events[0])
	}
}

func TestCreate_RecurringMaterializesSeries(t *testing.T) {
	p := &fakePersister{}
	s := New(p, 3)

	created, err := s.Create(context.Background(), draft("2024-01-01"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(created))
	}
	if len(p.persisted) != 1 || len(p.persisted[0]) != 3 {
		t.Fatal("series must be persisted as one batch")
	}
	for i, r := range created {
		if r.SeriesID != created[0].SeriesID {
			t.Fatalf("occurrence %d has different series id", i)
		}
		want := civil.MustParse("2024-01-01").AddDays(7 * i)
		if r.Date != want {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want, r.Date)
		}
	}
	if len(s.Snapshot()) != 3 {
		t.Fatalf("expected 3 records in store, got %d", len(s.Snapshot()))
	}
}

func TestCreate_ValidationBlocksBeforePersist(t *testing.T) {
	p := &fakePersister{}
	s := New(p, 12)

	bad := draft("2024-01-05")
	bad.ClientName = ""
	_, err := s.Create(context.Background(), bad, false)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(p.persisted) != 0 {
		t.Fatal("validation failures must never reach the collaborator")
	}
}

func TestCreate_PersistFailureLeavesStoreUntouched(t *testing.T) {
	p := &fakePersister{fail: true}
	s := New(p, 12)

	_, err := s.Create(context.Background(), draft("2024-01-05"), true)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(s.Snapshot()) != 0 {
		t.Fatal("failed persistence must not leave optimistic local state")
	}
}

func seeded(t *testing.T, p *fakePersister) *Store {
	t.Helper()
	s := New(p, 3)
	created, err := s.Create(context.Background(), draft("2024-01-01"), true)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("seed: expected 3, got %d", len(created))
	}
	return s
}

func TestUpdate_FutureScope(t *testing.T) {
	p := &fakePersister{}
	s := seeded(t, p)
	snap := s.Snapshot() // ordered by date: day1, day8, day15
	middle := snap[1]

	scope := recurrence.EditFuture
	ch := recurrence.Changes{
		Time:          "16:00",
		ClientName:    middle.ClientName,
		Service:       "Pé e Mão",
		PriceCents:    6000,
		Status:        model.StatusConfirmed,
		PaymentMethod: model.PaymentPix,
	}
	updated, err := s.Update(context.Background(), middle.ID, ch, &scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("expected 2 updated records, got %d", len(updated))
	}

	after := s.Snapshot()
	if after[0].Service != "Manicure" {
		t.Fatal("earlier occurrence must be unchanged")
	}
	for _, r := range after[1:] {
		if r.Service != "Pé e Mão" || r.Time != "16:00" || r.PriceCents != 6000 {
			t.Fatalf("future occurrence not updated: %+v", r)
		}
	}
	if after[1].Date.String() != "2024-01-08" || after[2].Date.String() != "2024-01-15" {
		t.Fatal("future edit must not move occurrence dates")
	}
}

func TestUpdate_SeriesMemberWithoutScope(t *testing.T) {
	p := &fakePersister{}
	s := seeded(t, p)
	id := s.Snapshot()[0].ID

	_, err := s.Update(context.Background(), id, recurrence.Changes{}, nil)
	if !errors.Is(err, recurrence.ErrScopeRequired) {
		t.Fatalf("expected ErrScopeRequired, got %v", err)
	}
}

func TestUpdate_PersistFailureRollsNothingIn(t *testing.T) {
	p := &fakePersister{}
	s := seeded(t, p)
	snap := s.Snapshot()
	p.fail = true

	scope := recurrence.EditSingle
	ch := recurrence.Changes{
		Time: "16:00", ClientName: "Ana Souza", Service: "Manicure",
		PriceCents: 1, Status: model.StatusPending, PaymentMethod: model.PaymentCash,
	}
	if _, err := s.Update(context.Background(), snap[0].ID, ch, &scope); err == nil {
		t.Fatal("expected error")
	}
	if got, _ := s.Get(snap[0].ID); got != snap[0] {
		t.Fatal("failed update must leave the record untouched")
	}
}

func TestDelete_Scopes(t *testing.T) {
	p := &fakePersister{}
	s := seeded(t, p)
	snap := s.Snapshot()

	// single: only the middle occurrence goes.
	scope := recurrence.DeleteSingle
	ids, err := s.Delete(context.Background(), snap[1].ID, &scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != snap[1].ID {
		t.Fatalf("expected only %s deleted, got %v", snap[1].ID, ids)
	}
	if len(s.Snapshot()) != 2 {
		t.Fatalf("expected 2 remaining, got %d", len(s.Snapshot()))
	}

	// series: everything left in the series goes.
	all := recurrence.DeleteSeries
	ids, err = s.Delete(context.Background(), snap[0].ID, &all)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 deleted, got %v", ids)
	}
	if len(s.Snapshot()) != 0 {
		t.Fatal("expected empty store")
	}
	if p.events[len(p.events)-1] != EventCancelled {
		t.Fatal("expected cancelled event")
	}
}

func TestDelete_StandaloneNeedsNoScope(t *testing.T) {
	p := &fakePersister{}
	s := New(p, 12)
	created, err := s.Create(context.Background(), draft("2024-02-02"), false)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	ids, err := s.Delete(context.Background(), created[0].ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != created[0].ID {
		t.Fatalf("expected exactly the standalone record, got %v", ids)
	}
}

func TestDelete_NotFound(t *testing.T) {
	s := New(&fakePersister{}, 12)
	if _, err := s.Delete(context.Background(), "missing", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
