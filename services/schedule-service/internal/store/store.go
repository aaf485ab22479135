// Package store holds the authoritative in-memory appointment collection for
// the running session. Every mutation goes through a resolver- or
// generator-approved write set; there is no other path that adds, changes, or
// removes a record.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/recurrence"
)

var ErrNotFound = errors.New("appointment not found")

// Persister is the external persistence collaborator. Each call covers one
// whole write or delete set and is treated as atomic: on error nothing is
// considered applied. The store does not retry.
type Persister interface {
	// Persist upserts the records, assigning ids to records that have none,
	// and returns them with ids filled in. event names the lifecycle event
	// the batch represents.
	Persist(ctx context.Context, records []model.Appointment, event string) ([]model.Appointment, error)
	// Remove deletes the records with the given ids.
	Remove(ctx context.Context, ids []string, event string) error
}

// Lifecycle event names, one Kafka topic each.
const (
	EventBooked      = "schedule.appointment.booked.v1"
	EventRescheduled = "schedule.appointment.rescheduled.v1"
	EventCancelled   = "schedule.appointment.cancelled.v1"
)

type Store struct {
	mu        sync.Mutex
	byID      map[string]model.Appointment
	persister Persister
	horizon   int
}

func New(p Persister, horizon int) *Store {
	return &Store{
		byID:      map[string]model.Appointment{},
		persister: p,
		horizon:   horizon,
	}
}

// Load seeds the session collection, replacing any previous contents. Called
// once at startup with the persisted state.
func (s *Store) Load(records []model.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]model.Appointment, len(records))
	for _, r := range records {
		s.byID[r.ID] = r
	}
}

// Create validates the draft and writes either a single record or, when
// recurring, the generated weekly series. The local collection is updated
// only after the collaborator confirms the whole batch.
func (s *Store) Create(ctx context.Context, draft model.Appointment, recurring bool) ([]model.Appointment, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	draft.ID = ""
	draft.SeriesID = ""

	writeSet := []model.Appointment{draft}
	if recurring {
		writeSet = recurrence.GenerateSeries(draft, recurrence.SeriesOptions{Horizon: s.horizon})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	persisted, err := s.persister.Persist(ctx, writeSet, EventBooked)
	if err != nil {
		return nil, fmt.Errorf("persist appointments: %w", err)
	}
	s.commit(persisted)
	return persisted, nil
}

// Update resolves the write set for editing the target and applies it as one
// batch. scope is required iff the target belongs to a series.
func (s *Store) Update(ctx context.Context, id string, ch recurrence.Changes, scope *recurrence.EditScope) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	writeSet, err := recurrence.ResolveEdit(s.snapshotLocked(), target, scope, ch)
	if err != nil {
		return nil, err
	}
	for _, r := range writeSet {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}

	persisted, err := s.persister.Persist(ctx, writeSet, EventRescheduled)
	if err != nil {
		return nil, fmt.Errorf("persist appointments: %w", err)
	}
	s.commit(persisted)
	return persisted, nil
}

// Delete resolves the delete set for the target and removes it as one batch,
// returning the removed ids. scope is required iff the target belongs to a
// series.
func (s *Store) Delete(ctx context.Context, id string, scope *recurrence.DeleteScope) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	ids, err := recurrence.ResolveDelete(s.snapshotLocked(), target, scope)
	if err != nil {
		return nil, err
	}

	if err := s.persister.Remove(ctx, ids, EventCancelled); err != nil {
		return nil, fmt.Errorf("remove appointments: %w", err)
	}
	for _, removed := range ids {
		delete(s.byID, removed)
	}
	return ids, nil
}

// Get returns one record by id.
func (s *Store) Get(id string) (model.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	return r, ok
}

// Day returns the appointments on one date, ordered by start time.
func (s *Store) Day(date civil.Date) []model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Appointment
	for _, r := range s.byID {
		if r.Date == date {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out
}

// Snapshot returns every record, ordered by date then time. The slice is a
// copy; callers may not mutate store state through it.
func (s *Store) Snapshot() []model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []model.Appointment {
	out := make([]model.Appointment, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	sortRecords(out)
	return out
}

func (s *Store) commit(records []model.Appointment) {
	for _, r := range records {
		s.byID[r.ID] = r
	}
}

func sortRecords(records []model.Appointment) {
	sort.Slice(records, func(i, j int) bool {
		if c := records[i].Date.Compare(records[j].Date); c != 0 {
			return c < 0
		}
		if records[i].Time != records[j].Time {
			return records[i].Time < records[j].Time
		}
		return records[i].ID < records[j].ID
	})
}
