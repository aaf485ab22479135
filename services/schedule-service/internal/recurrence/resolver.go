package recurrence

import (
	"sort"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
)

// Changes is the full replacement field set for an edit. Batch edits have no
// partial field lists: every resolved record receives all of these values.
// ID and series membership are never touched; Date applies to single-record
// edits only (each future occurrence keeps its own date).
type Changes struct {
	Date          civil.Date
	Time          string
	ClientName    string
	Service       string
	PriceCents    int64
	Status        model.Status
	PaymentMethod model.PaymentMethod
}

func (c Changes) apply(a model.Appointment, withDate bool) model.Appointment {
	a.Time = c.Time
	a.ClientName = c.ClientName
	a.Service = c.Service
	a.PriceCents = c.PriceCents
	a.Status = c.Status
	a.PaymentMethod = c.PaymentMethod
	if withDate && !c.Date.IsZero() {
		a.Date = c.Date
	}
	return a
}

// ResolveEdit computes the write set for editing target with the given
// changes. records is the authoritative snapshot the target came from.
//
//	target standalone            -> the target alone (scope ignored)
//	series member, scope nil     -> ErrScopeRequired
//	series member, EditSingle    -> the target alone, membership preserved
//	series member, EditFuture    -> target plus every sibling dated >= target,
//	                                each keeping its own date
func ResolveEdit(records []model.Appointment, target model.Appointment, scope *EditScope, ch Changes) ([]model.Appointment, error) {
	if target.SeriesID == "" {
		return []model.Appointment{ch.apply(target, true)}, nil
	}
	if scope == nil {
		return nil, ErrScopeRequired
	}

	switch *scope {
	case EditSingle:
		return []model.Appointment{ch.apply(target, true)}, nil
	case EditFuture:
		var set []model.Appointment
		for _, r := range records {
			if r.SeriesID != target.SeriesID {
				continue
			}
			if r.Date.Before(target.Date) {
				continue
			}
			set = append(set, ch.apply(r, false))
		}
		sortByDate(set)
		return set, nil
	default:
		return nil, ErrScopeRequired
	}
}

// ResolveDelete computes the delete set (record ids) for deleting target.
//
//	target standalone             -> the target alone (scope ignored)
//	series member, scope nil      -> ErrScopeRequired
//	series member, DeleteSingle   -> the target alone, siblings untouched
//	series member, DeleteSeries   -> every record sharing the series id
func ResolveDelete(records []model.Appointment, target model.Appointment, scope *DeleteScope) ([]string, error) {
	if target.SeriesID == "" {
		return []string{target.ID}, nil
	}
	if scope == nil {
		return nil, ErrScopeRequired
	}

	switch *scope {
	case DeleteSingle:
		return []string{target.ID}, nil
	case DeleteSeries:
		var ids []string
		for _, r := range records {
			if r.SeriesID == target.SeriesID {
				ids = append(ids, r.ID)
			}
		}
		sort.Strings(ids)
		return ids, nil
	default:
		return nil, ErrScopeRequired
	}
}

func sortByDate(records []model.Appointment) {
	sort.Slice(records, func(i, j int) bool {
		if c := records[i].Date.Compare(records[j].Date); c != 0 {
			return c < 0
		}
		return records[i].Time < records[j].Time
	})
}
