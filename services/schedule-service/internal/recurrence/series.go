package recurrence

import (
	"github.com/google/uuid"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
)

// DefaultHorizon bounds how many occurrences a weekly series generates when
// the caller does not configure one. A recurring booking only signals "repeat
// weekly", so the depth is a policy choice; twelve weeks covers a quarter of
// standing appointments without flooding the calendar.
const DefaultHorizon = 12

type SeriesOptions struct {
	// Horizon is the occurrence count, template included. Values below 1 fall
	// back to DefaultHorizon. Generation is always bounded.
	Horizon int
}

// GenerateSeries materializes a weekly series from a template: one occurrence
// per week starting at the template's own date, every field but the date
// inherited, all sharing one freshly minted series id.
//
// A horizon of one collapses to a standalone appointment with no series id: a
// series of one is indistinguishable from a standalone record and is stored
// as one.
//
// Calling this twice for the same user intent creates two distinct series;
// the caller invokes it exactly once per confirmed recurring creation.
func GenerateSeries(template model.Appointment, opts SeriesOptions) []model.Appointment {
	horizon := opts.Horizon
	if horizon < 1 {
		horizon = DefaultHorizon
	}

	if horizon == 1 {
		single := template
		single.SeriesID = ""
		return []model.Appointment{single}
	}

	seriesID := uuid.NewString()
	occurrences := make([]model.Appointment, 0, horizon)
	for i := 0; i < horizon; i++ {
		occ := template
		occ.Date = template.Date.AddDays(7 * i)
		occ.SeriesID = seriesID
		occurrences = append(occurrences, occ)
	}
	return occurrences
}
