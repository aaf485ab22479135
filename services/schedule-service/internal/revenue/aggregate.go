// Package revenue aggregates appointment prices into reporting buckets.
//
// Aggregation is a grouped sum: order-independent and associative. A record
// is counted in exactly one bucket of its granularity, so monthly bucket
// sums reconcile with the matching yearly bucket and with a direct
// filter-and-sum.
package revenue

import (
	"fmt"
	"strconv"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
)

type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Daily, Monthly, Yearly:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("unknown granularity %q (want daily, monthly, or yearly)", s)
	}
}

// Bucket is one aggregation slot with its summed total.
type Bucket struct {
	Label      string `json:"label"`
	TotalCents int64  `json:"total_cents"`
}

// The working-day hour grid of the daily view: two-hour slots from 08:00
// through 20:00.
const (
	dayFirstHour = 8
	dayLastHour  = 20
	dayHourStep  = 2
)

// Aggregate groups records into ordered, zero-filled buckets.
//
//	daily:   the two-hour slots of ref's date (08:00..20:00)
//	monthly: one bucket per calendar day of ref's month
//	yearly:  one bucket per month of ref's year
func Aggregate(records []model.Appointment, g Granularity, ref civil.Date) ([]Bucket, error) {
	switch g {
	case Daily:
		return aggregateDaily(records, ref), nil
	case Monthly:
		return aggregateMonthly(records, ref), nil
	case Yearly:
		return aggregateYearly(records, ref), nil
	default:
		return nil, fmt.Errorf("unknown granularity %q", g)
	}
}

func aggregateDaily(records []model.Appointment, ref civil.Date) []Bucket {
	n := (dayLastHour-dayFirstHour)/dayHourStep + 1
	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i].Label = fmt.Sprintf("%02d:00", dayFirstHour+i*dayHourStep)
	}

	for _, r := range records {
		if r.Date != ref {
			continue
		}
		hour, _, err := model.ParseClock(r.Time)
		if err != nil {
			continue
		}
		// Clamp to the grid so an early or late booking still counts toward
		// the day's total instead of vanishing.
		i := (hour - dayFirstHour) / dayHourStep
		if i < 0 {
			i = 0
		}
		if i >= n {
			i = n - 1
		}
		buckets[i].TotalCents += r.PriceCents
	}
	return buckets
}

func aggregateMonthly(records []model.Appointment, ref civil.Date) []Bucket {
	days := civil.DaysInMonth(ref.Year, ref.Month)
	buckets := make([]Bucket, days)
	for i := range buckets {
		buckets[i].Label = strconv.Itoa(i + 1)
	}

	for _, r := range records {
		if r.Date.Year != ref.Year || r.Date.Month != ref.Month {
			continue
		}
		buckets[r.Date.Day-1].TotalCents += r.PriceCents
	}
	return buckets
}

func aggregateYearly(records []model.Appointment, ref civil.Date) []Bucket {
	buckets := make([]Bucket, 12)
	for i := range buckets {
		buckets[i].Label = fmt.Sprintf("%02d", i+1)
	}

	for _, r := range records {
		if r.Date.Year != ref.Year {
			continue
		}
		buckets[int(r.Date.Month)-1].TotalCents += r.PriceCents
	}
	return buckets
}
