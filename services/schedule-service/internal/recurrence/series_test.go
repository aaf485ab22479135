package recurrence

import (
	"testing"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
)

func template(date string) model.Appointment {
	return model.Appointment{
		Date:          civil.MustParse(date),
		Time:          "10:00",
		ClientName:    "Carla Lima",
		Service:       "Sobrancelha",
		PriceCents:    3000,
		Status:        model.StatusConfirmed,
		PaymentMethod: model.PaymentPix,
	}
}

func TestGenerateSeries_WeeklyDates(t *testing.T) {
	occ := GenerateSeries(template("2024-01-01"), SeriesOptions{Horizon: 3})
	if len(occ) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occ))
	}

	wantDates := []string{"2024-01-01", "2024-01-08", "2024-01-15"}
	seriesID := occ[0].SeriesID
	if seriesID == "" {
		t.Fatal("expected a series id")
	}
	for i, o := range occ {
		if o.Date.String() != wantDates[i] {
			t.Fatalf("occurrence %d: expected date %s, got %s", i, wantDates[i], o.Date)
		}
		if o.SeriesID != seriesID {
			t.Fatalf("occurrence %d: series id %q differs from %q", i, o.SeriesID, seriesID)
		}
		if o.Time != "10:00" || o.ClientName != "Carla Lima" || o.Service != "Sobrancelha" ||
			o.PriceCents != 3000 || o.Status != model.StatusConfirmed || o.PaymentMethod != model.PaymentPix {
			t.Fatalf("occurrence %d: template fields not inherited: %+v", i, o)
		}
	}
}

func TestGenerateSeries_DefaultHorizon(t *testing.T) {
	occ := GenerateSeries(template("2024-01-01"), SeriesOptions{})
	if len(occ) != DefaultHorizon {
		t.Fatalf("expected %d occurrences, got %d", DefaultHorizon, len(occ))
	}
	last := occ[len(occ)-1]
	if want := civil.MustParse("2024-01-01").AddDays(7 * (DefaultHorizon - 1)); last.Date != want {
		t.Fatalf("expected last date %s, got %s", want, last.Date)
	}
}

func TestGenerateSeries_HorizonOneCollapsesToStandalone(t *testing.T) {
	occ := GenerateSeries(template("2024-01-01"), SeriesOptions{Horizon: 1})
	if len(occ) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occ))
	}
	if occ[0].SeriesID != "" {
		t.Fatalf("series of one must be standalone, got series id %q", occ[0].SeriesID)
	}
}

func TestGenerateSeries_FreshSeriesIDPerCall(t *testing.T) {
	a := GenerateSeries(template("2024-01-01"), SeriesOptions{Horizon: 2})
	b := GenerateSeries(template("2024-01-01"), SeriesOptions{Horizon: 2})
	if a[0].SeriesID == b[0].SeriesID {
		t.Fatal("two generations must not share a series id")
	}
}

func TestGenerateSeries_CrossesMonthBoundary(t *testing.T) {
	occ := GenerateSeries(template("2024-02-26"), SeriesOptions{Horizon: 2})
	if occ[1].Date.String() != "2024-03-04" {
		t.Fatalf("expected 2024-03-04, got %s", occ[1].Date)
	}
}
