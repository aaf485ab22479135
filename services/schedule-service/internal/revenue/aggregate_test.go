package revenue

import (
	"math/rand"
	"testing"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
)

func appt(date, clock string, cents int64) model.Appointment {
	return model.Appointment{
		Date:          civil.MustParse(date),
		Time:          clock,
		ClientName:    "x",
		Service:       "y",
		PriceCents:    cents,
		Status:        model.StatusConfirmed,
		PaymentMethod: model.PaymentCash,
	}
}

func sum(buckets []Bucket) int64 {
	var total int64
	for _, b := range buckets {
		total += b.TotalCents
	}
	return total
}

func TestAggregate_DailyHourGrid(t *testing.T) {
	ref := civil.MustParse("2024-05-10")
	records := []model.Appointment{
		appt("2024-05-10", "08:15", 1000),
		appt("2024-05-10", "09:30", 500),  // clamps into 08:00 slot
		appt("2024-05-10", "14:00", 2500),
		appt("2024-05-10", "21:45", 700),  // clamps into 20:00 slot
		appt("2024-05-10", "06:00", 300),  // clamps into 08:00 slot
		appt("2024-05-11", "14:00", 9999), // other day, excluded
	}

	buckets, err := Aggregate(records, Daily, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 7 {
		t.Fatalf("expected 7 hour buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "08:00" || buckets[6].Label != "20:00" {
		t.Fatalf("unexpected labels: %s .. %s", buckets[0].Label, buckets[6].Label)
	}
	if buckets[0].TotalCents != 1800 {
		t.Fatalf("expected 1800 in 08:00 bucket, got %d", buckets[0].TotalCents)
	}
	if buckets[3].TotalCents != 2500 {
		t.Fatalf("expected 2500 in 14:00 bucket, got %d", buckets[3].TotalCents)
	}
	if buckets[6].TotalCents != 700 {
		t.Fatalf("expected 700 in 20:00 bucket, got %d", buckets[6].TotalCents)
	}
	if sum(buckets) != 5000 {
		t.Fatalf("day total must include every booking of the day, got %d", sum(buckets))
	}
}

func TestAggregate_MonthlyLeapFebruary(t *testing.T) {
	ref := civil.MustParse("2024-02-01")
	records := []model.Appointment{
		appt("2024-02-01", "10:00", 100),
		appt("2024-02-29", "10:00", 200),
		appt("2024-02-29", "15:00", 300),
		appt("2024-03-01", "10:00", 9999),
	}

	buckets, err := Aggregate(records, Monthly, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 29 {
		t.Fatalf("February 2024 must have 29 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "1" || buckets[28].Label != "29" {
		t.Fatalf("unexpected labels: %s .. %s", buckets[0].Label, buckets[28].Label)
	}
	if buckets[28].TotalCents != 500 {
		t.Fatalf("expected 500 on Feb 29, got %d", buckets[28].TotalCents)
	}
	if sum(buckets) != 600 {
		t.Fatalf("expected month total 600, got %d", sum(buckets))
	}
}

func TestAggregate_MonthlyNonLeap(t *testing.T) {
	buckets, err := Aggregate(nil, Monthly, civil.MustParse("2023-02-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 28 {
		t.Fatalf("February 2023 must have 28 buckets, got %d", len(buckets))
	}
	for _, b := range buckets {
		if b.TotalCents != 0 {
			t.Fatalf("empty input must zero-fill, got %+v", b)
		}
	}
}

func TestAggregate_YearlyTwelveMonths(t *testing.T) {
	ref := civil.MustParse("2024-01-01")
	records := []model.Appointment{
		appt("2024-02-10", "10:00", 100),
		appt("2024-02-20", "10:00", 150),
		appt("2024-11-05", "10:00", 400),
		appt("2023-02-10", "10:00", 9999),
	}

	buckets, err := Aggregate(records, Yearly, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(buckets))
	}
	if buckets[1].Label != "02" || buckets[1].TotalCents != 250 {
		t.Fatalf("expected 250 in February, got %+v", buckets[1])
	}
	if buckets[10].TotalCents != 400 {
		t.Fatalf("expected 400 in November, got %+v", buckets[10])
	}
}

func TestAggregate_MonthlyReconcilesWithYearly(t *testing.T) {
	// Random February records: monthly bucket total must equal the yearly
	// February bucket and the direct sum.
	rng := rand.New(rand.NewSource(7))
	var records []model.Appointment
	var direct int64
	for i := 0; i < 200; i++ {
		day := 1 + rng.Intn(29)
		cents := int64(rng.Intn(10000))
		records = append(records, appt(civil.Date{Year: 2024, Month: 2, Day: day}.String(), "12:00", cents))
		direct += cents
	}

	monthly, err := Aggregate(records, Monthly, civil.MustParse("2024-02-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	yearly, err := Aggregate(records, Yearly, civil.MustParse("2024-01-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum(monthly) != direct {
		t.Fatalf("monthly sum %d != direct sum %d", sum(monthly), direct)
	}
	if yearly[1].TotalCents != direct {
		t.Fatalf("yearly February bucket %d != direct sum %d", yearly[1].TotalCents, direct)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	records := []model.Appointment{
		appt("2024-06-01", "10:00", 100),
		appt("2024-06-02", "10:00", 200),
		appt("2024-06-03", "10:00", 300),
	}
	reversed := []model.Appointment{records[2], records[1], records[0]}

	a, _ := Aggregate(records, Monthly, civil.MustParse("2024-06-01"))
	b, _ := Aggregate(reversed, Monthly, civil.MustParse("2024-06-01"))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bucket %d differs across input orders: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestParseGranularity(t *testing.T) {
	for _, ok := range []string{"daily", "monthly", "yearly"} {
		if _, err := ParseGranularity(ok); err != nil {
			t.Fatalf("unexpected error for %q: %v", ok, err)
		}
	}
	if _, err := ParseGranularity("weekly"); err == nil {
		t.Fatal("expected error for weekly")
	}
}
