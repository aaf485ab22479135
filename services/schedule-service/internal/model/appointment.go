package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
)

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentPix     PaymentMethod = "pix"
	PaymentMonthly PaymentMethod = "monthly"
)

// Appointment is one bookable salon slot. ID is assigned by the persistence
// layer on first save; SeriesID is set only on occurrences generated from a
// recurring definition.
type Appointment struct {
	ID            string
	Date          civil.Date
	Time          string // HH:MM, 24h wall clock
	ClientName    string
	Service       string
	PriceCents    int64
	Status        Status
	PaymentMethod PaymentMethod
	SeriesID      string
}

// Client is a read-only lookup record used for booking autofill.
type Client struct {
	ID    string
	Name  string
	Phone string
	VIP   bool
}

// ValidationError reports a field rejected before any write set is computed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid appointment: %s %s", e.Field, e.Reason)
}

// Validate checks the fields a write set must never be computed from when
// broken: required client/service/date/time, clock format, price sign, and
// enum values.
func (a Appointment) Validate() error {
	if strings.TrimSpace(a.ClientName) == "" {
		return &ValidationError{Field: "client_name", Reason: "is required"}
	}
	if strings.TrimSpace(a.Service) == "" {
		return &ValidationError{Field: "service", Reason: "is required"}
	}
	if a.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if a.Time == "" {
		return &ValidationError{Field: "time", Reason: "is required"}
	}
	if _, _, err := ParseClock(a.Time); err != nil {
		return &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	if a.PriceCents < 0 {
		return &ValidationError{Field: "price_cents", Reason: "must not be negative"}
	}
	switch a.Status {
	case StatusConfirmed, StatusPending:
	default:
		return &ValidationError{Field: "status", Reason: "must be confirmed or pending"}
	}
	switch a.PaymentMethod {
	case PaymentCash, PaymentPix, PaymentMonthly:
	default:
		return &ValidationError{Field: "payment_method", Reason: "must be cash, pix, or monthly"}
	}
	return nil
}

// ParseClock parses an HH:MM 24-hour wall-clock value.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	hour, err = strconv.Atoi(s[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	minute, err = strconv.Atoi(s[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	return hour, minute, nil
}
