package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agendaluz/agendaluz/libs/db"
)

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

type ProviderEvent struct {
	Provider        string
	ProviderEventID string
	EventType       string
	Payload         []byte
}

var ErrDuplicateProviderEvent = errors.New("duplicate provider event")

func (r *Repository) InsertProviderEvent(ctx context.Context, tx pgx.Tx, evt ProviderEvent) error {
	var payload any
	if err := json.Unmarshal(evt.Payload, &payload); err != nil {
		// Malformed webhook bodies are a hard failure, not a dedup case.
		return err
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO provider_events (provider, provider_event_id, event_type, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_event_id) DO NOTHING
	`, evt.Provider, evt.ProviderEventID, evt.EventType, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateProviderEvent
	}
	return nil
}

// MonthlyPayment is one settled or failed invoice for a monthly-plan client.
type MonthlyPayment struct {
	ClientID        string
	StripeInvoiceID string
	AmountCents     int64
	Status          string // paid | failed
	OccurredAt      time.Time
}

func (r *Repository) UpsertPayment(ctx context.Context, tx pgx.Tx, p MonthlyPayment) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO monthly_payments (client_id, stripe_invoice_id, amount_cents, status, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (stripe_invoice_id)
		DO UPDATE SET status = EXCLUDED.status,
		              amount_cents = EXCLUDED.amount_cents,
		              occurred_at = EXCLUDED.occurred_at,
		              updated_at = now()
	`, p.ClientID, p.StripeInvoiceID, p.AmountCents, p.Status, p.OccurredAt)
	return err
}

func (r *Repository) ListPayments(ctx context.Context, clientID string, limit int) ([]MonthlyPayment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT client_id, stripe_invoice_id, amount_cents, status, occurred_at
		FROM monthly_payments
		WHERE client_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []MonthlyPayment
	for rows.Next() {
		var p MonthlyPayment
		if err := rows.Scan(&p.ClientID, &p.StripeInvoiceID, &p.AmountCents, &p.Status, &p.OccurredAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
