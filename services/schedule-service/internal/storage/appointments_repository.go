package storage

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/agendaluz/agendaluz/libs/db"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/outbox"
)

// AppointmentRepository is the persistence collaborator behind the session
// store. Every write or delete set is applied in one transaction together
// with its outbox events: the batch lands in full or not at all.
//
// Dates travel as canonical YYYY-MM-DD text on both legs so no time.Time
// (and no timezone) is ever involved.
type AppointmentRepository struct {
	pool       *db.Pool
	outboxRepo *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, outboxRepo *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, outboxRepo: outboxRepo}
}

func (r *AppointmentRepository) Persist(ctx context.Context, records []model.Appointment, event string) ([]model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := make([]model.Appointment, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			err = tx.QueryRow(ctx, `
				INSERT INTO appointments
					(appt_date, start_time, client_name, service, price_cents, status, payment_method, series_id)
				VALUES ($1::date, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
				RETURNING id
			`, rec.Date.String(), rec.Time, rec.ClientName, rec.Service, rec.PriceCents,
				string(rec.Status), string(rec.PaymentMethod), rec.SeriesID).Scan(&rec.ID)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE appointments
				SET appt_date = $2::date,
					start_time = $3,
					client_name = $4,
					service = $5,
					price_cents = $6,
					status = $7,
					payment_method = $8,
					updated_at = now()
				WHERE id = $1
			`, rec.ID, rec.Date.String(), rec.Time, rec.ClientName, rec.Service,
				rec.PriceCents, string(rec.Status), string(rec.PaymentMethod))
		}
		if err != nil {
			return nil, err
		}

		if err := r.insertEvent(ctx, tx, rec, event); err != nil {
			return nil, err
		}
		out[i] = rec
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentRepository) Remove(ctx context.Context, ids []string, event string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM appointments WHERE id = ANY($1)`, ids); err != nil {
		return err
	}

	if r.outboxRepo != nil {
		for _, id := range ids {
			payload, err := json.Marshal(map[string]any{"appointment_id": id})
			if err != nil {
				return err
			}
			if err := r.outboxRepo.Insert(ctx, tx, outbox.Event{
				AggregateType: "appointment",
				AggregateID:   id,
				EventType:     event,
				Payload:       payload,
			}); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// LoadAll reads the persisted state that seeds the session store at startup.
func (r *AppointmentRepository) LoadAll(ctx context.Context) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, to_char(appt_date, 'YYYY-MM-DD'), start_time, client_name, service,
			price_cents, status, payment_method, COALESCE(series_id::text, '')
		FROM appointments
		ORDER BY appt_date, start_time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Appointment
	for rows.Next() {
		var rec model.Appointment
		var dateStr, status, payment string
		if err := rows.Scan(&rec.ID, &dateStr, &rec.Time, &rec.ClientName, &rec.Service,
			&rec.PriceCents, &status, &payment, &rec.SeriesID); err != nil {
			return nil, err
		}
		rec.Date, err = civil.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		rec.Status = model.Status(status)
		rec.PaymentMethod = model.PaymentMethod(payment)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *AppointmentRepository) insertEvent(ctx context.Context, tx pgx.Tx, rec model.Appointment, event string) error {
	if r.outboxRepo == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"appointment_id": rec.ID,
		"date":           rec.Date.String(),
		"time":           rec.Time,
		"client_name":    rec.ClientName,
		"service":        rec.Service,
		"price_cents":    rec.PriceCents,
		"status":         string(rec.Status),
		"payment_method": string(rec.PaymentMethod),
		"series_id":      rec.SeriesID,
	})
	if err != nil {
		return err
	}
	return r.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   rec.ID,
		EventType:     event,
		Payload:       payload,
	})
}
