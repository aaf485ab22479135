package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/agendaluz/agendaluz/libs/config"
	"github.com/agendaluz/agendaluz/libs/db"
	"github.com/agendaluz/agendaluz/libs/httpx"
	"github.com/agendaluz/agendaluz/libs/kafkax"
	otelx "github.com/agendaluz/agendaluz/libs/otel"
	"github.com/agendaluz/agendaluz/libs/runtime"
	"github.com/agendaluz/agendaluz/services/analytics-service/internal/consumer"
	"github.com/agendaluz/agendaluz/services/analytics-service/internal/inbox"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "analytics-service")
	port, err := config.Port("PORT", "8086")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	inboxRepo := inbox.NewRepository(pool)
	brokers := config.String("KAFKA_BROKERS", "")
	groupID := config.String("KAFKA_GROUP_ID", "analytics-service")

	handleAppointmentEvent := func(ctx context.Context, msg kafka.Message, kind string) error {
		var payload struct {
			AppointmentID string `json:"appointment_id"`
			Date          string `json:"date"`
			Time          string `json:"time"`
			Service       string `json:"service"`
			PriceCents    int64  `json:"price_cents"`
			PaymentMethod string `json:"payment_method"`
			SeriesID      string `json:"series_id"`
		}

		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid appointment payload", "err", err, "topic", msg.Topic)
			return nil
		}
		if payload.AppointmentID == "" {
			logger.Error("missing appointment_id", "topic", msg.Topic)
			return nil
		}
		if payload.Date != "" {
			if _, err := time.Parse("2006-01-02", payload.Date); err != nil {
				logger.Error("invalid date", "err", err, "topic", msg.Topic)
				return nil
			}
		}

		meta := kafkax.ExtractEventMeta(msg)

		tx, err := pool.Begin(ctx)
		if err != nil {
			logger.Error("db begin failed", "err", err)
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		tag, err := tx.Exec(ctx, `
			INSERT INTO appointment_events (event_id, event_type, appointment_id, appt_date, price_cents, payment_method, series_id)
			VALUES ($1, $2, $3, NULLIF($4, '')::date, $5, NULLIF($6, ''), NULLIF($7, ''))
			ON CONFLICT (event_id) DO NOTHING
		`, meta.EventID, meta.EventType, payload.AppointmentID, payload.Date, payload.PriceCents, payload.PaymentMethod, payload.SeriesID)
		if err != nil {
			logger.Error("failed to insert appointment event", "err", err)
			return err
		}
		if tag.RowsAffected() == 0 {
			_ = tx.Commit(ctx)
			return nil
		}

		// Cancellation payloads carry no date; count them on the day the
		// cancellation happened.
		day := payload.Date
		if day == "" {
			day = time.Now().UTC().Format("2006-01-02")
		}

		bookedInc := 0
		cancelledInc := 0
		revenueInc := int64(0)
		switch kind {
		case "booked":
			bookedInc = 1
			revenueInc = payload.PriceCents
		case "cancelled":
			cancelledInc = 1
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO daily_appointment_metrics (day, booked_count, cancelled_count, booked_revenue_cents)
			VALUES ($1::date, $2, $3, $4)
			ON CONFLICT (day)
			DO UPDATE SET booked_count = daily_appointment_metrics.booked_count + EXCLUDED.booked_count,
			              cancelled_count = daily_appointment_metrics.cancelled_count + EXCLUDED.cancelled_count,
			              booked_revenue_cents = daily_appointment_metrics.booked_revenue_cents + EXCLUDED.booked_revenue_cents,
			              updated_at = now()
		`, day, bookedInc, cancelledInc, revenueInc); err != nil {
			logger.Error("failed to update daily metrics", "err", err)
			return err
		}

		if kind == "booked" && payload.PaymentMethod != "" {
			if _, err := tx.Exec(ctx, `
				INSERT INTO daily_payment_metrics (day, payment_method, total_cents)
				VALUES ($1::date, $2, $3)
				ON CONFLICT (day, payment_method)
				DO UPDATE SET total_cents = daily_payment_metrics.total_cents + EXCLUDED.total_cents,
				              updated_at = now()
			`, day, payload.PaymentMethod, payload.PriceCents); err != nil {
				logger.Error("failed to update payment metrics", "err", err)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			logger.Error("failed to commit appointment metric", "err", err)
			return err
		}

		logger.Info("appointment metric recorded", "appointment_id", payload.AppointmentID, "event_type", meta.EventType)
		return nil
	}

	startConsumer := func(topic, kind string) {
		cfg := consumer.Config{Brokers: brokers, GroupID: groupID, Topic: topic}
		c := consumer.New(logger, inboxRepo, cfg, func(ctx context.Context, msg kafka.Message) error {
			return handleAppointmentEvent(ctx, msg, kind)
		})
		go c.Run(ctx)
	}

	startConsumer("schedule.appointment.booked.v1", "booked")
	startConsumer("schedule.appointment.rescheduled.v1", "rescheduled")
	startConsumer("schedule.appointment.cancelled.v1", "cancelled")

	mux := runtime.NewBaseMux(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	setupReportRoutes(ctx, mux, logger)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "analytics")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
