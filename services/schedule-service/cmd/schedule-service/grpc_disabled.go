//go:build !protogen

package main

import (
	"context"
	"log/slog"

	"github.com/agendaluz/agendaluz/services/schedule-service/internal/store"
)

func startGrpcServer(_ context.Context, _ *slog.Logger, _ *store.Store) error {
	return nil
}
