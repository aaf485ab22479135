//go:build protogen

package grpcserver

import (
	"context"

	schedulev1 "github.com/agendaluz/agendaluz/protos/gen/schedule/v1"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/civil"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/revenue"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Reporting surface for sibling services (analytics dashboards, billing
// reconciliation). Read-only: all writes go through the HTTP API.
type server struct {
	schedulev1.UnimplementedScheduleReportServiceServer
	store *store.Store
}

func Register(grpcServer *grpc.Server, apptStore *store.Store) {
	schedulev1.RegisterScheduleReportServiceServer(grpcServer, &server{store: apptStore})
}

func (s *server) GetDaySchedule(_ context.Context, req *schedulev1.DayScheduleRequest) (*schedulev1.DayScheduleResponse, error) {
	date, err := civil.ParseDate(req.GetDate())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "date must be YYYY-MM-DD")
	}

	records := s.store.Day(date)
	items := make([]*schedulev1.Appointment, 0, len(records))
	for _, rec := range records {
		items = append(items, &schedulev1.Appointment{
			Id:            rec.ID,
			Date:          rec.Date.String(),
			Time:          rec.Time,
			ClientName:    rec.ClientName,
			Service:       rec.Service,
			PriceCents:    rec.PriceCents,
			Status:        string(rec.Status),
			PaymentMethod: string(rec.PaymentMethod),
			SeriesId:      rec.SeriesID,
		})
	}
	return &schedulev1.DayScheduleResponse{Date: date.String(), Appointments: items}, nil
}

func (s *server) GetRevenueReport(_ context.Context, req *schedulev1.RevenueReportRequest) (*schedulev1.RevenueReportResponse, error) {
	g, err := revenue.ParseGranularity(req.GetGranularity())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	ref, err := civil.ParseDate(req.GetDate())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "date must be YYYY-MM-DD")
	}

	buckets, err := revenue.Aggregate(s.store.Snapshot(), g, ref)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	var total int64
	out := make([]*schedulev1.RevenueBucket, 0, len(buckets))
	for _, b := range buckets {
		total += b.TotalCents
		out = append(out, &schedulev1.RevenueBucket{Label: b.Label, TotalCents: b.TotalCents})
	}
	return &schedulev1.RevenueReportResponse{
		Granularity: string(g),
		Reference:   ref.String(),
		Buckets:     out,
		TotalCents:  total,
	}, nil
}
