//go:build protogen

package report

import (
	"context"
	"time"

	"github.com/agendaluz/agendaluz/libs/grpcx"
	schedulev1 "github.com/agendaluz/agendaluz/protos/gen/schedule/v1"
	"google.golang.org/grpc"
)

// Client calls the schedule reporting gRPC surface, used to cross-check
// aggregated metrics against the live session store.
type Client struct {
	conn   *grpc.ClientConn
	client schedulev1.ScheduleReportServiceClient
}

func NewClient(addr string) (*Client, error) {
	conn, err := grpcx.Dial(context.Background(), addr, grpcx.DialOptions{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:   conn,
		client: schedulev1.NewScheduleReportServiceClient(conn),
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) GetRevenueReport(ctx context.Context, granularity, date string) (*schedulev1.RevenueReportResponse, error) {
	return c.client.GetRevenueReport(ctx, &schedulev1.RevenueReportRequest{
		Granularity: granularity,
		Date:        date,
	})
}
