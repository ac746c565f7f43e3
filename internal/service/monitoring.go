package service

import (
	"context"

	"booth_dashboard"
	"booth_dashboard/internal/poller"
)

// MonitoringService serves one-shot reads outside any subscription.
type MonitoringService struct {
	poller  *poller.Poller
	address string
}

func NewMonitoringService(p *poller.Poller, address string) *MonitoringService {
	return &MonitoringService{poller: p, address: address}
}

// ReadOnce opens a transient session, reads every point once and closes it.
func (s *MonitoringService) ReadOnce(ctx context.Context) booth_dashboard.ReadResponse {
	return booth_dashboard.NewReadResponse(s.poller.Once(ctx))
}

func (s *MonitoringService) Address() string { return s.address }
