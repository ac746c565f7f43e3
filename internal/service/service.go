package service

import (
	"context"
	"fmt"

	"booth_dashboard"
	"booth_dashboard/internal/config"
	"booth_dashboard/internal/device"
	"booth_dashboard/internal/logger"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/poller"
	"booth_dashboard/internal/registry"
	"booth_dashboard/internal/repository"
)

// SendFunc delivers one frame to an observer. An error means the observer
// is gone.
type SendFunc func(frame booth_dashboard.StreamFrame) error

// Stream runs one subscription session per observer connection.
type Stream interface {
	Subscribe(ctx context.Context, observer string, send SendFunc) error
	Active() int
}

// Control executes write commands.
type Control interface {
	Submit(ctx context.Context, cmd models.WriteCommand) (models.Ack, error)
}

// Monitoring exposes the one-shot read and the configured device address.
type Monitoring interface {
	ReadOnce(ctx context.Context) booth_dashboard.ReadResponse
	Address() string
}

// Gate is the single shared-secret gate in front of writes and logs.
type Gate interface {
	Enabled() bool
	Unlock(pin string) (string, error)
	ParseToken(token string) error
}

// CommandLog exposes the write-command audit log with filtering access.
type CommandLog interface {
	List(ctx context.Context, f LogFilter) ([]models.CommandEvent, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Stream
	Control
	Monitoring
	Gate
	CommandLog
}

// NewService wires the repository layer and the device dialer into concrete
// services. cfg is read once; nothing keeps a reference to it.
func NewService(repos *repository.Repository, dialer device.Dialer, reg *registry.Registry, cfg *config.Config, log *logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}
	pcfg := poller.Config{
		Address:      cfg.Device.Address,
		PollInterval: cfg.Device.PollInterval,
		Backoff:      cfg.Device.RetryBackoff,
	}
	gate, err := NewGateService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("init gate: %w", err)
	}
	return &Service{
		Stream:     NewSubscriptionService(dialer, reg, pcfg, log),
		Control:    NewWriteCoordinator(dialer, cfg.Device.Address, cfg.Device.SettleDelay, repos.CommandLog, log),
		Monitoring: NewMonitoringService(poller.New(dialer, reg, pcfg, log), cfg.Device.Address),
		Gate:       gate,
		CommandLog: NewCommandLogService(repos.CommandLog),
	}, nil
}
