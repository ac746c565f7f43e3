package device

import (
	"context"

	"booth_dashboard/internal/models"
)

// Transport is one live connection to the controller. A non-nil error from
// any method is a transport fault; per-point failures are reported in-band.
type Transport interface {
	ReadAll(ctx context.Context, ids []string) ([]models.RawReadResult, error)
	WriteOne(ctx context.Context, id string, value float64) (models.WriteResult, error)
	Close() error
}

// Dialer opens transports to a controller address.
type Dialer interface {
	Dial(ctx context.Context, address string) (Transport, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, address string) (Transport, error)

func (f DialerFunc) Dial(ctx context.Context, address string) (Transport, error) {
	return f(ctx, address)
}
