// Package device wraps controller connections in single-purpose sessions.
package device

import (
	"context"
	"errors"

	"booth_dashboard/internal/models"
)

// State of a device session.
type State uint8

const (
	StateConnecting State = iota
	StateActive
	StateFaulted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateActive:
		return "ACTIVE"
	case StateFaulted:
		return "FAULTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Session owns exactly one transport connection. Once faulted it is never
// reused; callers open a new session to retry. A Session belongs to a single
// goroutine and is not safe for concurrent use.
type Session struct {
	address   string
	transport Transport
	state     State
}

// Open dials address. A dial failure is returned as a *FaultError.
func Open(ctx context.Context, d Dialer, address string) (*Session, error) {
	s := &Session{address: address, state: StateConnecting}
	t, err := d.Dial(ctx, address)
	if err != nil {
		s.state = StateFaulted
		return nil, s.fault("open", err)
	}
	s.transport = t
	s.state = StateActive
	return s, nil
}

func (s *Session) State() State { return s.state }

func (s *Session) Address() string { return s.address }

// ReadAll reads every point in one request.
func (s *Session) ReadAll(ctx context.Context, points []models.MonitoredPoint) ([]models.RawReadResult, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	ids := make([]string, len(points))
	for i, p := range points {
		ids[i] = p.ID
	}
	res, err := s.transport.ReadAll(ctx, ids)
	if err != nil {
		s.state = StateFaulted
		return nil, s.fault("read", err)
	}
	return res, nil
}

// Write issues one write. A device refusal is a *RejectedError and leaves the
// session active; a transport failure faults it.
func (s *Session) Write(ctx context.Context, pointID string, value float64) error {
	if err := s.usable(); err != nil {
		return err
	}
	res, err := s.transport.WriteOne(ctx, pointID, value)
	if err != nil {
		s.state = StateFaulted
		return s.fault("write", err)
	}
	if !res.OK {
		status := res.Status
		if status == "" {
			status = "rejected"
		}
		return &RejectedError{PointID: pointID, Status: status}
	}
	return nil
}

// Close releases the connection. It is safe to call more than once.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	if s.transport == nil {
		return nil
	}
	return s.transport.Close()
}

func (s *Session) usable() error {
	switch s.state {
	case StateActive:
		return nil
	case StateFaulted:
		return &FaultError{Op: "use", Address: s.address, Err: errors.New("session is faulted")}
	default:
		return ErrSessionClosed
	}
}

func (s *Session) fault(op string, err error) error {
	var fe *FaultError
	if errors.As(err, &fe) {
		return fe
	}
	return &FaultError{Op: op, Address: s.address, Err: err}
}
