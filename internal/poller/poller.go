// Package poller drives one device session in a loop and turns every read
// into a snapshot.
package poller

import (
	"context"
	"sync/atomic"
	"time"

	"booth_dashboard/internal/coerce"
	"booth_dashboard/internal/device"
	"booth_dashboard/internal/logger"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/registry"
)

const (
	DefaultPollInterval = time.Second
	DefaultBackoff      = 1500 * time.Millisecond
)

// State of a poller.
type State uint32

const (
	StateConnecting State = iota
	StateStreaming
	StateRetrying
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateStreaming:
		return "STREAMING"
	case StateRetrying:
		return "RETRYING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Config is fixed for the poller's lifetime.
type Config struct {
	Address      string
	PollInterval time.Duration
	Backoff      time.Duration
}

// EmitFunc receives snapshots in poll order. Returning an error stops the
// poller; the observer is gone.
type EmitFunc func(models.Snapshot) error

// Poller owns at most one device session at a time and never shares it.
type Poller struct {
	dialer device.Dialer
	points []models.MonitoredPoint
	cfg    Config
	log    *logger.Logger
	state  atomic.Uint32
	faults atomic.Uint64
}

// New returns a poller over every point in reg.
func New(d device.Dialer, reg *registry.Registry, cfg Config, log *logger.Logger) *Poller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if log == nil {
		log = logger.Nop()
	}
	p := &Poller{dialer: d, points: reg.List(), cfg: cfg, log: log}
	p.state.Store(uint32(StateConnecting))
	return p
}

// State is safe to call from any goroutine.
func (p *Poller) State() State { return State(p.state.Load()) }

// Faults counts transport faults seen so far.
func (p *Poller) Faults() uint64 { return p.faults.Load() }

// Run polls until ctx is canceled or emit fails. Transport faults never end
// the loop: each one produces a single error snapshot, a backoff, and a fresh
// session. Run returns nil on cancellation and emit's error otherwise.
func (p *Poller) Run(ctx context.Context, emit EmitFunc) error {
	var (
		sess  *device.Session
		fault error
	)
	defer func() {
		if sess != nil {
			_ = sess.Close()
		}
		p.setState(StateClosed)
	}()

	p.setState(StateConnecting)
	for {
		switch p.State() {
		case StateConnecting:
			if ctx.Err() != nil {
				return nil
			}
			s, err := device.Open(ctx, p.dialer, p.cfg.Address)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fault = err
				p.setState(StateRetrying)
				continue
			}
			sess = s
			p.log.Debugw("device_connected", "address", p.cfg.Address)
			p.setState(StateStreaming)

		case StateStreaming:
			// an in-flight read is allowed to finish after cancellation
			results, err := sess.ReadAll(context.WithoutCancel(ctx), p.points)
			if err != nil {
				_ = sess.Close()
				sess = nil
				fault = err
				p.setState(StateRetrying)
				continue
			}
			if err := emit(coerce.Snapshot(p.points, results)); err != nil {
				return err
			}
			if !wait(ctx, p.cfg.PollInterval) {
				return nil
			}

		case StateRetrying:
			p.faults.Add(1)
			p.log.Warnw("device_fault", "address", p.cfg.Address, "error", fault)
			if err := emit(coerce.Fault(fault)); err != nil {
				return err
			}
			if !wait(ctx, p.cfg.Backoff) {
				return nil
			}
			p.setState(StateConnecting)

		default:
			return nil
		}
	}
}

// Once performs a single poll iteration on a transient session.
func (p *Poller) Once(ctx context.Context) models.Snapshot {
	sess, err := device.Open(ctx, p.dialer, p.cfg.Address)
	if err != nil {
		return coerce.Fault(err)
	}
	defer sess.Close()

	results, err := sess.ReadAll(ctx, p.points)
	if err != nil {
		return coerce.Fault(err)
	}
	return coerce.Snapshot(p.points, results)
}

func (p *Poller) setState(s State) { p.state.Store(uint32(s)) }

// wait blocks for d or until ctx is done; false means canceled.
func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
