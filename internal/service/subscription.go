package service

import (
	"context"
	"sync"

	"booth_dashboard"
	"booth_dashboard/internal/device"
	"booth_dashboard/internal/logger"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/poller"
	"booth_dashboard/internal/registry"

	"github.com/google/uuid"
)

// SubscriptionState of one observer's session.
type SubscriptionState uint8

const (
	SubscriptionStreaming SubscriptionState = iota
	SubscriptionRetrying
	SubscriptionClosed
)

func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStreaming:
		return "STREAMING"
	case SubscriptionRetrying:
		return "RETRYING"
	default:
		return "CLOSED"
	}
}

// Subscription binds one observer to its own poller and device session.
type Subscription struct {
	ID       string
	Observer string
	poller   *poller.Poller
}

func (s *Subscription) State() SubscriptionState {
	switch s.poller.State() {
	case poller.StateRetrying:
		return SubscriptionRetrying
	case poller.StateClosed:
		return SubscriptionClosed
	default:
		return SubscriptionStreaming
	}
}

// SubscriptionService creates a dedicated poller per observer. Observers
// never share a device connection.
type SubscriptionService struct {
	dialer device.Dialer
	reg    *registry.Registry
	cfg    poller.Config
	log    *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Subscription
}

func NewSubscriptionService(d device.Dialer, reg *registry.Registry, cfg poller.Config, log *logger.Logger) *SubscriptionService {
	if log == nil {
		log = logger.Nop()
	}
	return &SubscriptionService{
		dialer:   d,
		reg:      reg,
		cfg:      cfg,
		log:      log,
		sessions: make(map[string]*Subscription),
	}
}

// Subscribe streams frames to send until ctx is canceled (the observer's
// connection closed) or send fails. Frames are delivered one at a time in
// poll order.
func (s *SubscriptionService) Subscribe(ctx context.Context, observer string, send SendFunc) error {
	sub := &Subscription{
		ID:       uuid.NewString(),
		Observer: observer,
		poller:   poller.New(s.dialer, s.reg, s.cfg, s.log),
	}
	active := s.add(sub)
	defer s.remove(sub.ID)

	s.log.Infow("stream_opened", "subscription_id", sub.ID, "observer", observer, "active", active)
	err := sub.poller.Run(ctx, func(snap models.Snapshot) error {
		return send(booth_dashboard.NewStreamFrame(snap))
	})
	s.log.Infow("stream_closed", "subscription_id", sub.ID, "observer", observer, "faults", sub.poller.Faults())
	return err
}

// Active returns the number of open subscriptions.
func (s *SubscriptionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SubscriptionService) add(sub *Subscription) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sub.ID] = sub
	return len(s.sessions)
}

func (s *SubscriptionService) remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
