package handlers

import (
	"context"
	"net/http"
	"sync"

	"booth_dashboard"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockGate struct {
	enabled   bool
	token     string
	unlockErr error
	parseErr  error

	lastPin        string
	lastParseToken string
}

func (m *mockGate) Enabled() bool { return m.enabled }
func (m *mockGate) Unlock(pin string) (string, error) {
	m.lastPin = pin
	return m.token, m.unlockErr
}
func (m *mockGate) ParseToken(token string) error {
	m.lastParseToken = token
	return m.parseErr
}

type mockControl struct {
	ack     models.Ack
	err     error
	last    models.WriteCommand
	submits int
}

func (m *mockControl) Submit(ctx context.Context, cmd models.WriteCommand) (models.Ack, error) {
	m.submits++
	m.last = cmd
	return m.ack, m.err
}

type mockMonitoring struct {
	read    booth_dashboard.ReadResponse
	address string
	reads   int
}

func (m *mockMonitoring) ReadOnce(ctx context.Context) booth_dashboard.ReadResponse {
	m.reads++
	return m.read
}
func (m *mockMonitoring) Address() string { return m.address }

// mockStream sends frames in order, then waits for ctx unless hold is false.
type mockStream struct {
	frames []booth_dashboard.StreamFrame
	hold   bool

	mu        sync.Mutex
	observers []string
}

func (m *mockStream) Subscribe(ctx context.Context, observer string, send service.SendFunc) error {
	m.mu.Lock()
	m.observers = append(m.observers, observer)
	m.mu.Unlock()
	for _, f := range m.frames {
		if err := send(f); err != nil {
			return err
		}
	}
	if m.hold {
		<-ctx.Done()
	}
	return nil
}

func (m *mockStream) Active() int { return 0 }

type mockCommandLog struct {
	resp []models.CommandEvent
	err  error
	last service.LogFilter
}

func (m *mockCommandLog) List(ctx context.Context, f service.LogFilter) ([]models.CommandEvent, error) {
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	if s.Gate == nil {
		s.Gate = &mockGate{}
	}
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func ptr(v float64) *float64 { return &v }
