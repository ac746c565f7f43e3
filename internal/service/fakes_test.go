package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"booth_dashboard/internal/device"
	"booth_dashboard/internal/models"
	"booth_dashboard/internal/repository"
)

type writeCall struct {
	PointID string
	Value   float64
	At      time.Time
}

// recorder is a device shared by every transport it hands out. Each write
// consumes one scripted outcome; an exhausted script means success.
type recorder struct {
	mu       sync.Mutex
	writes   []writeCall
	outcomes []error // nil ok, errReject -> device refusal, other -> transport fault
	dials    int
	dialErr  error
	onWrite  func(n int)
	readErr  error
	results  []models.RawReadResult
}

var errReject = errors.New("reject")

func (r *recorder) Dial(ctx context.Context, _ string) (device.Transport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dials++
	if r.dialErr != nil {
		return nil, r.dialErr
	}
	return &recorderTransport{r: r}, nil
}

func (r *recorder) Writes() []writeCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]writeCall(nil), r.writes...)
}

func (r *recorder) Dials() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dials
}

type recorderTransport struct {
	r *recorder
}

func (t *recorderTransport) ReadAll(context.Context, []string) ([]models.RawReadResult, error) {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	if t.r.readErr != nil {
		return nil, t.r.readErr
	}
	return t.r.results, nil
}

func (t *recorderTransport) WriteOne(_ context.Context, id string, value float64) (models.WriteResult, error) {
	t.r.mu.Lock()
	t.r.writes = append(t.r.writes, writeCall{PointID: id, Value: value, At: time.Now()})
	n := len(t.r.writes)
	var outcome error
	if len(t.r.outcomes) > 0 {
		outcome = t.r.outcomes[0]
		t.r.outcomes = t.r.outcomes[1:]
	}
	hook := t.r.onWrite
	t.r.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	switch {
	case outcome == nil:
		return models.WriteResult{OK: true, Status: "Success"}, nil
	case errors.Is(outcome, errReject):
		return models.WriteResult{Status: "Path segment error"}, nil
	default:
		return models.WriteResult{}, outcome
	}
}

func (t *recorderTransport) Close() error { return nil }

// fakeCommandLog is a minimal stub that satisfies repository.CommandLog.
type fakeCommandLog struct {
	mu        sync.Mutex
	appended  []models.CommandEvent
	appendErr error

	gotQuery repository.EventQuery
	events   []models.CommandEvent
	listErr  error
	calls    int
}

func (f *fakeCommandLog) Append(_ context.Context, e models.CommandEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeCommandLog) List(_ context.Context, q repository.EventQuery) ([]models.CommandEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotQuery = q
	return f.events, f.listErr
}

func (f *fakeCommandLog) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.appended))
	for i, e := range f.appended {
		out[i] = e.Type
	}
	return out
}

func ptr(v float64) *float64 { return &v }
