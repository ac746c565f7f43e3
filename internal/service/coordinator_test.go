package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"booth_dashboard/internal/device"
	"booth_dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSettle = 50 * time.Millisecond

func newCoordinator(d device.Dialer, events *fakeCommandLog) *WriteCoordinator {
	if events == nil {
		return NewWriteCoordinator(d, "10.0.0.1:502", testSettle, nil, nil)
	}
	return NewWriteCoordinator(d, "10.0.0.1:502", testSettle, events, nil)
}

func TestSubmit_Plain(t *testing.T) {
	dev := &recorder{}
	events := &fakeCommandLog{}

	ack, err := newCoordinator(dev, events).Submit(context.Background(), models.WriteCommand{PointID: "W00[15]", Value: ptr(12000)})
	require.NoError(t, err)
	assert.Equal(t, models.Ack{PointID: "W00[15]", Value: 12000}, ack)

	writes := dev.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, 12000.0, writes[0].Value)
	assert.Equal(t, []string{models.EventWrite}, events.Types())
}

func TestSubmit_MomentaryPulse(t *testing.T) {
	dev := &recorder{}
	events := &fakeCommandLog{}

	ack, err := newCoordinator(dev, events).Submit(context.Background(), models.WriteCommand{PointID: "LIGHT_ON", Value: ptr(1), Momentary: true})
	require.NoError(t, err)
	assert.Equal(t, models.Ack{PointID: "LIGHT_ON", Value: 1}, ack)

	writes := dev.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, "LIGHT_ON", writes[0].PointID)
	assert.Equal(t, 1.0, writes[0].Value)
	assert.Equal(t, "LIGHT_ON", writes[1].PointID)
	assert.Equal(t, 0.0, writes[1].Value)
	assert.GreaterOrEqual(t, writes[1].At.Sub(writes[0].At), testSettle)
	assert.Equal(t, []string{models.EventPulse}, events.Types())
}

func TestSubmit_MomentaryClearSurvivesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the observer goes away right after the first write
	dev := &recorder{onWrite: func(n int) {
		if n == 1 {
			cancel()
		}
	}}

	_, err := newCoordinator(dev, nil).Submit(ctx, models.WriteCommand{PointID: "M[1].0", Value: ptr(1), Momentary: true})
	require.NoError(t, err)

	writes := dev.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, []float64{1, 0}, []float64{writes[0].Value, writes[1].Value})
	assert.GreaterOrEqual(t, writes[1].At.Sub(writes[0].At), testSettle)
}

func TestSubmit_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dev := &recorder{}

	_, err := newCoordinator(dev, nil).Submit(ctx, models.WriteCommand{PointID: "X", Value: ptr(1), Momentary: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, dev.Dials())
}

func TestSubmit_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  models.WriteCommand
	}{
		{"missing tag", models.WriteCommand{Value: ptr(1)}},
		{"blank tag", models.WriteCommand{PointID: "  ", Value: ptr(1)}},
		{"missing value", models.WriteCommand{PointID: "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &recorder{}
			events := &fakeCommandLog{}
			_, err := newCoordinator(dev, events).Submit(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, ErrInvalidCommand)
			assert.Equal(t, 0, dev.Dials())
			assert.Empty(t, events.Types())
		})
	}
}

func TestSubmit_Rejected(t *testing.T) {
	dev := &recorder{outcomes: []error{errReject}}
	events := &fakeCommandLog{}

	_, err := newCoordinator(dev, events).Submit(context.Background(), models.WriteCommand{PointID: "NOPE", Value: ptr(1), Momentary: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, device.ErrRejected)
	// a rejected first write means no clear-write
	assert.Len(t, dev.Writes(), 1)
	assert.Equal(t, []string{models.EventRejected}, events.Types())
}

func TestSubmit_DialFault(t *testing.T) {
	dev := &recorder{dialErr: errors.New("connection refused")}
	events := &fakeCommandLog{}

	_, err := newCoordinator(dev, events).Submit(context.Background(), models.WriteCommand{PointID: "X", Value: ptr(1)})
	assert.ErrorIs(t, err, device.ErrTransportFault)
	assert.Equal(t, []string{models.EventFault}, events.Types())
}

func TestSubmit_ClearRetriedOnFreshSession(t *testing.T) {
	dev := &recorder{outcomes: []error{nil, errors.New("broken pipe")}}
	events := &fakeCommandLog{}

	_, err := newCoordinator(dev, events).Submit(context.Background(), models.WriteCommand{PointID: "M[1].4", Value: ptr(1), Momentary: true})
	require.NoError(t, err)

	writes := dev.Writes()
	require.Len(t, writes, 3)
	assert.Equal(t, []float64{1, 0, 0}, []float64{writes[0].Value, writes[1].Value, writes[2].Value})
	assert.Equal(t, 2, dev.Dials())
	assert.Equal(t, []string{models.EventPulse}, events.Types())
}

func TestSubmit_ClearRejected(t *testing.T) {
	dev := &recorder{outcomes: []error{nil, errReject}}
	events := &fakeCommandLog{}

	_, err := newCoordinator(dev, events).Submit(context.Background(), models.WriteCommand{PointID: "M[1].4", Value: ptr(1), Momentary: true})
	var cwe *ClearWriteError
	require.ErrorAs(t, err, &cwe)
	assert.Equal(t, "M[1].4", cwe.PointID)
	assert.ErrorIs(t, err, device.ErrRejected)
	assert.Len(t, dev.Writes(), 2)
	assert.Equal(t, 1, dev.Dials())
	assert.Equal(t, []string{models.EventClearFailed}, events.Types())
}

func TestSubmit_AuditFailureDoesNotChangeResult(t *testing.T) {
	dev := &recorder{}
	events := &fakeCommandLog{appendErr: errors.New("disk full")}

	ack, err := newCoordinator(dev, events).Submit(context.Background(), models.WriteCommand{PointID: "X", Value: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3.0, ack.Value)
}

func TestSubmit_SimBoothLightsPulse(t *testing.T) {
	start := time.Now()
	booth := device.NewSimBooth(start)
	c := NewWriteCoordinator(booth.Dialer(), "sim", testSettle, nil, nil)

	_, err := c.Submit(context.Background(), models.WriteCommand{PointID: "M[1].0", Value: ptr(1), Momentary: true})
	require.NoError(t, err)

	v, _ := booth.Get("M[1].0")
	assert.Equal(t, 0.0, v)
}
