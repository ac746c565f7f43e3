package device

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"booth_dashboard/internal/models"
	"booth_dashboard/internal/registry"
)

// ----------- Simulation constants -----------
const (
	SimBaseTemp        = 11000.0 // scaled x100, 110.0 °F
	SimTempSwing       = 4000.0  // ±40.0 °F
	SimTempRadPerSec   = 0.5
	SimSpraySetpoint   = 12000
	SimBakeSetpoint    = 14000
	SimBakePresetMin   = 30.0
	SimPurgePresetMin  = 5.0
	SimCooldownPreset  = 300000 // ms
	SimHeatCycle       = 10     // seconds
	SimHeatOnSeconds   = 8
	simStatusSuccess   = "Success"
	simStatusBadPath   = "Path segment error"
	simStatusReadOnly  = "Object does not exist"
	defaultSimStepTick = 200 * time.Millisecond
)

var (
	errSimOffline = errors.New("connection refused")
	errSimLost    = errors.New("connection lost")
)

// realPoints are REAL tags on the controller; everything else is a DINT.
var realPoints = map[string]bool{
	registry.PointBakeTimeAcc:    true,
	registry.PointBakeTimePreset: true,
	registry.PointPurgeTime:      true,
}

// SimBooth is an in-process stand-in for the booth controller. Its state is
// the remote device's own memory, so it is shared by every simulated
// connection and guarded by a mutex.
type SimBooth struct {
	mu      sync.Mutex
	values  map[string]float64
	started time.Time
	last    time.Time
	auto    bool
	offline bool
}

// NewSimBooth returns a booth with the default presets loaded.
func NewSimBooth(now time.Time) *SimBooth {
	b := &SimBooth{
		values:  make(map[string]float64, 32),
		started: now,
		last:    now,
		auto:    true,
	}
	for _, p := range registry.BoothPoints() {
		b.values[p.ID] = 0
	}
	b.values[registry.PointSystemOn] = 1
	b.values[registry.PointSystemReady] = 1
	b.values[registry.PointCenterDoor] = 1
	b.values[registry.PointExhaustFan] = 1
	b.values[registry.PointSupplyFanHigh] = 1
	b.values[registry.PointSupplyFanLow] = 1
	b.values[registry.PointSpraySetpoint] = SimSpraySetpoint
	b.values[registry.PointBakeSetpoint] = SimBakeSetpoint
	b.values[registry.PointBakeTimePreset] = SimBakePresetMin
	b.values[registry.PointPurgeTime] = SimPurgePresetMin
	b.values[registry.PointCooldownPreset] = SimCooldownPreset
	b.values[registry.PointModeAuto] = 1
	b.step(now)
	return b
}

// Run advances the simulation every tick until ctx is canceled.
func (b *SimBooth) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = defaultSimStepTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			b.Step(now)
		}
	}
}

// Step applies controller logic for the time now.
func (b *SimBooth) Step(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.step(now)
}

func (b *SimBooth) step(now time.Time) {
	elapsed := now.Sub(b.started).Seconds()
	dt := now.Sub(b.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	b.last = now

	b.latchLights()
	b.applyMode()

	if b.auto {
		b.values[registry.PointActiveSetpoint] = b.values[registry.PointBakeSetpoint]
		acc := b.values[registry.PointBakeTimeAcc] + dt/60
		b.values[registry.PointBakeTimeAcc] = math.Min(acc, b.values[registry.PointBakeTimePreset])
	} else {
		b.values[registry.PointActiveSetpoint] = b.values[registry.PointSpraySetpoint]
		b.values[registry.PointBakeTimeAcc] = 0
	}
	b.values[registry.PointBakeActive] = boolToFloat(b.auto)

	b.values[registry.PointCurrentTemp] = math.Trunc(SimBaseTemp + SimTempSwing*math.Sin(elapsed*SimTempRadPerSec))
	b.values[registry.PointHeatEnabled] = boolToFloat(int(elapsed)%SimHeatCycle < SimHeatOnSeconds)

	preset := b.values[registry.PointCooldownPreset]
	if preset > 0 {
		b.values[registry.PointCooldownAcc] = preset - math.Mod(elapsed*1000, preset)
	}
	b.values[registry.PointCooldownActive] = 1
}

// latchLights turns the self-clearing ON/OFF command bits into the lights
// status bit.
func (b *SimBooth) latchLights() {
	switch {
	case b.values[registry.PointLightsOnCmd] == 1:
		b.values[registry.PointLightsStatus] = 1
		b.values[registry.PointLightsOnCmd] = 0
	case b.values[registry.PointLightsOffCmd] == 1:
		b.values[registry.PointLightsStatus] = 0
		b.values[registry.PointLightsOffCmd] = 0
	}
}

// applyMode keeps AUTO and MANUAL mutually exclusive. A raised MANUAL bit wins
// over AUTO so the end-bake pushbutton takes effect.
func (b *SimBooth) applyMode() {
	autoCmd := b.values[registry.PointModeAuto] == 1
	manualCmd := b.values[registry.PointModeManual] == 1
	switch {
	case manualCmd:
		b.auto = false
	case autoCmd:
		b.auto = true
	}
	if !autoCmd && !manualCmd && !b.auto {
		return
	}
	b.values[registry.PointModeAuto] = boolToFloat(b.auto)
}

// SetOffline makes every dial and every call on open connections fail.
func (b *SimBooth) SetOffline(offline bool) {
	b.mu.Lock()
	b.offline = offline
	b.mu.Unlock()
}

// Get returns the raw value of id.
func (b *SimBooth) Get(id string) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[id]
	return v, ok
}

// Dialer returns a Dialer whose connections talk to b.
func (b *SimBooth) Dialer() Dialer {
	return DialerFunc(func(ctx context.Context, address string) (Transport, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.offline {
			return nil, errSimOffline
		}
		return &simTransport{booth: b}, nil
	})
}

type simTransport struct {
	booth  *SimBooth
	closed bool
}

func (t *simTransport) ReadAll(_ context.Context, ids []string) ([]models.RawReadResult, error) {
	b := t.booth
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.offline || t.closed {
		return nil, errSimLost
	}
	out := make([]models.RawReadResult, 0, len(ids))
	for _, id := range ids {
		v, ok := b.values[id]
		if !ok {
			out = append(out, models.RawReadResult{ID: id, Status: simStatusBadPath})
			continue
		}
		var raw any = int64(v)
		if realPoints[id] {
			raw = v
		}
		out = append(out, models.RawReadResult{ID: id, OK: true, Value: raw, Status: simStatusSuccess})
	}
	return out, nil
}

func (t *simTransport) WriteOne(_ context.Context, id string, value float64) (models.WriteResult, error) {
	b := t.booth
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.offline || t.closed {
		return models.WriteResult{}, errSimLost
	}
	if _, ok := b.values[id]; !ok {
		return models.WriteResult{Status: simStatusBadPath}, nil
	}
	if id == registry.PointCurrentTemp || id == registry.PointCooldownAcc {
		return models.WriteResult{Status: simStatusReadOnly}, nil
	}
	if !realPoints[id] {
		value = math.Trunc(value)
	}
	b.values[id] = value
	return models.WriteResult{OK: true, Status: simStatusSuccess}, nil
}

func (t *simTransport) Close() error {
	t.closed = true
	return nil
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
