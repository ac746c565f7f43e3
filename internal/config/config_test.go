package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"booth_dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "port: \"9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverSim, cfg.Device.Driver)
	assert.Equal(t, "192.168.1.1:502", cfg.Device.Address)
	assert.Equal(t, time.Second, cfg.Device.PollInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Device.RetryBackoff)
	assert.Equal(t, 500*time.Millisecond, cfg.Device.SettleDelay)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.DB.Enabled)
	assert.Len(t, cfg.MonitoredPoints(), 24)
}

func TestLoad_PointsAndModbus(t *testing.T) {
	path := writeConfig(t, `
device:
  driver: modbus
  address: 10.0.0.5:502
  slave_id: 3
points:
  - id: M[3].0
    kind: bool
    label: Lights
    modbus: {register: coil, address: 30}
  - id: W16[2]
    kind: scaled
    scale: 100
    modbus: {register: holding, address: 2, data_type: int16}
  - id: B1_Bake_Time_ACC
    kind: duration_min
    modbus: {register: holding, address: 10, data_type: float32, byte_order: CDAB}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint8(3), cfg.Device.SlaveID)
	points := cfg.MonitoredPoints()
	require.Len(t, points, 3)
	assert.Equal(t, models.KindScaled, points[1].Kind)
	assert.Equal(t, 100, points[1].Scale)

	regs := cfg.RegisterMap()
	require.Len(t, regs, 3)
	assert.Equal(t, uint16(10), regs["B1_Bake_Time_ACC"].Address)
	assert.Equal(t, "CDAB", regs["B1_Bake_Time_ACC"].ByteOrder)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BOOTH_DEVICE_ADDRESS", "172.16.0.9:502")
	t.Setenv("BOOTH_AUTH_SECRET", "1234")

	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "172.16.0.9:502", cfg.Device.Address)
	assert.Equal(t, "1234", cfg.Auth.Secret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "device:\n  driver: serial\n"},
		{"zero poll interval", "device:\n  poll_interval: 0s\n"},
		{"unknown kind", "points:\n  - id: A\n    kind: string\n"},
		{"scaled without scale", "points:\n  - id: A\n    kind: scaled\n"},
		{"duplicate ids", "points:\n  - {id: A, kind: bool}\n  - {id: A, kind: int}\n"},
		{"modbus without mappings", "device:\n  driver: modbus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
