package registry

import "booth_dashboard/internal/models"

// Booth 1 point ids that other packages refer to by name.
const (
	PointSystemOn       = "M[0].0"
	PointHeatEnabled    = "M[40].0"
	PointBakeActive     = "M[0].11"
	PointBakeTimeAcc    = "B1_Bake_Time_ACC"
	PointCurrentTemp    = "W16[2]"
	PointActiveSetpoint = "W16[1]"
	PointModeAuto       = "M[1].4"
	PointModeManual     = "M[1].5"
	PointCooldownActive = "M[40].4"
	PointCooldownAcc    = "TMR[6].ACC"
	PointBakeTimePreset = "B1_Bake_Time"
	PointLightsStatus   = "M[3].0"
	PointLightsOnCmd    = "M[1].0"
	PointLightsOffCmd   = "M[0].15"
	PointCooldownPreset = "TMR[6].PRE"
	PointSpraySetpoint  = "W00[15]"
	PointPurgeCycle     = "M[40].2"
	PointSystemReady    = "M[0].9"
	PointCenterDoor     = "M[2].0"
	PointExhaustFan     = "R000.3"
	PointSupplyFanHigh  = "M[0].5"
	PointSupplyFanLow   = "M[0].6"
	PointBakeSetpoint   = "W00[13]"
	PointPurgeTime      = "B1_Purge_Time"
)

// TemperatureScale is the fixed-point factor of the W16/W00 temperature words.
const TemperatureScale = 100

// BoothPoints is the built-in point set of paint booth 1, in dashboard order.
func BoothPoints() []models.MonitoredPoint {
	return []models.MonitoredPoint{
		{ID: PointSystemOn, Kind: models.KindBoolean, Label: "System ON"},
		{ID: PointHeatEnabled, Kind: models.KindBoolean, Label: "Heat enabled"},
		{ID: PointBakeActive, Kind: models.KindBoolean, Label: "Bake mode active"},
		{ID: PointBakeTimeAcc, Kind: models.KindDurationMinutes, Label: "Bake timer"},
		{ID: PointCurrentTemp, Kind: models.KindScaled, Scale: TemperatureScale, Label: "Current temperature"},
		{ID: PointActiveSetpoint, Kind: models.KindScaled, Scale: TemperatureScale, Label: "Temperature setpoint"},
		{ID: PointModeAuto, Kind: models.KindBoolean, Label: "Mode: restart bake cycle (auto)"},
		{ID: PointModeManual, Kind: models.KindBoolean, Label: "Mode: end bake cycle (manual)"},
		{ID: PointCooldownActive, Kind: models.KindBoolean, Label: "Cooldown active"},
		{ID: PointCooldownAcc, Kind: models.KindDurationMillis, Label: "Cooldown timer"},
		{ID: PointBakeTimePreset, Kind: models.KindDurationMinutes, Label: "Bake timer preset"},
		{ID: PointLightsStatus, Kind: models.KindBoolean, Label: "Lights status"},
		{ID: PointLightsOnCmd, Kind: models.KindBoolean, Label: "Lights ON command"},
		{ID: PointLightsOffCmd, Kind: models.KindBoolean, Label: "Lights OFF command"},
		{ID: PointCooldownPreset, Kind: models.KindDurationMillis, Label: "Cooldown timer preset"},
		{ID: PointSpraySetpoint, Kind: models.KindScaled, Scale: TemperatureScale, Label: "Spray setpoint"},
		{ID: PointPurgeCycle, Kind: models.KindBoolean, Label: "Purge cycle"},
		{ID: PointSystemReady, Kind: models.KindBoolean, Label: "System ready"},
		{ID: PointCenterDoor, Kind: models.KindBoolean, Label: "Center door switch not active"},
		{ID: PointExhaustFan, Kind: models.KindBoolean, Label: "Exhaust fan 1 air proving"},
		{ID: PointSupplyFanHigh, Kind: models.KindBoolean, Label: "Supply fan 1 high air pressure good"},
		{ID: PointSupplyFanLow, Kind: models.KindBoolean, Label: "Supply fan 1 low air pressure good"},
		{ID: PointBakeSetpoint, Kind: models.KindScaled, Scale: TemperatureScale, Label: "Bake setpoint"},
		{ID: PointPurgeTime, Kind: models.KindDurationMinutes, Label: "Purge timer preset"},
	}
}
