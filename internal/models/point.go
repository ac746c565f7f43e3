package models

// PointKind is the semantic kind of a monitored point. It decides how a raw
// device value is coerced.
type PointKind string

const (
	KindBoolean         PointKind = "bool"
	KindScaled          PointKind = "scaled"       // fixed point, consumers divide by Scale
	KindDurationMillis  PointKind = "duration_ms"  // timer accumulator/preset in ms
	KindDurationMinutes PointKind = "duration_min" // REAL minutes, one decimal
	KindRawInteger      PointKind = "int"
)

// Valid reports whether k is one of the known kinds.
func (k PointKind) Valid() bool {
	switch k {
	case KindBoolean, KindScaled, KindDurationMillis, KindDurationMinutes, KindRawInteger:
		return true
	default:
		return false
	}
}

// MonitoredPoint is one named data point on the controller.
type MonitoredPoint struct {
	ID    string    `json:"id"`
	Kind  PointKind `json:"kind"`
	Scale int       `json:"scale,omitempty"` // only for KindScaled
	Label string    `json:"label,omitempty"`
}

// RawReadResult is what a device session reports for one point on one poll.
// Value is transport native (bool, intN, uintN, floatN or string).
type RawReadResult struct {
	ID     string
	OK     bool
	Value  any
	Status string
}

// WriteResult is the device's answer to a single write.
type WriteResult struct {
	OK     bool
	Status string
}
