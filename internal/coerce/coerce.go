// Package coerce maps raw device values onto canonical point values.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"booth_dashboard/internal/models"
)

// Result coerces one read result. A failed read is absent whatever the kind.
func Result(p models.MonitoredPoint, r models.RawReadResult) models.Value {
	if !r.OK {
		return models.Absent()
	}
	return Value(p, r.Value)
}

// Value coerces a successfully read raw value. Unparsable payloads become
// zero so that a snapshot never reports an "ok" read as absent.
func Value(p models.MonitoredPoint, raw any) models.Value {
	f, ok := toFloat(raw)
	if !ok {
		f = 0
	}
	if p.Kind == models.KindDurationMinutes {
		return models.Float(f)
	}
	// scaled points keep the unscaled integer; consumers apply Scale
	return models.Int(truncInt64(f))
}

// truncInt64 truncates f toward zero, saturating outside the int64 range.
func truncInt64(f float64) int64 {
	f = math.Trunc(f)
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

// Snapshot builds a snapshot over points from one poll's results. Points the
// transport did not report are absent; results for unknown ids are dropped.
func Snapshot(points []models.MonitoredPoint, results []models.RawReadResult) models.Snapshot {
	byID := make(map[string]models.MonitoredPoint, len(points))
	values := make(map[string]models.Value, len(points))
	for _, p := range points {
		byID[p.ID] = p
		values[p.ID] = models.Absent()
	}
	for _, r := range results {
		p, ok := byID[r.ID]
		if !ok {
			continue
		}
		values[r.ID] = Result(p, r)
	}
	return models.Snapshot{Values: values}
}

// Fault builds the snapshot emitted for a faulted poll.
func Fault(err error) models.Snapshot {
	return models.Snapshot{TransportError: ErrorText(err)}
}

// ErrorText returns the last non-empty line of err's message.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return "transport fault"
}

func toFloat(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
