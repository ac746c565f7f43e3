package booth_dashboard

import "booth_dashboard/internal/models"

// StreamFrame is one push frame: values on a good poll, error on a faulted one.
type StreamFrame struct {
	Values map[string]models.Value `json:"values,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// ReadResponse is the one-shot read payload. Error is null on success.
type ReadResponse struct {
	Values map[string]models.Value `json:"values"`
	Error  *string                 `json:"error"`
}

// WriteResponse acknowledges a completed write command.
type WriteResponse struct {
	Status string  `json:"status"`
	Tag    string  `json:"tag"`
	Value  float64 `json:"value"`
}

// UnlockResponse carries a gate token.
type UnlockResponse struct {
	Token string `json:"token"`
}

// HealthResponse is the static liveness payload.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Status  string `json:"status"`
	PLCIP   string `json:"plc_ip"`
}

func NewStreamFrame(s models.Snapshot) StreamFrame {
	if s.Faulted() {
		return StreamFrame{Error: s.TransportError}
	}
	return StreamFrame{Values: s.Values}
}

func NewReadResponse(s models.Snapshot) ReadResponse {
	out := ReadResponse{Values: s.Values}
	if out.Values == nil {
		out.Values = map[string]models.Value{}
	}
	if s.Faulted() {
		msg := s.TransportError
		out.Error = &msg
	}
	return out
}
