package models

// Snapshot is the coerced result of one poll. A faulted poll carries only
// TransportError and no values.
type Snapshot struct {
	Values         map[string]Value
	TransportError string
}

func (s Snapshot) Faulted() bool { return s.TransportError != "" }

// Value returns the value recorded for id, absent when unknown.
func (s Snapshot) Value(id string) Value {
	return s.Values[id]
}
