package device

import (
	"errors"
	"fmt"
)

var (
	// ErrTransportFault matches every connection-level failure.
	ErrTransportFault = errors.New("transport fault")
	// ErrRejected matches a device refusing a write.
	ErrRejected      = errors.New("device rejected write")
	ErrSessionClosed = errors.New("device session closed")
)

// FaultError is a connection lost/refused/timeout during Op.
type FaultError struct {
	Op      string
	Address string
	Err     error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Address, e.Err)
}

func (e *FaultError) Unwrap() error { return e.Err }

func (e *FaultError) Is(target error) bool { return target == ErrTransportFault }

// RejectedError is a write the device answered with a failure status.
type RejectedError struct {
	PointID string
	Status  string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("PLC write failed for %s: %s", e.PointID, e.Status)
}

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }
