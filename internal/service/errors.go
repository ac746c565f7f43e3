package service

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrGateLocked     = errors.New("gate locked")
	ErrInvalidPin     = errors.New("invalid pin")
	ErrInvalidToken   = errors.New("invalid token")
)

// ClearWriteError reports that the second write of a momentary pulse failed.
// The first write has already reached the device.
type ClearWriteError struct {
	PointID string
	Err     error
}

func (e *ClearWriteError) Error() string {
	return fmt.Sprintf("clear-write failed for %s: %v", e.PointID, e.Err)
}

func (e *ClearWriteError) Unwrap() error { return e.Err }
