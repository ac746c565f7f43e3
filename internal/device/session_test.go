package device

import (
	"context"
	"errors"
	"testing"

	"booth_dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	readErr  error
	writeErr error
	writeRes models.WriteResult
	results  []models.RawReadResult
	writes   []float64
	closed   int
}

func (f *fakeTransport) ReadAll(_ context.Context, ids []string) ([]models.RawReadResult, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.results, nil
}

func (f *fakeTransport) WriteOne(_ context.Context, _ string, value float64) (models.WriteResult, error) {
	f.writes = append(f.writes, value)
	if f.writeErr != nil {
		return models.WriteResult{}, f.writeErr
	}
	return f.writeRes, nil
}

func (f *fakeTransport) Close() error {
	f.closed++
	return nil
}

func dialerFor(t Transport, err error) Dialer {
	return DialerFunc(func(context.Context, string) (Transport, error) {
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}

func TestOpen_DialFailureIsFault(t *testing.T) {
	_, err := Open(context.Background(), dialerFor(nil, errors.New("connection refused")), "10.0.0.1:502")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransportFault)

	var fe *FaultError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "open", fe.Op)
	assert.Equal(t, "10.0.0.1:502", fe.Address)
}

func TestSession_ReadAll(t *testing.T) {
	tr := &fakeTransport{results: []models.RawReadResult{{ID: "A", OK: true, Value: int64(1)}}}
	s, err := Open(context.Background(), dialerFor(tr, nil), "plc")
	require.NoError(t, err)
	assert.Equal(t, StateActive, s.State())

	res, err := s.ReadAll(context.Background(), []models.MonitoredPoint{{ID: "A", Kind: models.KindBoolean}})
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, StateActive, s.State())
}

func TestSession_ReadFaultIsTerminal(t *testing.T) {
	tr := &fakeTransport{readErr: errors.New("connection lost")}
	s, err := Open(context.Background(), dialerFor(tr, nil), "plc")
	require.NoError(t, err)

	_, err = s.ReadAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrTransportFault)
	assert.Equal(t, StateFaulted, s.State())

	// A faulted session is never reused.
	tr.readErr = nil
	_, err = s.ReadAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrTransportFault)
}

func TestSession_WriteRejectedKeepsSession(t *testing.T) {
	tr := &fakeTransport{writeRes: models.WriteResult{Status: "Path segment error"}}
	s, err := Open(context.Background(), dialerFor(tr, nil), "plc")
	require.NoError(t, err)

	err = s.Write(context.Background(), "M[1].0", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	assert.NotErrorIs(t, err, ErrTransportFault)
	assert.Equal(t, "PLC write failed for M[1].0: Path segment error", err.Error())
	assert.Equal(t, StateActive, s.State())
}

func TestSession_WriteRejectedDefaultStatus(t *testing.T) {
	tr := &fakeTransport{}
	s, err := Open(context.Background(), dialerFor(tr, nil), "plc")
	require.NoError(t, err)

	err = s.Write(context.Background(), "X", 1)
	var re *RejectedError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "rejected", re.Status)
}

func TestSession_WriteTransportFault(t *testing.T) {
	tr := &fakeTransport{writeErr: errors.New("timeout")}
	s, err := Open(context.Background(), dialerFor(tr, nil), "plc")
	require.NoError(t, err)

	err = s.Write(context.Background(), "X", 1)
	assert.ErrorIs(t, err, ErrTransportFault)
	assert.Equal(t, StateFaulted, s.State())
}

func TestSession_CloseIdempotent(t *testing.T) {
	tr := &fakeTransport{writeRes: models.WriteResult{OK: true}}
	s, err := Open(context.Background(), dialerFor(tr, nil), "plc")
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, tr.closed)
	assert.Equal(t, StateClosed, s.State())

	err = s.Write(context.Background(), "X", 1)
	assert.ErrorIs(t, err, ErrSessionClosed)
}
