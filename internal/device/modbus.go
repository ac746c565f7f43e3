package device

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"booth_dashboard/internal/models"

	mb "github.com/goburrow/modbus"
)

// Register types.
const (
	RegisterHolding  = "holding"
	RegisterInput    = "input"
	RegisterCoil     = "coil"
	RegisterDiscrete = "discrete"
)

const defaultModbusTimeout = 5 * time.Second

// RegisterMap locates a point in the controller's Modbus address space.
type RegisterMap struct {
	Register  string // holding | input | coil | discrete
	Address   uint16
	DataType  string // bool | int16 | uint16 | int32 | uint32 | float32
	ByteOrder string // ABCD (default) | DCBA | BADC | CDAB
}

// ModbusDialer opens Modbus TCP connections to a controller.
type ModbusDialer struct {
	Points  map[string]RegisterMap
	SlaveID byte
	Timeout time.Duration
}

// tcpHandler is the part of *mb.TCPClientHandler the transport uses.
type tcpHandler interface {
	mb.ClientHandler
	Connect() error
	Close() error
}

func (d *ModbusDialer) Dial(ctx context.Context, address string) (Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultModbusTimeout
	}
	h := mb.NewTCPClientHandler(address)
	h.Timeout = timeout
	h.SlaveId = d.SlaveID
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", address, err)
	}
	return newModbusTransport(h, mb.NewClient(h), d.Points), nil
}

type modbusTransport struct {
	handler tcpHandler
	client  mb.Client
	points  map[string]RegisterMap
}

func newModbusTransport(h tcpHandler, c mb.Client, points map[string]RegisterMap) *modbusTransport {
	return &modbusTransport{handler: h, client: c, points: points}
}

// ReadAll reads ids one by one over the shared connection. Modbus exception
// responses fail only their point; anything else aborts the poll.
func (t *modbusTransport) ReadAll(_ context.Context, ids []string) ([]models.RawReadResult, error) {
	out := make([]models.RawReadResult, 0, len(ids))
	for _, id := range ids {
		m, ok := t.points[id]
		if !ok {
			out = append(out, models.RawReadResult{ID: id, Status: "unmapped"})
			continue
		}
		raw, err := t.readPoint(m)
		if err != nil {
			var mbErr *mb.ModbusError
			if errors.As(err, &mbErr) {
				out = append(out, models.RawReadResult{ID: id, Status: mbErr.Error()})
				continue
			}
			return nil, fmt.Errorf("read %s: %w", id, err)
		}
		out = append(out, models.RawReadResult{ID: id, OK: true, Value: raw, Status: "Success"})
	}
	return out, nil
}

func (t *modbusTransport) WriteOne(_ context.Context, id string, value float64) (models.WriteResult, error) {
	m, ok := t.points[id]
	if !ok {
		return models.WriteResult{Status: "unknown tag"}, nil
	}
	var err error
	switch strings.ToLower(m.Register) {
	case RegisterCoil:
		var v uint16
		if value != 0 {
			v = 0xFF00
		}
		_, err = t.client.WriteSingleCoil(m.Address, v)
	case RegisterHolding:
		words, encErr := encodeRegisters(value, m.DataType, m.ByteOrder)
		if encErr != nil {
			return models.WriteResult{Status: encErr.Error()}, nil
		}
		if len(words) == 2 {
			_, err = t.client.WriteSingleRegister(m.Address, binary.BigEndian.Uint16(words))
		} else {
			_, err = t.client.WriteMultipleRegisters(m.Address, uint16(len(words)/2), words)
		}
	default:
		return models.WriteResult{Status: "read-only register " + m.Register}, nil
	}
	if err != nil {
		var mbErr *mb.ModbusError
		if errors.As(err, &mbErr) {
			return models.WriteResult{Status: mbErr.Error()}, nil
		}
		return models.WriteResult{}, fmt.Errorf("write %s: %w", id, err)
	}
	return models.WriteResult{OK: true, Status: "Success"}, nil
}

func (t *modbusTransport) Close() error {
	return t.handler.Close()
}

func (t *modbusTransport) readPoint(m RegisterMap) (any, error) {
	dt := strings.ToLower(m.DataType)
	switch strings.ToLower(m.Register) {
	case RegisterCoil:
		data, err := t.client.ReadCoils(m.Address, 1)
		if err != nil {
			return nil, err
		}
		return len(data) > 0 && data[0]&0x01 == 0x01, nil
	case RegisterDiscrete:
		data, err := t.client.ReadDiscreteInputs(m.Address, 1)
		if err != nil {
			return nil, err
		}
		return len(data) > 0 && data[0]&0x01 == 0x01, nil
	case RegisterHolding:
		data, err := t.client.ReadHoldingRegisters(m.Address, quantity(dt))
		if err != nil {
			return nil, err
		}
		return decodeRegisters(data, dt, m.ByteOrder)
	case RegisterInput:
		data, err := t.client.ReadInputRegisters(m.Address, quantity(dt))
		if err != nil {
			return nil, err
		}
		return decodeRegisters(data, dt, m.ByteOrder)
	default:
		return nil, fmt.Errorf("unsupported register type %q", m.Register)
	}
}

func quantity(dataType string) uint16 {
	switch dataType {
	case "int32", "uint32", "float32":
		return 2
	default:
		return 1
	}
}

func decodeRegisters(data []byte, dataType, byteOrder string) (any, error) {
	switch strings.ToLower(dataType) {
	case "", "int16":
		if len(data) < 2 {
			return nil, errors.New("insufficient data for int16")
		}
		return int16(binary.BigEndian.Uint16(data[:2])), nil
	case "uint16", "bool":
		if len(data) < 2 {
			return nil, errors.New("insufficient data for uint16")
		}
		return binary.BigEndian.Uint16(data[:2]), nil
	case "int32":
		if len(data) < 4 {
			return nil, errors.New("insufficient data for int32")
		}
		return int32(binary.BigEndian.Uint32(reorder32(data[:4], byteOrder))), nil
	case "uint32":
		if len(data) < 4 {
			return nil, errors.New("insufficient data for uint32")
		}
		return binary.BigEndian.Uint32(reorder32(data[:4], byteOrder)), nil
	case "float32":
		if len(data) < 4 {
			return nil, errors.New("insufficient data for float32")
		}
		return math.Float32frombits(binary.BigEndian.Uint32(reorder32(data[:4], byteOrder))), nil
	default:
		return nil, fmt.Errorf("unsupported data type %q", dataType)
	}
}

// encodeRegisters returns the register bytes for value, big-endian words.
func encodeRegisters(value float64, dataType, byteOrder string) ([]byte, error) {
	switch strings.ToLower(dataType) {
	case "", "int16", "uint16", "bool":
		v, err := registerWord(value, math.MinInt16, math.MaxUint16)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 2)
		binary.BigEndian.PutUint16(out, uint16(v))
		return out, nil
	case "int32", "uint32":
		v, err := registerWord(value, math.MinInt32, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 4)
		binary.BigEndian.PutUint32(out, uint32(v))
		return reorder32(out, byteOrder), nil
	case "float32":
		out := make([]byte, 4)
		binary.BigEndian.PutUint32(out, math.Float32bits(float32(value)))
		return reorder32(out, byteOrder), nil
	default:
		return nil, fmt.Errorf("unsupported data type %q", dataType)
	}
}

// registerWord truncates value and checks it fits a register of the given
// signed/unsigned span. Negative values are stored two's complement.
func registerWord(value float64, lo, hi int64) (int64, error) {
	v := math.Trunc(value)
	if math.IsNaN(v) || v < float64(lo) || v > float64(hi) {
		return 0, fmt.Errorf("value %v out of register range", value)
	}
	return int64(v), nil
}

// reorder32 converts between the given word/byte order and ABCD. Every
// supported order is its own inverse.
func reorder32(in []byte, order string) []byte {
	out := make([]byte, 4)
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case "DCBA":
		out[0], out[1], out[2], out[3] = in[3], in[2], in[1], in[0]
	case "BADC":
		out[0], out[1], out[2], out[3] = in[1], in[0], in[3], in[2]
	case "CDAB":
		out[0], out[1], out[2], out[3] = in[2], in[3], in[0], in[1]
	default:
		copy(out, in[:4])
	}
	return out
}
