package models

import (
	"math"
	"strconv"
)

type valueKind uint8

const (
	valueAbsent valueKind = iota
	valueInt
	valueFloat
)

// Value is a coerced point value: an integer, a one-decimal float, or absent.
// The zero Value is absent.
type Value struct {
	kind valueKind
	i    int64
	f    float64
}

func Int(v int64) Value { return Value{kind: valueInt, i: v} }

// Float stores v rounded half away from zero to one decimal place.
func Float(v float64) Value { return Value{kind: valueFloat, f: math.Round(v*10) / 10} }

func Absent() Value { return Value{} }

func (v Value) IsAbsent() bool { return v.kind == valueAbsent }

func (v Value) IsFloat() bool { return v.kind == valueFloat }

// Int64 returns the integer form; ok is false for floats and absent values.
func (v Value) Int64() (int64, bool) {
	return v.i, v.kind == valueInt
}

// Float64 returns the numeric value as float64; ok is false when absent.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case valueInt:
		return float64(v.i), true
	case valueFloat:
		return v.f, true
	default:
		return 0, false
	}
}

func (v Value) String() string {
	switch v.kind {
	case valueInt:
		return strconv.FormatInt(v.i, 10)
	case valueFloat:
		return strconv.FormatFloat(v.f, 'f', 1, 64)
	default:
		return "null"
	}
}

// MarshalJSON encodes absent as null. Floats always carry their decimal so
// 30 minutes is sent as 30.0.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}
