package errcode

import (
	"errors"
	"strings"
)

// Status is the single-byte result of a bus transaction. Nonzero values are
// reported on the wire as the hex suffix of a W! or R! fault token. Codes
// follow the classic two-wire convention.
type Status uint8

const (
	OK          Status = 0
	DataTooLong Status = 1 // write payload exceeded the transmit buffer
	AddrNACK    Status = 2 // no acknowledge on the address byte
	DataNACK    Status = 3 // no acknowledge on a data byte
	BusError    Status = 4 // generic fallback
	Timeout     Status = 5
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case DataTooLong:
		return "data_too_long"
	case AddrNACK:
		return "addr_nack"
	case DataNACK:
		return "data_nack"
	case Timeout:
		return "timeout"
	default:
		return "bus_error"
	}
}

// Sentinel errors for drivers that want exact status mapping.
var (
	ErrDataTooLong = errors.New("i2c: data too long")
	ErrAddrNACK    = errors.New("i2c: address not acknowledged")
	ErrDataNACK    = errors.New("i2c: data not acknowledged")
	ErrTimeout     = errors.New("i2c: timeout")
)

// Statuser lets an error carry its own wire status.
type Statuser interface{ BusStatus() Status }

// Of maps a driver error to a wire status. Unknown errors fall back to
// BusError; string heuristics cover platform drivers (machine.I2C and
// friends) whose errors are not exported.
func Of(err error) Status {
	if err == nil {
		return OK
	}
	if s, ok := err.(Statuser); ok {
		return s.BusStatus()
	}
	switch {
	case errors.Is(err, ErrDataTooLong):
		return DataTooLong
	case errors.Is(err, ErrAddrNACK):
		return AddrNACK
	case errors.Is(err, ErrDataNACK):
		return DataNACK
	case errors.Is(err, ErrTimeout):
		return Timeout
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "timeout"):
		return Timeout
	case strings.Contains(msg, "ack"):
		return AddrNACK
	}
	return BusError
}
