package types

import (
	"fmt"

	"github.com/wtarreau/i2shell/x/mathx"
	"github.com/wtarreau/i2shell/x/strx"
)

// ------------------------
// Serial link
// ------------------------

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "none"
	}
}

// ParseParity maps a config-file spelling onto a Parity. The empty string
// means none.
func ParseParity(s string) (Parity, error) {
	switch s {
	case "", "none":
		return ParityNone, nil
	case "even":
		return ParityEven, nil
	case "odd":
		return ParityOdd, nil
	}
	return ParityNone, fmt.Errorf("unknown parity %q", s)
}

// SerialConfig selects and configures the byte-stream transport on targets
// that have a choice. Port "usb" is the CDC console; "uart0"/"uart1" are
// hardware UARTs.
type SerialConfig struct {
	Port   string `json:"port"`
	Baud   uint32 `json:"baud"`
	TXPin  int    `json:"tx_pin"`
	RXPin  int    `json:"rx_pin"`
	Parity Parity `json:"parity"`
}

// ------------------------
// Two-wire bus
// ------------------------

type I2CConfig struct {
	Bus         string `json:"bus"` // "i2c0" or "i2c1"
	FrequencyHz uint32 `json:"frequency_hz"`
	SDAPin      int    `json:"sda_pin"`
	SCLPin      int    `json:"scl_pin"`
}

// ------------------------
// Gateway
// ------------------------

// GatewayConfig is published retained on "config/gateway" at boot.
type GatewayConfig struct {
	Serial SerialConfig `json:"serial"`
	I2C    I2CConfig    `json:"i2c"`
}

// Normalize fills defaults and clamps hardware parameters to sane ranges.
func (c *GatewayConfig) Normalize() {
	c.Serial.Port = strx.Coalesce(c.Serial.Port, "usb")
	c.I2C.Bus = strx.Coalesce(c.I2C.Bus, "i2c0")
	if c.I2C.FrequencyHz == 0 {
		c.I2C.FrequencyHz = 100_000
	}
	c.I2C.FrequencyHz = mathx.Clamp(c.I2C.FrequencyHz, 10_000, 1_000_000)
}

// TelemetryConfig is published retained on "config/telemetry".
type TelemetryConfig struct {
	IntervalSec uint32 `json:"interval_sec"` // 0 disables the periodic report
}

// GatewayStats is the counter snapshot the gateway publishes retained on
// "gateway/stats" and the telemetry service prints.
type GatewayStats struct {
	BytesIn   uint32 `json:"bytes_in"`
	BytesOut  uint32 `json:"bytes_out"`
	Writes    uint32 `json:"writes"`    // transactions opened
	Reads     uint32 `json:"reads"`     // read requests issued
	BusFaults uint32 `json:"bus_faults"`
}
