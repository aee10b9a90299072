package config

import "github.com/wtarreau/i2shell/types"

// Embedded per-board configuration. Typed Go values live in flash and need
// no parser at boot; add boards here (or via code generation) as targets
// grow.
var embeddedConfigs = map[string]boardConfig{
	"pico": {
		Gateway: types.GatewayConfig{
			Serial: types.SerialConfig{Port: "usb"},
			I2C: types.I2CConfig{
				Bus:         "i2c0",
				FrequencyHz: 100_000,
				SDAPin:      4,
				SCLPin:      5,
			},
		},
		Telemetry: types.TelemetryConfig{IntervalSec: 5},
	},
	"pico-uart": {
		Gateway: types.GatewayConfig{
			Serial: types.SerialConfig{Port: "uart0", Baud: 115_200, TXPin: 0, RXPin: 1},
			I2C: types.I2CConfig{
				Bus:         "i2c0",
				FrequencyHz: 400_000,
				SDAPin:      4,
				SCLPin:      5,
			},
		},
		Telemetry: types.TelemetryConfig{IntervalSec: 5},
	},
}
