//go:build rp2040 || rp2350

// Firmware entry point for the RP2040/RP2350 gateway: wires the embedded
// board config, the two-wire bus and the serial port into the gateway
// service and runs until power-off.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/wtarreau/i2shell/bus"
	"github.com/wtarreau/i2shell/services/config"
	"github.com/wtarreau/i2shell/services/gateway"
	"github.com/wtarreau/i2shell/services/telemetry"
	"github.com/wtarreau/i2shell/transport"
	"github.com/wtarreau/i2shell/types"
	"github.com/wtarreau/i2shell/wire"
)

// board selects the embedded config. Override with -ldflags if needed.
var board = "pico"

func main() {
	// Allow USB CDC to enumerate before anything prints.
	time.Sleep(2 * time.Second)
	println("Info: i2shell gateway boot, board", board)

	ctx := context.WithValue(context.Background(), config.CtxBoardKey, board)
	b := bus.NewBus(4)

	config.NewService().Start(ctx, b.NewConnection("config"))

	// The hardware cannot be wired before the retained config arrives.
	bootConn := b.NewConnection("boot")
	cfgSub := bootConn.Subscribe(config.TopicGateway)
	msg := <-cfgSub.Channel()
	cfg, ok := msg.Payload.(types.GatewayConfig)
	if !ok {
		println("Error: bad gateway config payload")
		return
	}
	bootConn.Close()

	i2c, err := openI2C(cfg.I2C)
	if err != nil {
		println("Error: i2c setup:", err.Error())
		return
	}
	port, err := transport.Open(cfg.Serial)
	if err != nil {
		println("Error: serial setup:", err.Error())
		return
	}

	svc := gateway.New(port, wire.New(i2c))
	tel := &telemetry.Service{}
	_ = tel.Start(ctx, b.NewConnection("telemetry"))

	println("Info: gateway ready on", cfg.Serial.Port)
	svc.Run(ctx, b.NewConnection("gateway"))
}

func openI2C(cfg types.I2CConfig) (*machine.I2C, error) {
	var hw *machine.I2C
	switch cfg.Bus {
	case "", "i2c0":
		hw = machine.I2C0
	default:
		hw = machine.I2C1
	}
	sda := machine.Pin(cfg.SDAPin)
	scl := machine.Pin(cfg.SCLPin)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	err := hw.Configure(machine.I2CConfig{
		SDA:       sda,
		SCL:       scl,
		Frequency: cfg.FrequencyHz,
	})
	return hw, err
}
