//go:build rp2040 || rp2350

// bus-scan is a bring-up check: it configures the two-wire bus from the
// embedded board config and probes every 7-bit address, printing the ones
// that acknowledge. Flash it before the gateway to verify wiring.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/wtarreau/i2shell/bus"
	"github.com/wtarreau/i2shell/errcode"
	"github.com/wtarreau/i2shell/services/config"
	"github.com/wtarreau/i2shell/types"
	"github.com/wtarreau/i2shell/wire"
	"github.com/wtarreau/i2shell/x/conv"
)

var board = "pico"

func main() {
	time.Sleep(2 * time.Second)
	println("Info: bus-scan boot, board", board)

	ctx := context.WithValue(context.Background(), config.CtxBoardKey, board)
	b := bus.NewBus(4)
	config.NewService().Start(ctx, b.NewConnection("config"))

	bootConn := b.NewConnection("boot")
	cfgSub := bootConn.Subscribe(config.TopicGateway)
	msg := <-cfgSub.Channel()
	cfg, ok := msg.Payload.(types.GatewayConfig)
	if !ok {
		println("Error: bad gateway config payload")
		return
	}
	bootConn.Close()

	hw, err := openI2C(cfg.I2C)
	if err != nil {
		println("Error: i2c setup:", err.Error())
		return
	}
	w := wire.New(hw)

	for {
		found := 0
		for addr := uint8(0x03); addr <= 0x77; addr++ {
			w.BeginTx(addr)
			if st := w.EndTx(); st == errcode.OK {
				println(string(conv.AppendByteHex([]byte("Info: device at 0x"), addr)))
				found++
			}
		}
		println("Info: scan done,", found, "device(s)")
		time.Sleep(5 * time.Second)
	}
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
