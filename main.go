// Host simulator: runs the gateway against a simulated register bank with
// stdin/stdout standing in for the USB-serial link. Useful for poking at
// the protocol without hardware:
//
//	$ go run . <<< "S68 W00 R4"
package main

import (
	"context"
	"os"
	"time"

	"github.com/wtarreau/i2shell/bus"
	"github.com/wtarreau/i2shell/services/gateway"
	"github.com/wtarreau/i2shell/simbus"
	"github.com/wtarreau/i2shell/transport"
	"github.com/wtarreau/i2shell/wire"
)

func main() {
	bank := simbus.NewBank()
	dev := bank.Add(0x68)
	dev.Poke(0x00, 0x12, 0x34, 0x56, 0x78) // something to read back

	pipe := transport.NewPipe(4096)
	svc := gateway.New(pipe, wire.New(bank))

	b := bus.NewBus(4)
	ctx := context.Background()

	println("i2shell simulator: device at 0x68, type ? for help")
	go svc.Run(ctx, b.NewConnection("gateway"))

	// stdin -> device
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				for off := 0; off < n; {
					w := pipe.HostWrite(buf[off:n])
					if w == 0 {
						time.Sleep(time.Millisecond)
						continue
					}
					off += w
				}
			}
			if err != nil {
				// Give the gateway a moment to answer the final command.
				time.Sleep(50 * time.Millisecond)
				drain(pipe)
				os.Exit(0)
			}
		}
	}()

	// device -> stdout
	for {
		if !drain(pipe) {
			time.Sleep(time.Millisecond)
		}
	}
}

func drain(pipe *transport.Pipe) bool {
	var out [256]byte
	n := pipe.HostRead(out[:])
	if n == 0 {
		return false
	}
	os.Stdout.Write(out[:n])
	return true
}
