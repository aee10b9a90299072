//go:build rp2040 || rp2350

package transport

import (
	"errors"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"github.com/wtarreau/i2shell/types"
	"github.com/wtarreau/i2shell/x/mathx"
)

// USB returns the CDC console as a Port. This is the usual gateway link:
// the host sees a plain USB-serial device.
func USB() Port { return usbPort{} }

type usbPort struct{}

func (usbPort) Buffered() int               { return machine.Serial.Buffered() }
func (usbPort) ReadByte() (byte, error)     { return machine.Serial.ReadByte() }
func (usbPort) Write(p []byte) (int, error) { return machine.Serial.Write(p) }

// Open selects the port named by cfg. Hardware UARTs go through uartx so RX
// is interrupt-fed and Buffered reflects the software ring, not the FIFO.
func Open(cfg types.SerialConfig) (Port, error) {
	var hw *uartx.UART
	switch cfg.Port {
	case "", "usb":
		return USB(), nil
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, errors.New("transport: unknown port " + cfg.Port)
	}
	baud := cfg.Baud
	if baud != 0 {
		baud = mathx.Clamp(baud, 1200, 1_000_000)
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.Pin(cfg.TXPin),
		RX:       machine.Pin(cfg.RXPin),
	}); err != nil {
		return nil, err
	}
	if cfg.Parity != types.ParityNone {
		par := uartx.ParityEven
		if cfg.Parity == types.ParityOdd {
			par = uartx.ParityOdd
		}
		if err := hw.SetFormat(8, 1, par); err != nil {
			return nil, err
		}
	}
	return uartPort{u: hw}, nil
}

type uartPort struct{ u *uartx.UART }

func (p uartPort) Buffered() int               { return p.u.Buffered() }
func (p uartPort) ReadByte() (byte, error)     { return p.u.ReadByte() }
func (p uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }
