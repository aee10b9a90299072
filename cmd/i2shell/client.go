package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/wtarreau/i2shell/errcode"
	"github.com/wtarreau/i2shell/x/conv"
)

const (
	// replyTimeout bounds how long a single read waits for more gateway
	// output. The gateway answers within a character time, so this is
	// generous.
	replyTimeout = 200 * time.Millisecond

	// settleTime is how long Set and Scan linger after a write-only
	// exchange to catch a late fault token.
	settleTime = 120 * time.Millisecond
)

// Client wraps a serial connection to a gateway and frames the protocol's
// request/reply exchanges.
type Client struct {
	port serial.Port
	log  zerolog.Logger
}

// Dial opens the serial port described by cfg.
func Dial(cfg *Config, log zerolog.Logger) (*Client, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   cfg.SerialParity(),
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(replyTimeout); err != nil {
		port.Close()
		return nil, err
	}
	return &Client{port: port, log: log}, nil
}

func (c *Client) Close() error { return c.port.Close() }

// send writes one protocol command terminated by a newline.
func (c *Client) send(cmd string) error {
	c.log.Debug().Str("tx", cmd).Msg("send")
	_, err := c.port.Write([]byte(cmd + "\n"))
	return err
}

// collect reads gateway output until the port goes quiet for one read
// timeout, or until stop reports the accumulated text is complete.
func (c *Client) collect(stop func(string) bool) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 256)
	for {
		n, err := c.port.Read(buf)
		if err != nil {
			return sb.String(), err
		}
		if n == 0 {
			return sb.String(), nil
		}
		sb.Write(buf[:n])
		if stop != nil && stop(sb.String()) {
			return sb.String(), nil
		}
	}
}

// Get reads count bytes from device addr starting at register reg, using a
// write of the register pointer followed by a read.
func (c *Client) Get(addr, reg, count uint8) ([]byte, error) {
	if err := c.send(fmt.Sprintf("S%02XW%02XR%02X", addr, reg, count)); err != nil {
		return nil, err
	}
	out, err := c.collect(func(s string) bool {
		return strings.Contains(s, "\r\n")
	})
	if err != nil {
		return nil, err
	}
	return parseReadReply(out, int(count))
}

// Set writes data to device addr starting at register reg. Success is
// silent on the wire; a W! token within the settle window is an error.
func (c *Client) Set(addr, reg uint8, data []byte) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "S%02XW%02X", addr, reg)
	for _, b := range data {
		fmt.Fprintf(&sb, " %02X", b)
	}
	sb.WriteByte('P')
	if err := c.send(sb.String()); err != nil {
		return err
	}
	return c.expectSilence()
}

// Scan probes every 7-bit address with an empty write and returns the ones
// that acknowledged.
func (c *Client) Scan() ([]uint8, error) {
	var found []uint8
	for addr := uint8(0x03); addr <= 0x77; addr++ {
		if err := c.send(fmt.Sprintf("S%02XWP", addr)); err != nil {
			return found, err
		}
		if err := c.expectSilence(); err == nil {
			c.log.Debug().Uint8("addr", addr).Msg("ack")
			found = append(found, addr)
		}
	}
	return found, nil
}

// Raw sends cmd verbatim and returns the cleaned-up reply text.
func (c *Client) Raw(cmd string) (string, error) {
	if err := c.send(cmd); err != nil {
		return "", err
	}
	out, err := c.collect(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// expectSilence waits out the settle window and fails if a fault token
// shows up among the keep-alive filler.
func (c *Client) expectSilence() error {
	deadline := time.Now().Add(settleTime)
	var sb strings.Builder
	buf := make([]byte, 64)
	for time.Now().Before(deadline) {
		n, err := c.port.Read(buf)
		if err != nil {
			return err
		}
		sb.Write(buf[:n])
		if st, ok := faultStatus(sb.String()); ok {
			return fmt.Errorf("bus fault: %s", st)
		}
	}
	if st, ok := faultStatus(sb.String()); ok {
		return fmt.Errorf("bus fault: %s", st)
	}
	return nil
}

// faultStatus scans s for a W!xx or R!xx token and decodes its status.
func faultStatus(s string) (errcode.Status, bool) {
	for i := 0; i+3 < len(s); i++ {
		if (s[i] != 'W' && s[i] != 'R') || s[i+1] != '!' {
			continue
		}
		hi, ok1 := conv.DecodeHexDigit(s[i+2])
		lo, ok2 := conv.DecodeHexDigit(s[i+3])
		if ok1 && ok2 {
			return errcode.Status(conv.Accumulate(hi, lo)), true
		}
	}
	return errcode.OK, false
}

// parseReadReply extracts want data bytes from the gateway's reply line,
// ignoring keep-alive filler around it.
func parseReadReply(s string, want int) ([]byte, error) {
	if st, ok := faultStatus(s); ok {
		return nil, fmt.Errorf("bus fault: %s", st)
	}
	data := make([]byte, 0, want)
	var acc uint8
	nDig := 0
	for i := 0; i < len(s); i++ {
		d, ok := conv.DecodeHexDigit(s[i])
		if !ok {
			if nDig != 0 {
				return nil, fmt.Errorf("malformed reply %q", strings.TrimSpace(s))
			}
			continue
		}
		acc = conv.Accumulate(acc, d)
		if nDig++; nDig == 2 {
			data = append(data, acc)
			acc, nDig = 0, 0
		}
	}
	if len(data) != want {
		return nil, fmt.Errorf("short reply: got %d of %d bytes", len(data), want)
	}
	return data, nil
}
