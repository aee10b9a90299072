// Package wire adapts a transfer-oriented two-wire bus (the tinygo drivers
// Tx shape: one write phase, one read phase, repeated start in between) to
// the transactional begin/send/end/request model the gateway parser drives.
//
// Writes are buffered between BeginTx and EndTx and issued as a single
// transfer on close, which is where the wire protocol reports faults.
// RequestFrom performs the whole read transfer up front and buffers the
// reply for Buffered/ReadByte draining.
package wire

import (
	"tinygo.org/x/drivers"

	"github.com/wtarreau/i2shell/errcode"
)

// TxBufferSize bounds one write transaction's payload, matching the classic
// Wire convention. Excess bytes are dropped and reported as "data too long"
// when the transaction closes.
const TxBufferSize = 32

type Wire struct {
	bus drivers.I2C

	addr     uint16
	wbuf     [TxBufferSize]byte
	wn       int
	overflow bool

	rbuf [256]byte // read counts are a single protocol byte
	rn   int
	rpos int
}

func New(bus drivers.I2C) *Wire {
	return &Wire{bus: bus}
}

// BeginTx opens a write transaction to the 7-bit address addr.
func (w *Wire) BeginTx(addr uint8) {
	w.addr = uint16(addr)
	w.wn = 0
	w.overflow = false
}

// WriteByte queues one payload byte. The status is recorded, not surfaced:
// the protocol only reports write faults at EndTx.
func (w *Wire) WriteByte(b byte) errcode.Status {
	if w.wn >= TxBufferSize {
		w.overflow = true
		return errcode.DataTooLong
	}
	w.wbuf[w.wn] = b
	w.wn++
	return errcode.OK
}

// EndTx issues the buffered write as one transfer and returns its status.
func (w *Wire) EndTx() errcode.Status {
	if w.overflow {
		return errcode.DataTooLong
	}
	return errcode.Of(w.bus.Tx(w.addr, w.wbuf[:w.wn], nil))
}

// RequestFrom reads count bytes from addr into the reply buffer.
func (w *Wire) RequestFrom(addr uint8, count uint8) errcode.Status {
	w.rn, w.rpos = 0, 0
	if count == 0 {
		return errcode.OK
	}
	if err := w.bus.Tx(uint16(addr), nil, w.rbuf[:count]); err != nil {
		return errcode.Of(err)
	}
	w.rn = int(count)
	return errcode.OK
}

// Buffered reports how many reply bytes remain undrained.
func (w *Wire) Buffered() int { return w.rn - w.rpos }

// ReadByte pops the next reply byte; zero when the buffer is drained.
func (w *Wire) ReadByte() byte {
	if w.rpos >= w.rn {
		return 0
	}
	b := w.rbuf[w.rpos]
	w.rpos++
	return b
}
