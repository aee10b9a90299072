// Package simbus simulates a two-wire bus populated with register-bank
// devices. It implements the drivers.I2C transfer shape so the gateway can
// run end-to-end on a host with no hardware attached.
//
// Devices follow the common register-pointer convention: the first written
// byte selects a register, further bytes store through an auto-incrementing
// pointer, and reads stream from the pointer onward.
package simbus

import (
	"sync"

	"tinygo.org/x/drivers"

	"github.com/wtarreau/i2shell/errcode"
)

// Device is one simulated target: a 256-byte register file plus pointer.
type Device struct {
	regs [256]byte
	ptr  uint8
}

// Poke stores vals starting at reg, without moving the device pointer.
func (d *Device) Poke(reg uint8, vals ...byte) {
	for _, v := range vals {
		d.regs[reg] = v
		reg++
	}
}

// Peek returns the register value at reg.
func (d *Device) Peek(reg uint8) byte { return d.regs[reg] }

// Bank is the bus: a set of devices keyed by 7-bit address.
type Bank struct {
	mu  sync.Mutex
	dev map[uint16]*Device
}

var _ drivers.I2C = (*Bank)(nil)

func NewBank() *Bank {
	return &Bank{dev: map[uint16]*Device{}}
}

// Add attaches an all-zero device at addr and returns it.
func (b *Bank) Add(addr uint8) *Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := &Device{}
	b.dev[uint16(addr&0x7F)] = d
	return d
}

// Tx performs one transfer: write phase then read phase, as drivers.I2C
// requires. An absent device NACKs its address.
func (b *Bank) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := b.dev[addr]
	if d == nil {
		return errcode.ErrAddrNACK
	}
	if len(w) > 0 {
		d.ptr = w[0]
		for _, v := range w[1:] {
			d.regs[d.ptr] = v
			d.ptr++
		}
	}
	for i := range r {
		r[i] = d.regs[d.ptr]
		d.ptr++
	}
	return nil
}
