package transport

import (
	"errors"
	"io"

	"github.com/wtarreau/i2shell/x/ring"
)

var errPipeEmpty = errors.New("transport: pipe buffer empty")

// Pipe is an in-memory Port backed by two SPSC rings: one per direction.
// The gateway owns the Port side; a test or simulator drives the host side.
type Pipe struct {
	rx *ring.Ring // host -> device
	tx *ring.Ring // device -> host
}

// NewPipe allocates a pipe with power-of-two ring sizes. size <= 0 selects
// a default large enough for a full help screen plus a long read reply.
func NewPipe(size int) *Pipe {
	if size <= 0 {
		size = 1024
	}
	return &Pipe{rx: ring.New(size), tx: ring.New(size)}
}

// ---- device (Port) side ----

func (p *Pipe) Buffered() int { return p.rx.Used() }

func (p *Pipe) ReadByte() (byte, error) {
	b, ok := p.rx.ReadByte()
	if !ok {
		return 0, errPipeEmpty
	}
	return b, nil
}

func (p *Pipe) Write(b []byte) (int, error) {
	n := p.tx.Write(b)
	if n < len(b) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// ---- host side ----

// HostWrite feeds bytes toward the device and returns how many fit.
func (p *Pipe) HostWrite(b []byte) int { return p.rx.Write(b) }

// HostRead drains bytes the device has written.
func (p *Pipe) HostRead(b []byte) int { return p.tx.Read(b) }

// HostBuffered reports how much device output is waiting.
func (p *Pipe) HostBuffered() int { return p.tx.Used() }

// HostString drains all pending device output as a string. Test helper.
func (p *Pipe) HostString() string {
	out := make([]byte, p.tx.Used())
	n := p.tx.Read(out)
	return string(out[:n])
}
