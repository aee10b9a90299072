package gateway

import (
	"io"

	"github.com/wtarreau/i2shell/errcode"
	"github.com/wtarreau/i2shell/types"
	"github.com/wtarreau/i2shell/x/conv"
)

// Bus is the transactional two-wire collaborator the parser drives. A write
// transaction is open between BeginTx and EndTx; RequestFrom buffers a read
// reply for Buffered/ReadByte draining. WriteByte statuses are not acted on
// here: write faults surface at EndTx, per the wire protocol.
type Bus interface {
	BeginTx(addr uint8)
	WriteByte(b byte) errcode.Status
	EndTx() errcode.Status
	RequestFrom(addr, count uint8) errcode.Status
	Buffered() int
	ReadByte() byte
}

// State is the parser's single persistent mode.
type State uint8

const (
	StateCommand State = iota // idle, between commands
	StateAddress              // accumulating an S address
	StateWrite                // payload bytes of an open write transaction
	StateReadCount            // accumulating an R byte count
	StateReceiving            // draining a read reply
)

// Parser decodes the hex command stream one character per step and drives
// the bus. It is single-owner state: Step must never be reentered.
type Parser struct {
	bus  Bus
	out  io.Writer
	echo *Echo

	state State
	addr  uint8 // active target, masked to 7 bits at the bus
	acc   uint8 // pending byte value
	nDig  uint8 // hex digits accumulated into acc, 0..2

	wrote bool // this step produced protocol output
	stats types.GatewayStats
}

func NewParser(bus Bus, out io.Writer, echo *Echo) *Parser {
	return &Parser{bus: bus, out: out, echo: echo}
}

// Stats returns a snapshot of the traffic counters.
func (p *Parser) Stats() types.GatewayStats { return p.stats }

// Step consumes one raw input character: normalize case, dispatch against
// the current state, and re-dispatch the same character once if it ended a
// command. Afterwards the keep-alive filler is armed unless the step wrote
// real output.
func (p *Parser) Step(c byte) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	p.stats.BytesIn++
	p.wrote = false

	if p.dispatch(c) {
		// Bounded to a single re-dispatch: the character that terminated
		// the previous command is the one that starts the next.
		p.dispatch(c)
	}

	switch {
	case p.wrote:
		p.echo.Disarm()
	case c == '\r' || c == '\n':
		p.echo.Arm('\n')
	default:
		p.echo.Arm(' ')
	}
}

func (p *Parser) dispatch(c byte) (again bool) {
	switch p.state {
	case StateAddress:
		return p.stepAddress(c)
	case StateWrite:
		return p.stepWrite(c)
	case StateReadCount:
		return p.stepReadCount(c)
	default:
		return p.stepCommand(c)
	}
}

func (p *Parser) stepCommand(c byte) bool {
	switch c {
	case 'S':
		p.addr = 0
		p.state = StateAddress
	case 'W':
		p.bus.BeginTx(p.addr & 0x7F)
		p.resetAcc()
		p.state = StateWrite
		p.stats.Writes++
	case 'R':
		p.resetAcc()
		p.state = StateReadCount
	case '?':
		p.help()
	}
	// Anything else, spaces and line ends included, is noise between
	// commands and is silently dropped.
	return false
}

func (p *Parser) stepAddress(c byte) bool {
	if d, ok := conv.DecodeHexDigit(c); ok {
		p.addr = conv.Accumulate(p.addr, d)
		return false
	}
	switch c {
	case 'S', 'P':
		// Resync: a stray address start or misplaced close while still
		// parsing the address resets the accumulator.
		p.addr = 0
		return false
	case 'W', 'R', '?':
		p.state = StateCommand
		return true
	}
	return false
}

func (p *Parser) stepWrite(c byte) bool {
	if d, ok := conv.DecodeHexDigit(c); ok {
		p.acc = conv.Accumulate(p.acc, d)
		p.nDig++
		if p.nDig == 2 {
			p.flushPending()
		}
		return false
	}
	// A single odd digit is flushed as its own byte on any terminator.
	if p.nDig == 1 {
		p.flushPending()
	}
	if c == ' ' {
		return false
	}
	// Everything else closes the transaction; a command letter then starts
	// the next command against this same character.
	if st := p.bus.EndTx(); st != errcode.OK {
		p.reportFault('W', st)
	}
	p.state = StateCommand
	return true
}

func (p *Parser) stepReadCount(c byte) bool {
	if d, ok := conv.DecodeHexDigit(c); ok {
		// Extra digits shift through the accumulator: the last two win.
		p.acc = conv.Accumulate(p.acc, d)
		if p.nDig < 2 {
			p.nDig++
		}
		return false
	}
	if c == ' ' {
		return false
	}
	if p.nDig == 0 {
		if c == '\r' || c == '\n' {
			return false
		}
		// Nothing accumulated: abandon the read attempt.
		p.state = StateCommand
		return true
	}
	count := p.acc
	p.resetAcc()
	p.stats.Reads++
	if st := p.bus.RequestFrom(p.addr&0x7F, count); st != errcode.OK {
		p.reportFault('R', st)
		p.state = StateCommand
		return true
	}
	p.state = StateReceiving
	p.receive()
	p.state = StateCommand
	return true
}

// receive hex-prints the reply, one space between pairs, then terminates
// the line. Buffered is polled per byte so a collaborator that refills its
// buffer lazily is still drained without loss.
func (p *Parser) receive() {
	var buf [3]byte
	first := true
	for p.bus.Buffered() > 0 {
		b := p.bus.ReadByte()
		n := 0
		if !first {
			buf[0] = ' '
			n = 1
		}
		first = false
		buf[n], buf[n+1] = conv.ByteHex(b)
		p.emit(buf[:n+2])
	}
	p.emit([]byte{'\r', '\n'})
}

// reportFault emits the inline bus fault token: W!xx or R!xx.
func (p *Parser) reportFault(op byte, st errcode.Status) {
	p.stats.BusFaults++
	hi, lo := conv.ByteHex(byte(st))
	p.emit([]byte{op, '!', hi, lo, '\r', '\n'})
}

func (p *Parser) flushPending() {
	p.bus.WriteByte(p.acc)
	p.resetAcc()
}

func (p *Parser) resetAcc() {
	p.acc, p.nDig = 0, 0
}

func (p *Parser) help() {
	n, _ := io.WriteString(p.out, helpText)
	p.stats.BytesOut += uint32(n)
	p.wrote = true
}

func (p *Parser) emit(b []byte) {
	n, _ := p.out.Write(b)
	p.stats.BytesOut += uint32(n)
	p.wrote = true
}
