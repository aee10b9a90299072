package gateway

import "io"

// Echo schedules the keep-alive filler: a single byte armed whenever a
// parser step produced no protocol output, flushed only when the input side
// is momentarily idle. Upstream USB-serial stacks treat a silent link as
// stalled, so the gateway guarantees outbound traffic shortly after every
// inbound byte.
type Echo struct {
	armed bool
	b     byte
}

// Arm schedules b as the next filler, replacing any previous one.
func (e *Echo) Arm(b byte) { e.b, e.armed = b, true }

// Disarm cancels the pending filler; called when a step wrote real output.
func (e *Echo) Disarm() { e.armed = false }

func (e *Echo) Armed() bool { return e.armed }

// Flush writes the armed filler to w and disarms. Reports whether anything
// was written.
func (e *Echo) Flush(w io.Writer) bool {
	if !e.armed {
		return false
	}
	e.armed = false
	var one [1]byte
	one[0] = e.b
	w.Write(one[:])
	return true
}
