package ring

import "sync/atomic"

// Ring is a single-producer, single-consumer byte ring. Indices are
// monotonic; the buffer length must be a power of two so wrap-around is a
// mask. Safe for one writer goroutine and one reader goroutine without
// locks.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index
	wr   atomic.Uint32 // producer index
}

// New allocates a ring of the given size (power of two, >= 2).
func New(size int) *Ring {
	if size < 2 || size&(size-1) != 0 {
		panic("ring: size must be power of two >= 2")
	}
	return &Ring{buf: make([]byte, size), mask: uint32(size - 1)}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

// Used returns the number of buffered bytes.
func (r *Ring) Used() int {
	return int(r.wr.Load() - r.rd.Load())
}

// Space returns the number of bytes that can be written without blocking.
func (r *Ring) Space() int {
	return int(r.size()) - r.Used()
}

// Write copies as much of src as fits and returns the count.
func (r *Ring) Write(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	space := int(r.size() - (wr - rd))
	if space <= 0 {
		return 0
	}
	n := len(src)
	if n > space {
		n = space
	}
	wrIdx := wr & r.mask
	first := int(r.size() - wrIdx)
	if first > n {
		first = n
	}
	copy(r.buf[wrIdx:wrIdx+uint32(first)], src[:first])
	if second := n - first; second > 0 {
		copy(r.buf[:second], src[first:n])
	}
	r.wr.Store(wr + uint32(n)) // release
	return n
}

// WriteByte stores a single byte; reports false when full.
func (r *Ring) WriteByte(b byte) bool {
	var one [1]byte
	one[0] = b
	return r.Write(one[:]) == 1
}

// Read copies up to len(dst) buffered bytes into dst.
func (r *Ring) Read(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	avail := int(wr - rd)
	if avail <= 0 {
		return 0
	}
	n := len(dst)
	if n > avail {
		n = avail
	}
	rdIdx := rd & r.mask
	first := int(r.size() - rdIdx)
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[rdIdx:rdIdx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], r.buf[:second])
	}
	r.rd.Store(rd + uint32(n)) // release
	return n
}

// ReadByte pops a single byte; ok is false when the ring is empty.
func (r *Ring) ReadByte() (byte, bool) {
	var one [1]byte
	if r.Read(one[:]) == 0 {
		return 0, false
	}
	return one[0], true
}
