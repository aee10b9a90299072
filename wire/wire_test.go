package wire

import (
	"bytes"
	"testing"

	"github.com/wtarreau/i2shell/errcode"
)

// fakeI2C records transfers and can fail with a preset error.
type fakeI2C struct {
	calls []call
	err   error
	reply []byte
}

type call struct {
	addr uint16
	w    []byte
	rlen int
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.calls = append(f.calls, call{addr: addr, w: append([]byte(nil), w...), rlen: len(r)})
	if f.err != nil {
		return f.err
	}
	copy(r, f.reply)
	return nil
}

func TestWriteTransactionSingleTransfer(t *testing.T) {
	f := &fakeI2C{}
	w := New(f)

	w.BeginTx(0x68)
	w.WriteByte(0x10)
	w.WriteByte(0xAB)
	if st := w.EndTx(); st != errcode.OK {
		t.Fatalf("EndTx = %v", st)
	}

	if len(f.calls) != 1 {
		t.Fatalf("transfers = %d, want 1", len(f.calls))
	}
	c := f.calls[0]
	if c.addr != 0x68 || !bytes.Equal(c.w, []byte{0x10, 0xAB}) || c.rlen != 0 {
		t.Fatalf("unexpected transfer: %+v", c)
	}
}

func TestEmptyWriteStillProbesAddress(t *testing.T) {
	f := &fakeI2C{}
	w := New(f)
	w.BeginTx(0x20)
	if st := w.EndTx(); st != errcode.OK {
		t.Fatalf("EndTx = %v", st)
	}
	if len(f.calls) != 1 || len(f.calls[0].w) != 0 {
		t.Fatalf("empty write should issue a zero-length transfer: %+v", f.calls)
	}
}

func TestDataTooLong(t *testing.T) {
	f := &fakeI2C{}
	w := New(f)
	w.BeginTx(0x68)
	for i := 0; i < TxBufferSize; i++ {
		if st := w.WriteByte(byte(i)); st != errcode.OK {
			t.Fatalf("byte %d rejected: %v", i, st)
		}
	}
	if st := w.WriteByte(0xFF); st != errcode.DataTooLong {
		t.Fatalf("overflow byte = %v, want DataTooLong", st)
	}
	if st := w.EndTx(); st != errcode.DataTooLong {
		t.Fatalf("EndTx after overflow = %v, want DataTooLong", st)
	}
	if len(f.calls) != 0 {
		t.Fatal("overflowed transaction must not reach the bus")
	}
	// A new transaction clears the overflow.
	w.BeginTx(0x68)
	if st := w.EndTx(); st != errcode.OK {
		t.Fatalf("EndTx after reopen = %v", st)
	}
}

func TestEndTxMapsDriverError(t *testing.T) {
	f := &fakeI2C{err: errcode.ErrAddrNACK}
	w := New(f)
	w.BeginTx(0x42)
	w.WriteByte(1)
	if st := w.EndTx(); st != errcode.AddrNACK {
		t.Fatalf("EndTx = %v, want AddrNACK", st)
	}
}

func TestRequestFromBuffersReply(t *testing.T) {
	f := &fakeI2C{reply: []byte{1, 2, 3}}
	w := New(f)

	if st := w.RequestFrom(0x68, 3); st != errcode.OK {
		t.Fatalf("RequestFrom = %v", st)
	}
	if f.calls[0].addr != 0x68 || f.calls[0].rlen != 3 {
		t.Fatalf("unexpected transfer: %+v", f.calls[0])
	}
	var got []byte
	for w.Buffered() > 0 {
		got = append(got, w.ReadByte())
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("drained = %v", got)
	}
	if w.ReadByte() != 0 {
		t.Fatal("drained wire should read zero")
	}
}

func TestRequestFromZeroCount(t *testing.T) {
	f := &fakeI2C{}
	w := New(f)
	if st := w.RequestFrom(0x68, 0); st != errcode.OK {
		t.Fatalf("RequestFrom(0) = %v", st)
	}
	if len(f.calls) != 0 {
		t.Fatal("zero-byte request should not touch the bus")
	}
	if w.Buffered() != 0 {
		t.Fatal("zero-byte request should leave nothing buffered")
	}
}

func TestRequestFromError(t *testing.T) {
	f := &fakeI2C{err: errcode.ErrTimeout}
	w := New(f)
	if st := w.RequestFrom(0x68, 4); st != errcode.Timeout {
		t.Fatalf("RequestFrom = %v, want Timeout", st)
	}
	if w.Buffered() != 0 {
		t.Fatal("failed request should leave nothing buffered")
	}
}
