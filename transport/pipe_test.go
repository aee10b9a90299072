package transport

import (
	"io"
	"testing"
)

func TestPipeRoundTrip(t *testing.T) {
	p := NewPipe(64)

	if p.HostWrite([]byte("S68")) != 3 {
		t.Fatal("HostWrite did not accept 3 bytes")
	}
	if p.Buffered() != 3 {
		t.Fatalf("Buffered = %d, want 3", p.Buffered())
	}
	for _, want := range []byte("S68") {
		b, err := p.ReadByte()
		if err != nil || b != want {
			t.Fatalf("ReadByte = %q %v, want %q", b, err, want)
		}
	}
	if _, err := p.ReadByte(); err == nil {
		t.Fatal("ReadByte on empty pipe should error")
	}

	if _, err := p.Write([]byte("00 01\r\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := p.HostString(); got != "00 01\r\n" {
		t.Fatalf("HostString = %q", got)
	}
}

func TestPipeShortWrite(t *testing.T) {
	p := NewPipe(4)
	n, err := p.Write([]byte("123456"))
	if err != io.ErrShortWrite || n != 4 {
		t.Fatalf("Write = %d %v, want 4 ErrShortWrite", n, err)
	}
}

func TestPipeDefaultSize(t *testing.T) {
	p := NewPipe(0)
	big := make([]byte, 512)
	if n, err := p.Write(big); n != 512 || err != nil {
		t.Fatalf("default pipe should hold 512 bytes, got %d %v", n, err)
	}
}
