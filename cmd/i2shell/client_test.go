package main

import (
	"bytes"
	"testing"

	"github.com/wtarreau/i2shell/errcode"
)

func TestParseReadReply(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  int
		data  []byte
		isErr bool
	}{
		{"plain", "12 34 56\r\n", 3, []byte{0x12, 0x34, 0x56}, false},
		{"leading filler", "\n  DE AD\r\n", 2, []byte{0xDE, 0xAD}, false},
		{"trailing filler", "00\r\n \n", 1, []byte{0x00}, false},
		{"zero count", "\r\n", 0, []byte{}, false},
		{"short", "12\r\n", 2, nil, true},
		{"odd digit", "12 3\r\n", 2, nil, true},
		{"write fault", "W!02\r\n", 1, nil, true},
		{"read fault", "R!05\r\n", 1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReadReply(tt.in, tt.want)
			if tt.isErr {
				if err == nil {
					t.Fatalf("parseReadReply(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReadReply(%q): %v", tt.in, err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("parseReadReply(%q) = % 02X, want % 02X", tt.in, got, tt.data)
			}
		})
	}
}

func TestFaultStatus(t *testing.T) {
	st, ok := faultStatus(" \n W!02\r\n")
	if !ok || st != errcode.AddrNACK {
		t.Errorf("got (%v, %v), want (AddrNACK, true)", st, ok)
	}
	st, ok = faultStatus("R!05\r\n")
	if !ok || st != errcode.Timeout {
		t.Errorf("got (%v, %v), want (Timeout, true)", st, ok)
	}
	if _, ok := faultStatus("12 34\r\n"); ok {
		t.Error("data line misread as fault")
	}
	// 'R' followed by '!' but broken hex is not a token.
	if _, ok := faultStatus("R!zz"); ok {
		t.Error("malformed token misread as fault")
	}
}
