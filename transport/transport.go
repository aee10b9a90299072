// Package transport abstracts the byte-stream link between the gateway and
// its host: USB CDC or a hardware UART on real targets, an in-memory pipe
// in tests and the host simulator.
package transport

// Port is the non-blocking byte stream the gateway polls. Buffered reports
// how many received bytes are waiting; ReadByte must only be called when
// Buffered returns nonzero.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}
