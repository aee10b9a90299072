package conv

const hexDigits = "0123456789ABCDEF"

// DecodeHexDigit converts one ASCII hex character to its 4-bit value.
// Accepts 0-9, A-F and a-f only; ok is false for everything else.
func DecodeHexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// Accumulate shifts digit into acc from the low nibble. Two calls
// reconstruct a byte, most significant digit first.
func Accumulate(acc, digit uint8) uint8 {
	return acc<<4 | digit
}

// ByteHex returns the two uppercase hex characters of b, most significant
// nibble first.
func ByteHex(b byte) (hi, lo byte) {
	return hexDigits[b>>4], hexDigits[b&0x0F]
}

// AppendByteHex appends the two-character uppercase hex form of b to dst.
func AppendByteHex(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
}
