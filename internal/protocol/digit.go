package protocol

// Digit decodes an ASCII decimal digit slot. Bytes outside '0'..'9' decode to 0.
func Digit(b byte) int {
	if b >= '0' && b <= '9' {
		return int(b - '0')
	}
	return 0
}

// digits2 decodes two adjacent digit slots as a two-digit number.
func digits2(hi, lo byte) int {
	return Digit(hi)*10 + Digit(lo)
}

// MessageID returns the two-digit identifier at the start of a payload.
func MessageID(payload []byte) (int, bool) {
	if len(payload) < 2 {
		return 0, false
	}
	return digits2(payload[0], payload[1]), true
}
