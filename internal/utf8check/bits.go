package utf8check

const (
	contMask   byte = 0xC0 // 11xx xxxx
	contPrefix byte = 0x80 // 10xx xxxx
)

// Pattern keeps the low 8 bits of v. Higher bits are discarded, so 256
// becomes 0 and -1 becomes 0xFF.
func Pattern(v int) byte {
	return byte(v & 0xFF)
}

// Bits renders the low 8 bits of v most-significant bit first, e.g. 3 -> "00000011".
func Bits(v int) string {
	b := Pattern(v)
	var out [8]byte
	for i := 7; i >= 0; i-- {
		out[i] = '0' + b&1
		b >>= 1
	}
	return string(out[:])
}

// IsLeading reports whether b may open a sequence.
func IsLeading(b byte) bool {
	switch {
	case b&0x80 == 0x00:
		return true
	case b&0xE0 == 0xC0:
		return true
	case b&0xF0 == 0xE0:
		return true
	case b&0xF8 == 0xF0:
		return true
	default:
		return false
	}
}

// IsContinuation reports whether b has the 10xxxxxx form.
func IsContinuation(b byte) bool {
	return b&contMask == contPrefix
}

// SequenceLen returns the total length of the sequence b opens.
// b must already have passed IsLeading.
func SequenceLen(b byte) int {
	if b&0x80 == 0 {
		return 1
	}
	n := 0
	for b&0x80 != 0 {
		n++
		b <<= 1
	}
	return n
}
