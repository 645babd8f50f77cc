package utf8check

// Validate reports whether data decomposes into back-to-back well-formed
// sequences. Only the low 8 bits of each value are used. An empty input is
// valid.
func Validate(data []int) bool {
	return FirstInvalid(data) < 0
}

// ValidBytes is Validate over a byte slice.
func ValidBytes(p []byte) bool {
	return FirstInvalidBytes(p) < 0
}

// FirstInvalidBytes is FirstInvalid over a byte slice.
func FirstInvalidBytes(p []byte) int {
	return scan(len(p), func(i int) byte { return p[i] })
}

// ValidateStrict is Validate with values outside [0, 255] rejected instead
// of truncated.
func ValidateStrict(data []int) bool {
	for _, v := range data {
		if v < 0 || v > 0xFF {
			return false
		}
	}
	return Validate(data)
}

// FirstInvalid returns the offset of the sequence at which the scan
// rejected data, or -1 if data is valid. Truncated and malformed sequences
// report the same way.
func FirstInvalid(data []int) int {
	return scan(len(data), func(i int) byte { return Pattern(data[i]) })
}

func scan(n int, at func(int) byte) int {
	i := 0
	for i < n {
		b := at(i)
		if !IsLeading(b) {
			return i
		}
		size := SequenceLen(b)
		if size == 1 {
			i++
			continue
		}
		if n-i < size {
			return i
		}
		for j := i + 1; j < i+size; j++ {
			if !IsContinuation(at(j)) {
				return i
			}
		}
		i += size
	}
	return -1
}
