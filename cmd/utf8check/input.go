package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseInts reads integers separated by spaces, tabs or commas. Values may be
// decimal, 0x-hex, 0o-octal or 0b-binary, with an optional sign; brackets are
// ignored so "[197, 130, 1]" is accepted.
func parseInts(line string) ([]int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ' ', '\t', ',', '[', ']', '\r':
			return true
		}
		return false
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		out = append(out, int(v))
	}
	return out, nil
}
