package utf8check

import (
	"slices"
	"testing"
)

func TestValidateKnownStreams(t *testing.T) {
	cases := []struct {
		name string
		in   []int
		want bool
	}{
		{"empty", []int{}, true},
		{"nil", nil, true},
		{"two byte then ascii", []int{197, 130, 1}, true},
		{"three byte", []int{235, 140, 4}, true},
		{"three byte then ff", []int{235, 140, 4, 255}, false},
		{"ff alone", []int{255}, false},
		{"truncated two byte", []int{192}, false},
		{"continuation first", []int{0x80, 0x41}, false},
		{"four byte", []int{0xF0, 0x9F, 0x98, 0x80}, true},
		{"four byte truncated", []int{0xF0, 0x9F, 0x98}, false},
		{"bad continuation", []int{0xE2, 0x82, 0x41}, false},
		{"five leading ones", []int{0xF8, 0x80, 0x80, 0x80, 0x80}, false},
		{"truncated values", []int{256 + 0xC5, 0x82 - 256, 1}, true},
		{"ascii", []int{72, 101, 108, 108, 111}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Validate(tc.in); got != tc.want {
				t.Fatalf("Validate(%v): got %v want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	in := []int{467, 130, 1, -1}
	orig := slices.Clone(in)
	first := Validate(in)
	second := Validate(in)
	if first != second {
		t.Fatalf("validate is not idempotent: %v then %v", first, second)
	}
	if !slices.Equal(in, orig) {
		t.Fatalf("input mutated: got %v want %v", in, orig)
	}
}

func TestValidateRepeatedSequences(t *testing.T) {
	seqs := [][]int{
		{0x41},
		{0xC5, 0x82},
		{0xEB, 0x8C, 0x84},
		{0xF0, 0x9F, 0x98, 0x80},
	}
	for n, seq := range seqs {
		for k := 0; k <= 8; k++ {
			var in []int
			for range k {
				in = append(in, seq...)
			}
			if !Validate(in) {
				t.Fatalf("length %d sequence repeated %d times rejected: %v", n+1, k, in)
			}
			if k > 0 && n > 0 && Validate(in[:len(in)-1]) {
				t.Fatalf("length %d sequence repeated %d times accepted after truncation", n+1, k)
			}
		}
	}
}

func TestFirstInvalidReportsSequenceStart(t *testing.T) {
	cases := []struct {
		in   []int
		want int
	}{
		{[]int{}, -1},
		{[]int{197, 130, 1}, -1},
		{[]int{235, 140, 4, 255}, 3},
		{[]int{0x41, 0xE2, 0x82, 0x41}, 1},
		{[]int{0x41, 0x42, 0xC0}, 2},
		{[]int{0x80}, 0},
	}
	for _, tc := range cases {
		if got := FirstInvalid(tc.in); got != tc.want {
			t.Fatalf("FirstInvalid(%v): got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestValidBytesMatchesValidate(t *testing.T) {
	streams := [][]byte{
		{},
		[]byte("héllo wörld"),
		[]byte("日本語"),
		{0xC5, 0x82, 0x01},
		{0xEB, 0x8C, 0x04, 0xFF},
		{0xC0},
		{0xF4, 0x90, 0x80, 0x80},
		{'a', 'b', 0xE2, 0x82, 0x41},
	}
	for _, p := range streams {
		ints := make([]int, len(p))
		for i, b := range p {
			ints[i] = int(b)
		}
		if ValidBytes(p) != Validate(ints) {
			t.Fatalf("ValidBytes and Validate disagree on %v", p)
		}
		if got, want := FirstInvalidBytes(p), FirstInvalid(ints); got != want {
			t.Fatalf("FirstInvalidBytes(%v): got %d want %d", p, got, want)
		}
	}
}

func TestValidateStrictRejectsOutOfRange(t *testing.T) {
	if ValidateStrict([]int{256 + 0xC5, 0x82, 1}) {
		t.Fatalf("expected out-of-range value to be rejected")
	}
	if ValidateStrict([]int{-1}) {
		t.Fatalf("expected negative value to be rejected")
	}
	if !ValidateStrict([]int{197, 130, 1}) {
		t.Fatalf("expected in-range valid stream to be accepted")
	}
	if ValidateStrict([]int{192}) {
		t.Fatalf("expected truncated stream to be rejected")
	}
}
