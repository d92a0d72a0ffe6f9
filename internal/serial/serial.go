// Package serial allocates the human-readable serial numbers printed on labels.
// A serial is a 2-letter prefix followed by a 6-digit zero-padded sequence
// number, e.g. PS000042.
package serial

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// DefaultPrefix is used when the store holds no labels yet.
	DefaultPrefix = "PS"

	// PrefixLen is the fixed number of characters before the sequence number.
	PrefixLen = 2

	// Digits is the zero-padded width of the sequence number.
	Digits = 6

	// MaxNumber is the largest sequence number that fits in Digits.
	MaxNumber = 999999
)

var (
	// ErrMalformed is returned when a stored serial cannot be parsed.
	ErrMalformed = errors.New("malformed serial number")

	// ErrExhausted is returned when a sequence would run past MaxNumber.
	ErrExhausted = errors.New("serial number sequence exhausted")
)

// First is the serial handed out for the very first label.
var First = Format(DefaultPrefix, 1)

// Serial is a parsed serial number.
type Serial struct {
	Prefix string
	Number int
}

// String renders the serial in its stored form.
func (s Serial) String() string {
	return Format(s.Prefix, s.Number)
}

// Format joins a prefix and sequence number into the stored form.
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, Digits, n)
}

// Parse splits a stored serial into prefix and sequence number.
func Parse(s string) (Serial, error) {
	if len(s) <= PrefixLen {
		return Serial{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	n, err := strconv.Atoi(s[PrefixLen:])
	if err != nil || n < 0 {
		return Serial{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return Serial{Prefix: s[:PrefixLen], Number: n}, nil
}

// Next derives the serial that follows last. An empty last means no label
// has been generated yet and yields First.
func Next(last string) (string, error) {
	if last == "" {
		return First, nil
	}
	start, err := Start(last)
	if err != nil {
		return "", err
	}
	return start.String(), nil
}

// Start returns the first serial of a new allocation following last.
func Start(last string) (Serial, error) {
	if last == "" {
		return Serial{Prefix: DefaultPrefix, Number: 1}, nil
	}
	s, err := Parse(last)
	if err != nil {
		return Serial{}, err
	}
	if s.Number >= MaxNumber {
		return Serial{}, fmt.Errorf("%w: %s", ErrExhausted, last)
	}
	s.Number++
	return s, nil
}

// Sequence returns n consecutive serials following last. The starting point
// is derived once; the remainder of the batch is incremented in memory.
func Sequence(last string, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sequence length must be positive, got %d", n)
	}
	start, err := Start(last)
	if err != nil {
		return nil, err
	}
	if start.Number+n-1 > MaxNumber {
		return nil, fmt.Errorf("%w: %d labels from %s", ErrExhausted, n, start)
	}

	out := make([]string, n)
	for i := range out {
		out[i] = Format(start.Prefix, start.Number+i)
	}
	return out, nil
}
