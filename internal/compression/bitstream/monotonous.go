package bitstream

import (
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
)

// Monotonous returns the monotonous code of i: the number of significant bits
// after the leading 1 in unary (ones closed by a zero), followed by those bits
// most-significant first. The leading 1 is implicit.
//
//	11 = 1011b -> 011 (3 bits) -> 1110 011
//
// Zero has no code; Monotonous panics when i < 1.
func Monotonous(i uint64) Bits {
	if i < 1 {
		panic(fmt.Sprintf("bitstream: monotonous code of %d", i))
	}
	tail := IntBits(i, -1)
	tail = tail[:len(tail)-1]
	out := make(Bits, 0, 2*len(tail)+1)
	for range tail {
		out = append(out, 1)
	}
	out = append(out, 0)
	for k := len(tail) - 1; k >= 0; k-- {
		out = append(out, tail[k])
	}
	return out
}

// WriteMonotonous appends the monotonous code of i to w.
func (w *Writer) WriteMonotonous(i uint64) error {
	if i < 1 {
		return codecerr.ErrArgumentOutOfRange.WithMessage(fmt.Sprintf("monotonous code of %d", i))
	}
	return w.WriteBits(Monotonous(i), -1)
}

// ReadMonotonous reads one monotonous code from r.
func (r *Reader) ReadMonotonous() (uint64, error) {
	length := 0
	for {
		bit, err := r.NextBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			break
		}
		length++
	}
	if length > 63 {
		return 0, codecerr.ErrMalformedHeader.WithMessage(fmt.Sprintf("monotonous code with %d bits", length+1))
	}
	value := uint64(1)
	for k := 0; k < length; k++ {
		bit, err := r.NextBit()
		if err != nil {
			return 0, err
		}
		value = value<<1 | uint64(bit)
	}
	return value, nil
}
