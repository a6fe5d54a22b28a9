// Package bitstream implements bit-granular output and input over byte buffers.
// Bits are packed least-significant-bit first within each byte, and integers are
// written least-significant bit first.
package bitstream

import (
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	bitmap "github.com/boljen/go-bitmap"
)

// Bits is an ordered sequence of 0/1 values.
type Bits []uint8

// String renders the sequence as a string of '0' and '1' characters.
func (b Bits) String() string {
	out := make([]byte, len(b))
	for i, bit := range b {
		out[i] = '0' + bit
	}
	return string(out)
}

// IntBits returns the low nBits bits of value, least-significant bit first. A
// negative nBits returns all bits up to the highest set one.
func IntBits(value uint64, nBits int) Bits {
	var out Bits
	for (nBits < 0 && value > 0) || len(out) < nBits {
		out = append(out, uint8(value&1))
		value >>= 1
	}
	return out
}

// BitsForNValues returns the number of bits needed to tell nValues different
// values apart.
func BitsForNValues(nValues int) int {
	result := 0
	for (1 << result) < nValues {
		result++
	}
	return result
}

// Writer accumulates bits into a growable byte buffer. Only the trailing,
// partially filled byte is ever modified.
type Writer struct {
	bytes        []byte
	bitsHolder   uint8
	bitsCount    uint
	bitsInStream int
}

func NewWriter() *Writer {
	return &Writer{}
}

// Size returns the number of bits written so far.
func (w *Writer) Size() int {
	return w.bitsInStream
}

func (w *Writer) WriteBit(bit uint8) error {
	if bit > 1 {
		return codecerr.ErrInvalidBitValue.WithMessage(fmt.Sprintf("%d", bit))
	}
	w.bitsHolder |= bit << w.bitsCount
	w.bitsCount++
	w.bitsInStream++
	if w.bitsCount == 8 {
		w.bytes = append(w.bytes, w.bitsHolder)
		w.bitsHolder = 0
		w.bitsCount = 0
	}
	return nil
}

// WriteBits writes exactly nBits bits of seq. A shorter seq is padded with
// zeros on its high end. Passing a negative nBits writes the whole sequence.
func (w *Writer) WriteBits(seq Bits, nBits int) error {
	if nBits < 0 {
		nBits = len(seq)
	}
	for i := 0; i < nBits; i++ {
		var bit uint8
		if i < len(seq) {
			bit = seq[i]
		}
		if err := w.WriteBit(bit); err != nil {
			return err
		}
	}
	return nil
}

// WriteInt writes the low nBits bits of value, least-significant bit first.
func (w *Writer) WriteInt(value uint64, nBits int) {
	for i := 0; i < nBits; i++ {
		// Only 0 or 1 can reach WriteBit here.
		_ = w.WriteBit(uint8(value & 1))
		value >>= 1
	}
}

// Bytes materializes the stream, padding the final byte with zero bits when the
// stream ends mid-byte.
func (w *Writer) Bytes() []byte {
	out := make([]byte, len(w.bytes), len(w.bytes)+1)
	copy(out, w.bytes)
	if w.bitsCount > 0 {
		out = append(out, w.bitsHolder)
	}
	return out
}

// Reader reads bits back from an immutable byte buffer.
type Reader struct {
	data     bitmap.Bitmap
	length   int
	position int
}

// NewReader reads every bit of data, including any trailing padding.
func NewReader(data []byte) *Reader {
	return NewReaderSize(data, len(data)*8)
}

// NewReaderSize reads only the first nBits bits of data. It is used to read a
// stream back with the exact size its writer reported.
func NewReaderSize(data []byte, nBits int) *Reader {
	if nBits > len(data)*8 {
		nBits = len(data) * 8
	}
	if nBits < 0 {
		nBits = 0
	}
	return &Reader{data: bitmap.Bitmap(data), length: nBits}
}

// Available returns the number of unread bits.
func (r *Reader) Available() int {
	return r.length - r.position
}

func (r *Reader) NextBit() (uint8, error) {
	if r.position >= r.length {
		return 0, codecerr.ErrStreamExhausted.WithMessage(fmt.Sprintf("bit %d of %d", r.position, r.length))
	}
	var bit uint8
	if r.data.Get(r.position) {
		bit = 1
	}
	r.position++
	return bit, nil
}

// NextBits reads up to n bits, stopping early at the end of the stream.
func (r *Reader) NextBits(n int) Bits {
	n = min(n, r.Available())
	out := make(Bits, n)
	for i := range out {
		out[i], _ = r.NextBit()
	}
	return out
}

// NextInt reads up to nBits bits and interprets them as an unsigned integer,
// least-significant bit first.
func (r *Reader) NextInt(nBits int) uint64 {
	var value uint64
	for i, bit := range r.NextBits(nBits) {
		value |= uint64(bit) << i
	}
	return value
}

// ReadInt is the strict form of NextInt: it fails instead of returning a short
// read when fewer than nBits bits remain.
func (r *Reader) ReadInt(nBits int) (uint64, error) {
	if r.Available() < nBits {
		return 0, codecerr.ErrStreamExhausted.WithMessage(
			fmt.Sprintf("need %d bits, %d available", nBits, r.Available()))
	}
	return r.NextInt(nBits), nil
}
