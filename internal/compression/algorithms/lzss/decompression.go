package lzss

import (
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/pkg/errors"
)

// Unarchive decodes a stream written by Archive with the same window size. The
// reader must end exactly where the archived stream ends.
func Unarchive(input *bitstream.Reader, windowSize int) ([]byte, error) {
	if windowSize < 1 {
		return nil, codecerr.ErrArgumentOutOfRange.WithMessage(fmt.Sprintf("window size %d", windowSize))
	}

	out := []byte{}
	for input.Available() > 0 {
		flag, err := input.NextBit()
		if err != nil {
			return nil, err
		}
		searchLength := min(windowSize, len(out))

		if flag == literalFlag {
			symbol, err := input.ReadInt(8)
			if err != nil {
				return nil, errors.Wrap(err, "reading literal")
			}
			out = append(out, byte(symbol))
			continue
		}

		if searchLength == 0 {
			return nil, codecerr.ErrMalformedHeader.WithMessage("back-reference into an empty window")
		}
		distance, err := input.ReadInt(bitstream.BitsForNValues(searchLength))
		if err != nil {
			return nil, errors.Wrap(err, "reading match distance")
		}
		length, err := input.ReadMonotonous()
		if err != nil {
			return nil, errors.Wrap(err, "reading match length")
		}
		if int(distance) >= searchLength || length > uint64(windowSize) {
			return nil, codecerr.ErrMalformedHeader.WithMessage(
				fmt.Sprintf("match (d = %d, l = %d) outside a window of %d", distance, length, searchLength))
		}

		// Matches may overlap the bytes they produce, so copy one at a time.
		source := len(out) - int(distance) - 1
		for k := 0; k < int(length); k++ {
			out = append(out, out[source+k])
		}
	}
	return out, nil
}
