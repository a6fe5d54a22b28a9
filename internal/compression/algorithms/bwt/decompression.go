package bwt

import (
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/algorithms/lzss"
	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/pkg/errors"
)

// Unarchive decodes a stream written by Archive. The run symbols extend to the
// end of input, so the reader must end exactly where the archived stream ends.
func Unarchive(input *bitstream.Reader) ([]byte, error) {
	if input.Available() == 0 {
		return []byte{}, nil
	}

	runCount, err := input.ReadMonotonous()
	if err != nil {
		return nil, errors.Wrap(err, "reading run count")
	}
	if runCount > uint64(input.Available()) {
		return nil, codecerr.ErrMalformedHeader.WithMessage(
			fmt.Sprintf("%d runs in %d remaining bits", runCount, input.Available()))
	}

	lengths := make([]int, runCount)
	total := 0
	for i := range lengths {
		length, err := input.ReadMonotonous()
		if err != nil {
			return nil, errors.Wrap(err, "reading run length")
		}
		if length > MaxRunLength {
			return nil, codecerr.ErrMalformedHeader.WithMessage(fmt.Sprintf("run of %d symbols", length))
		}
		lengths[i] = int(length)
		total += int(length)
	}

	rank, err := input.ReadInt(bitstream.BitsForNValues(total))
	if err != nil {
		return nil, errors.Wrap(err, "reading rank")
	}

	symbols, err := lzss.Unarchive(input, SymbolWindowSize)
	if err != nil {
		return nil, errors.Wrap(err, "decompressing run symbols")
	}
	if len(symbols) != len(lengths) {
		return nil, codecerr.ErrMalformedHeader.WithMessage(
			fmt.Sprintf("%d run symbols for %d runs", len(symbols), len(lengths)))
	}

	last := make([]byte, 0, total)
	for i, symbol := range symbols {
		for k := 0; k < lengths[i]; k++ {
			last = append(last, symbol)
		}
	}
	return Inverse(last, int(rank))
}
