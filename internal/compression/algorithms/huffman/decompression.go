package huffman

import (
	"fmt"
	"math"

	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/pkg/errors"
)

const (
	alphabetSize = 256
	maxRepeat    = math.MaxInt32
)

type decodeNode struct {
	children [2]int
	symbol   int
}

// Unarchive decodes a stream written by Archive. The reader must end exactly
// where the archived stream ends. A lone-symbol stream declaring more than
// maxSize output bytes is rejected; maxSize <= 0 only applies the format's own
// limit.
func Unarchive(input *bitstream.Reader, maxSize int) ([]byte, error) {
	if maxSize <= 0 || maxSize > maxRepeat {
		maxSize = maxRepeat
	}

	if input.Available() == 0 {
		return []byte{}, nil
	}

	counts, err := readLeafCounts(input)
	if err != nil {
		return nil, err
	}
	slots, err := canonicalSlots(counts)
	if err != nil {
		return nil, err
	}

	nodes := []decodeNode{{children: [2]int{-1, -1}, symbol: noSymbol}}
	symbols := make([]byte, len(slots))
	for i, slot := range slots {
		value, err := input.ReadInt(8)
		if err != nil {
			return nil, errors.Wrap(err, "reading symbol list")
		}
		symbols[i] = byte(value)
		current := 0
		for _, bit := range slot.code {
			next := nodes[current].children[bit]
			if next < 0 {
				nodes = append(nodes, decodeNode{children: [2]int{-1, -1}, symbol: noSymbol})
				next = len(nodes) - 1
				nodes[current].children[bit] = next
			}
			current = next
		}
		nodes[current].symbol = int(symbols[i])
	}

	if len(slots) == 1 {
		repeat, err := input.ReadMonotonous()
		if err != nil {
			return nil, errors.Wrap(err, "reading repeat count")
		}
		if repeat > uint64(maxSize) {
			return nil, codecerr.ErrMalformedHeader.WithMessage(
				fmt.Sprintf("%d repetitions exceed the limit of %d", repeat, maxSize))
		}
		out := make([]byte, repeat)
		for i := range out {
			out[i] = symbols[0]
		}
		return out, nil
	}

	var out []byte
	for input.Available() > 0 {
		current := 0
		for nodes[current].symbol == noSymbol {
			bit, err := input.NextBit()
			if err != nil {
				return nil, errors.Wrap(err, "truncated code word")
			}
			current = nodes[current].children[bit]
		}
		out = append(out, byte(nodes[current].symbol))
	}
	return out, nil
}

// readLeafCounts reads per-depth leaf counts until every open slot of the tree
// is filled.
func readLeafCounts(input *bitstream.Reader) ([]int, error) {
	var counts []int
	maxLeafs, total := 1, 0
	for {
		nBits := bitstream.BitsForNValues(maxLeafs + 1)
		value, err := input.ReadInt(nBits)
		if err != nil {
			return nil, codecerr.ErrMalformedHeader.Wrap(err)
		}
		count := int(value)
		if count > maxLeafs {
			return nil, codecerr.ErrMalformedHeader.WithMessage(
				fmt.Sprintf("%d leaves on level %d, at most %d fit", count, len(counts), maxLeafs))
		}
		counts = append(counts, count)
		total += count
		open := maxLeafs - count
		if open == 0 {
			return counts, nil
		}
		maxLeafs = open * 2
		if maxLeafs > alphabetSize-total {
			return nil, codecerr.ErrMalformedHeader.WithMessage(
				fmt.Sprintf("%d open slots on level %d need more than %d symbols", maxLeafs, len(counts), alphabetSize))
		}
	}
}
