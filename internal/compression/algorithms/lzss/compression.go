// Package lzss implements a sliding-window LZSS archiver. Every token is a flag
// bit followed by either a raw 8-bit literal or a back-reference made of a
// distance sized to the current window and a monotonous-coded length.
package lzss

import (
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/adilg123/bitarchiver/internal/compression/report"
)

const (
	literalFlag = 0
	matchFlag   = 1
)

// Archive writes the LZSS encoding of content to output using a window of at
// most windowSize symbols and returns the total size of output in bits.
func Archive(content []byte, output *bitstream.Writer, windowSize int, rep report.Reporter) (int, error) {
	if windowSize < 1 {
		return output.Size(), codecerr.ErrArgumentOutOfRange.WithMessage(fmt.Sprintf("window size %d", windowSize))
	}
	rep = report.OrNop(rep)

	win := newWindow(content, windowSize)
	var matches, nextMatches []int
	matchLength := 0
	position := 0
	for {
		if matchLength == 0 {
			if position == len(content) {
				break
			}
			symbol := content[position]
			matches = win.candidates(matches[:0], symbol)
			win.push()
			position++
			if len(matches) == 0 {
				writeLiteral(output, symbol, rep)
				win.trim()
			} else {
				matchLength = 1
			}
			continue
		}

		nextMatches = nextMatches[:0]
		if position < len(content) && matchLength < windowSize {
			symbol := content[position]
			for _, candidate := range matches {
				if content[candidate+matchLength] == symbol {
					nextMatches = append(nextMatches, candidate)
				}
			}
		}
		if len(nextMatches) == 0 {
			if err := writeMatch(output, win, matches[0], matchLength, rep); err != nil {
				return output.Size(), err
			}
			win.trim()
			matchLength = 0
			continue
		}
		matches, nextMatches = nextMatches, matches
		matchLength++
		win.push()
		position++
	}
	return output.Size(), nil
}

func writeLiteral(output *bitstream.Writer, symbol byte, rep report.Reporter) {
	output.WriteInt(literalFlag, 1)
	output.WriteInt(uint64(symbol), 8)
	if rep.Enabled() {
		rep.Printf("<- '%s': 0%s = (flag = 0, c = %d), 9 bits",
			rep.Symbol(symbol), bitstream.IntBits(uint64(symbol), 8), symbol)
	}
}

func writeMatch(output *bitstream.Writer, win *window, candidate, matchLength int, rep report.Reporter) error {
	matchStart := win.end - matchLength
	searchLength := matchStart - win.start
	distance := matchStart - candidate - 1
	distanceBits := bitstream.BitsForNValues(searchLength)

	output.WriteInt(matchFlag, 1)
	output.WriteInt(uint64(distance), distanceBits)
	if err := output.WriteMonotonous(uint64(matchLength)); err != nil {
		return err
	}
	if rep.Enabled() {
		lengthCode := bitstream.Monotonous(uint64(matchLength))
		rep.Printf("<- '%s': 1%s%s = (flag = 1, d = %d as %d bits, l = %d as monotonous %s), %d bits",
			report.Symbols(rep, win.content[candidate:candidate+matchLength]),
			bitstream.IntBits(uint64(distance), distanceBits), lengthCode,
			distance, distanceBits, matchLength, lengthCode,
			1+distanceBits+len(lengthCode))
	}
	return nil
}
