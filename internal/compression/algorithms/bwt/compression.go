// Package bwt implements the Burrows-Wheeler archiver: the message is permuted
// by the Burrows-Wheeler transform, the result is run-length encoded and the
// run symbols are compressed with LZSS.
//
// Stream layout:
//
//	monotonous(run count) | monotonous(run length)* | rank | LZSS(run symbols)
//
// The rank takes BitsForNValues(message length) bits.
package bwt

import (
	"bytes"
	"strings"

	"github.com/adilg123/bitarchiver/internal/compression/algorithms/lzss"
	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/report"
	"github.com/pkg/errors"
)

// SymbolWindowSize is the LZSS window used for the run symbols.
const SymbolWindowSize = lzss.DefaultWindowSize

// Archive writes the encoding of message to output and returns the total size
// of output in bits.
func Archive(message []byte, output *bitstream.Writer, rep report.Reporter) (int, error) {
	rep = report.OrNop(rep)
	if len(message) == 0 {
		return output.Size(), nil
	}
	if rep.Enabled() {
		rep.Printf("Original message: %s", report.Symbols(rep, message))
		reportRotations(rep, message)
	}

	last, rank := Transform(message)
	if rep.Enabled() {
		rep.Printf("BWT result: '%s'", report.Symbols(rep, last))
		rep.Printf("Original message index in BWT result: %d", rank)
	}

	runs, err := GroupRuns(bytes.NewReader(last))
	if err != nil {
		return output.Size(), errors.Wrap(err, "grouping runs")
	}
	symbols := make([]byte, len(runs))
	for i, run := range runs {
		symbols[i] = run.Byte
	}
	if rep.Enabled() {
		rep.Printf("Run-length encoded (max length = %d): %d runs", MaxRunLength, len(runs))
		rep.Printf("symbols = '%s'", report.Symbols(rep, symbols))
	}

	if err := output.WriteMonotonous(uint64(len(runs))); err != nil {
		return output.Size(), err
	}
	if rep.Enabled() {
		rep.Printf("<- %s -- run-length-code message length %d as monotonous code",
			bitstream.Monotonous(uint64(len(runs))), len(runs))
	}
	for _, run := range runs {
		if err := output.WriteMonotonous(uint64(run.RunLength)); err != nil {
			return output.Size(), err
		}
		if rep.Enabled() {
			rep.Printf("<- %s -- monotonous code for %d", bitstream.Monotonous(uint64(run.RunLength)), run.RunLength)
		}
	}

	rankBits := bitstream.BitsForNValues(len(message))
	output.WriteInt(uint64(rank), rankBits)
	if rep.Enabled() {
		rep.Printf("Bits for the lengths and rank: %d", output.Size())
		rep.Printf("<- %s -- original message index %d in BWT as %d bits",
			bitstream.IntBits(uint64(rank), rankBits), rank, rankBits)
		rep.Printf("Compressing the symbols sequence with LZSS:")
	}

	bitsBeforeSymbols := output.Size()
	n, err := lzss.Archive(symbols, output, SymbolWindowSize, rep)
	if err != nil {
		return n, errors.Wrap(err, "compressing run symbols")
	}
	if rep.Enabled() {
		rep.Printf("Bits for the symbols: %d", n-bitsBeforeSymbols)
	}
	return n, nil
}

func reportRotations(rep report.Reporter, message []byte) {
	n := len(message)
	rotation := func(start int) string {
		var sb strings.Builder
		for k := 0; k < n; k++ {
			sb.WriteString(rep.Symbol(message[(start+k)%n]))
		}
		return sb.String()
	}
	rep.Printf("Cyclic shifts sorted:")
	for _, start := range sortedRotations(message) {
		rep.Printf("%d - %s", start, rotation(start))
	}
}
