// Package huffman implements a canonical Huffman archiver. The tree is stored as
// the number of leaves at every depth followed by the symbols in left-to-right
// order, which is enough for a decoder to rebuild every code.
//
// Input made of a single distinct symbol has an empty code; its body is the
// monotonous-coded input length instead of one code word per symbol.
package huffman

import (
	"sort"

	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/report"
	"github.com/pkg/errors"
)

// Archive writes the canonical Huffman encoding of content to output and returns
// the total size of output in bits.
func Archive(content []byte, output *bitstream.Writer, rep report.Reporter) (int, error) {
	rep = report.OrNop(rep)
	if len(content) == 0 {
		return output.Size(), nil
	}
	if rep.Enabled() {
		rep.Printf("Input: %s --- %d bytes total", report.Symbols(rep, content), len(content))
		reportHistogram(rep, content)
	}

	table, err := BuildCodeTable(content)
	if err != nil {
		return output.Size(), errors.Wrap(err, "building code table")
	}
	if rep.Enabled() {
		rep.Printf("Code:")
		for _, symbol := range table.Symbols {
			rep.Printf("%s -> %s", rep.Symbol(symbol), table.Codes[symbol])
		}
	}

	writeHeader(table, output, rep)

	if len(table.Symbols) == 1 {
		// A lone symbol has an empty code, so only the repeat count is stored.
		if rep.Enabled() {
			rep.Printf("<- %s -- %d repetitions as monotonous code", bitstream.Monotonous(uint64(len(content))), len(content))
		}
		if err := output.WriteMonotonous(uint64(len(content))); err != nil {
			return output.Size(), err
		}
		return output.Size(), nil
	}

	for _, b := range content {
		code := table.Codes[b]
		if rep.Enabled() {
			rep.Printf("<- %s -- code word for '%s'", code, rep.Symbol(b))
		}
		if err := output.WriteBits(code, -1); err != nil {
			return output.Size(), err
		}
	}
	return output.Size(), nil
}

func writeHeader(table *CodeTable, output *bitstream.Writer, rep report.Reporter) {
	for depth, maxLeafs := range leafBudgets(table.LeafCounts) {
		count := table.LeafCounts[depth]
		nBits := bitstream.BitsForNValues(maxLeafs + 1)
		if rep.Enabled() {
			rep.Printf("<- %d as %d bits -- %d out of %d leaves on level %d", count, nBits, count, maxLeafs, depth)
		}
		output.WriteInt(uint64(count), nBits)
	}
	for _, symbol := range table.Symbols {
		if rep.Enabled() {
			rep.Printf("<- %d as 8 bits -- character '%s' in left-to-right tree traverse", symbol, rep.Symbol(symbol))
		}
		output.WriteInt(uint64(symbol), 8)
	}
}

func reportHistogram(rep report.Reporter, content []byte) {
	var symbolFreq [256]int
	var symbols []int
	for _, b := range content {
		if symbolFreq[b] == 0 {
			symbols = append(symbols, int(b))
		}
		symbolFreq[b]++
	}
	sort.SliceStable(symbols, func(i, j int) bool {
		return symbolFreq[symbols[i]] > symbolFreq[symbols[j]]
	})
	rep.Printf("Frequencies histogram:")
	for _, s := range symbols {
		rep.Printf("%s -> %d", rep.Symbol(byte(s)), symbolFreq[s])
	}
}
