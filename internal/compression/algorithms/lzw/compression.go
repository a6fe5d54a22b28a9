// Package lzw implements an LZW archiver over a trie dictionary. With a
// predefined alphabet the dictionary starts with one entry per alphabet symbol;
// without one it starts empty and new symbols are sent after the reserved
// escape code 0.
package lzw

import (
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/adilg123/bitarchiver/internal/compression/report"
)

const escapeCode = 0

// Archive writes the LZW encoding of content to output and returns the total
// size of output in bits. An empty alphabet selects escape-code mode. Every
// code is written with as many bits as the dictionary size requires, counting
// the entry the emission adds. The final code adds no entry.
func Archive(content []byte, output *bitstream.Writer, alphabet []byte, rep report.Reporter) (int, error) {
	rep = report.OrNop(rep)
	escaping := len(alphabet) == 0

	dictionary := newTrie()
	dictionary.seed(alphabet)
	if rep.Enabled() {
		for _, symbol := range alphabet {
			id, _ := dictionary.child(0, symbol)
			rep.Printf("Added '%s' as id = %d", rep.Symbol(symbol), id)
		}
	}
	if !escaping {
		for i, b := range content {
			if _, ok := dictionary.child(0, b); !ok {
				return output.Size(), codecerr.ErrUnknownSymbol.WithMessage(
					fmt.Sprintf("byte %#02x at offset %d is not in the predefined alphabet", b, i))
			}
		}
	}

	position := 0
	for position < len(content) {
		match, matchLength := 0, 0
		for position+matchLength < len(content) {
			next, ok := dictionary.child(match, content[position+matchLength])
			if !ok {
				break
			}
			match = next
			matchLength++
		}

		if matchLength == 0 {
			symbol := content[position]
			id := dictionary.insert(0, symbol)
			nBits := bitstream.BitsForNValues(dictionary.size())
			output.WriteInt(escapeCode, nBits)
			output.WriteInt(uint64(symbol), 8)
			if rep.Enabled() {
				rep.Printf("<- '%s': %s%s = (0 as %d bits, '%s' as 8 bits), added '%s' as id = %d",
					rep.Symbol(symbol), bitstream.IntBits(escapeCode, nBits), bitstream.IntBits(uint64(symbol), 8),
					nBits, rep.Symbol(symbol), rep.Symbol(symbol), id)
			}
			position++
			continue
		}

		phrase := content[position : position+matchLength]
		position += matchLength
		if position == len(content) {
			nBits := bitstream.BitsForNValues(dictionary.size())
			output.WriteInt(uint64(match), nBits)
			if rep.Enabled() {
				rep.Printf("<- '%s': %s = (matchId = %d as %d bits)",
					report.Symbols(rep, phrase), bitstream.IntBits(uint64(match), nBits), match, nBits)
			}
			break
		}
		id := dictionary.insert(match, content[position])
		nBits := bitstream.BitsForNValues(dictionary.size())
		output.WriteInt(uint64(match), nBits)
		if rep.Enabled() {
			rep.Printf("<- '%s': %s = (matchId = %d as %d bits), added '%s%s' as id = %d",
				report.Symbols(rep, phrase), bitstream.IntBits(uint64(match), nBits), match, nBits,
				report.Symbols(rep, phrase), rep.Symbol(content[position]), id)
		}
	}
	return output.Size(), nil
}
