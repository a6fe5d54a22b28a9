package lzw

import (
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/pkg/errors"
)

type phraseEntry struct {
	prefix int
	symbol byte
	length int
}

type phraseTable struct {
	entries []phraseEntry
}

func (pt *phraseTable) add(prefix int, symbol byte) {
	pt.entries = append(pt.entries, phraseEntry{
		prefix: prefix,
		symbol: symbol,
		length: pt.entries[prefix].length + 1,
	})
}

func (pt *phraseTable) phrase(id int) []byte {
	out := make([]byte, pt.entries[id].length)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = pt.entries[id].symbol
		id = pt.entries[id].prefix
	}
	return out
}

// Unarchive decodes a stream written by Archive with the same alphabet. The
// reader must end exactly where the archived stream ends.
//
// The decoder learns the entry created after each code only when it reads the
// next one, so its table trails the encoder's dictionary by one pending entry.
// Only the last code is sized without the entry its emission would add, which
// the decoder recognizes by the number of bits left.
func Unarchive(input *bitstream.Reader, alphabet []byte) ([]byte, error) {
	escaping := len(alphabet) == 0

	table := &phraseTable{entries: []phraseEntry{{}}}
	var seeded [256]bool
	for _, symbol := range alphabet {
		if !seeded[symbol] {
			seeded[symbol] = true
			table.add(0, symbol)
		}
	}

	out := []byte{}
	pending := -1
	for input.Available() > 0 {
		size := len(table.entries)
		if pending >= 0 {
			size++
		}
		// Every code but the last also adds an entry and is one entry wider.
		// A code that is not the last is followed by at least one more bit.
		nBits := bitstream.BitsForNValues(size)
		if input.Available() != nBits {
			nBits = bitstream.BitsForNValues(size + 1)
		}
		value, err := input.ReadInt(nBits)
		if err != nil {
			return nil, errors.Wrap(err, "reading code")
		}
		code := int(value)

		if code == escapeCode {
			if !escaping {
				return nil, codecerr.ErrMalformedHeader.WithMessage("escape code without escaping enabled")
			}
			symbol, err := input.ReadInt(8)
			if err != nil {
				return nil, errors.Wrap(err, "reading escaped symbol")
			}
			if pending >= 0 {
				table.add(pending, byte(symbol))
				pending = -1
			}
			table.add(0, byte(symbol))
			out = append(out, byte(symbol))
			continue
		}

		if code >= size {
			return nil, codecerr.ErrMalformedHeader.WithMessage(
				fmt.Sprintf("code %d with %d dictionary entries", code, size))
		}
		var phrase []byte
		if code == len(table.entries) {
			// The code names the entry still pending: the previous phrase
			// followed by its own first symbol.
			phrase = table.phrase(pending)
			phrase = append(phrase, phrase[0])
		} else {
			phrase = table.phrase(code)
		}
		if pending >= 0 {
			table.add(pending, phrase[0])
		}
		out = append(out, phrase...)
		pending = code
	}
	return out, nil
}
