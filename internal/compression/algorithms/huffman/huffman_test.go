package huffman_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/adilg123/bitarchiver/internal/compression/algorithms/huffman"
	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/adilg123/bitarchiver/internal/compression/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archive(t *testing.T, content []byte) (*bitstream.Writer, int) {
	output := bitstream.NewWriter()
	n, err := huffman.Archive(content, output, nil)
	require.NoError(t, err)
	require.Equal(t, output.Size(), n)
	return output, n
}

func runRoundTripTestCase(t *testing.T, content []byte) {
	output, n := archive(t, content)
	t.Logf("archived %d bytes to %d bits", len(content), n)

	decoded, err := huffman.Unarchive(bitstream.NewReaderSize(output.Bytes(), n), 0)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func skewedInput() []byte {
	// Fibonacci frequencies give the deepest possible tree.
	var content []byte
	a, b := 1, 1
	for symbol := 0; symbol < 20; symbol++ {
		content = append(content, bytes.Repeat([]byte{byte(symbol)}, a)...)
		a, b = b, a+b
	}
	return content
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 4096)
	rng.Read(random)

	allBytes := make([]byte, 256)
	for i := range allBytes {
		allBytes[i] = byte(i)
	}

	tests := []struct {
		Name    string
		Content []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte("x")},
		{"single symbol", bytes.Repeat([]byte("a"), 100)},
		{"two symbols", []byte("aaab")},
		{"text", []byte("abracadabra, said the magician")},
		{"all bytes", allBytes},
		{"skewed", skewedInput()},
		{"random", random},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			runRoundTripTestCase(t, test.Content)
		})
	}
}

func TestSingleSymbolCode(t *testing.T) {
	table, err := huffman.BuildCodeTable([]byte("aaaa"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), table.Symbols)
	assert.Empty(t, table.Codes['a'])
	assert.Equal(t, []int{1}, table.LeafCounts)

	// 1 header bit, 8 symbol bits and the monotonous repeat count.
	_, n := archive(t, []byte("aaaa"))
	assert.Equal(t, 1+8+len(bitstream.Monotonous(4)), n)
}

func TestRepeatCountLimit(t *testing.T) {
	// A 66-bit stream claiming 2^28 copies of 'z'.
	w := bitstream.NewWriter()
	w.WriteInt(1, 1)
	w.WriteInt('z', 8)
	require.NoError(t, w.WriteMonotonous(1<<28))

	_, err := huffman.Unarchive(bitstream.NewReaderSize(w.Bytes(), w.Size()), 1<<20)
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)

	output, n := archive(t, bytes.Repeat([]byte("z"), 1000))
	decoded, err := huffman.Unarchive(bitstream.NewReaderSize(output.Bytes(), n), 1000)
	require.NoError(t, err)
	assert.Len(t, decoded, 1000)

	_, err = huffman.Unarchive(bitstream.NewReaderSize(output.Bytes(), n), 999)
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)
}

func TestTwoSymbolsBalanced(t *testing.T) {
	table, err := huffman.BuildCodeTable([]byte("aaab"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, table.LeafCounts)
	assert.Len(t, table.Codes['a'], 1)
	assert.Len(t, table.Codes['b'], 1)
	assert.NotEqual(t, table.Codes['a'], table.Codes['b'])

	// Header: 0 in 1 bit, 2 in 2 bits, two symbols, then one bit per byte.
	_, n := archive(t, []byte("aaab"))
	assert.Equal(t, 1+2+16+4, n)
}

func TestCanonicalShape(t *testing.T) {
	table, err := huffman.BuildCodeTable([]byte("aaaaaaaabbbbccd"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 2}, table.LeafCounts)

	codes := make([]string, len(table.Symbols))
	for i, symbol := range table.Symbols {
		codes[i] = table.Codes[symbol].String()
	}
	assert.Equal(t, []string{"0", "10", "110", "111"}, codes)
	assert.Equal(t, byte('a'), table.Symbols[0])
	assert.Equal(t, byte('b'), table.Symbols[1])
}

func TestCodesArePrefixFree(t *testing.T) {
	table, err := huffman.BuildCodeTable(skewedInput())
	require.NoError(t, err)
	require.Len(t, table.Codes, 20)

	for x, codeX := range table.Codes {
		for y, codeY := range table.Codes {
			if x == y || len(codeX) > len(codeY) {
				continue
			}
			assert.NotEqual(t, codeX.String(), codeY[:len(codeX)].String(),
				"code of %d is a prefix of code of %d", x, y)
		}
	}
}

func TestDeterministic(t *testing.T) {
	content := []byte("the quick brown fox jumps over the lazy dog")
	first, _ := archive(t, content)
	second, _ := archive(t, content)
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestReportDoesNotChangeOutput(t *testing.T) {
	content := []byte("mississippi")
	quiet, _ := archive(t, content)

	rec := &report.Recorder{}
	traced := bitstream.NewWriter()
	_, err := huffman.Archive(content, traced, rec)
	require.NoError(t, err)
	assert.Equal(t, quiet.Bytes(), traced.Bytes())
	assert.NotEmpty(t, rec.Lines)
}

func TestCumulativeSize(t *testing.T) {
	output := bitstream.NewWriter()
	output.WriteInt(0, 5)
	n, err := huffman.Archive([]byte("aaab"), output, nil)
	require.NoError(t, err)
	assert.Equal(t, 5+23, n)
}

func TestMalformedHeader(t *testing.T) {
	w := bitstream.NewWriter()
	w.WriteInt(0, 1)
	// Three leaves on level 1 where only two fit.
	w.WriteInt(3, 2)
	_, err := huffman.Unarchive(bitstream.NewReaderSize(w.Bytes(), w.Size()), 0)
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)

	// Header cut short.
	_, err = huffman.Unarchive(bitstream.NewReaderSize([]byte{0}, 2), 0)
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)
}

func TestTruncatedSymbolList(t *testing.T) {
	output, n := archive(t, []byte("abc"))
	_, err := huffman.Unarchive(bitstream.NewReaderSize(output.Bytes(), n-8), 0)
	assert.ErrorIs(t, err, codecerr.ErrStreamExhausted)
}
