package compression_test

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/adilg123/bitarchiver/internal/compression"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/adilg123/bitarchiver/internal/compression/report"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInputs() map[string][]byte {
	rng := rand.New(rand.NewSource(11))
	text := make([]byte, 2000)
	for i := range text {
		text[i] = "the quick brown fox jumps over the lazy dog\n"[rng.Intn(44)]
	}
	return map[string][]byte{
		"empty":  {},
		"single": []byte("x"),
		"repeat": bytes.Repeat([]byte("abracadabra "), 30),
		"text":   text,
	}
}

func TestSupportedAlgorithms(t *testing.T) {
	assert.Equal(
		t,
		[]string{"bwt", "huffman", "lzss", "lzw", "lzw-alphabet"},
		compression.GetSupportedAlgorithms())
	assert.True(t, compression.IsValidAlgorithm("bwt"))
	assert.False(t, compression.IsValidAlgorithm("gzip"))

	for _, name := range compression.GetSupportedAlgorithms() {
		description, err := compression.Describe(name)
		require.NoError(t, err)
		assert.NotEmpty(t, description)
	}
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	for _, algorithm := range compression.GetSupportedAlgorithms() {
		for name, data := range sampleInputs() {
			t.Run(algorithm+"/"+name, func(t *testing.T) {
				options := compression.Options{Algorithm: algorithm}

				compressed, stats, err := compression.Compress(data, options)
				require.NoError(t, err)
				assert.Equal(t, len(data), stats.OriginalSize)
				assert.Equal(t, len(compressed), stats.ProcessedSize)
				assert.Equal(t, algorithm, stats.Algorithm)
				if len(data) == 0 {
					assert.Zero(t, stats.ArchivedBits)
				}

				decompressed, stats, err := compression.Decompress(compressed, options)
				require.NoError(t, err)
				assert.Equal(t, len(data), stats.ProcessedSize)
				assert.Equal(t, data, decompressed)
			})
		}
	}
}

func TestRepetitiveInputShrinks(t *testing.T) {
	data := sampleInputs()["repeat"]
	for _, algorithm := range compression.GetSupportedAlgorithms() {
		compressed, stats, err := compression.Compress(data, compression.Options{Algorithm: algorithm})
		require.NoError(t, err, algorithm)
		assert.Less(t, len(compressed), len(data), algorithm)
		assert.Less(t, stats.CompressionRatio, 100.0, algorithm)
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, _, err := compression.Compress([]byte("abc"), compression.Options{Algorithm: "zip"})
	assert.ErrorIs(t, err, compression.ErrUnsupportedAlgorithm)

	_, err = compression.Unarchive([]byte{0}, compression.Options{Algorithm: "zip"})
	assert.ErrorIs(t, err, compression.ErrUnsupportedAlgorithm)
}

func TestCustomWindowAndAlphabet(t *testing.T) {
	data := []byte("ABABABABAB BABA")

	options := compression.Options{Algorithm: "lzss", WindowSize: 4}
	compressed, _, err := compression.Archive(data, options)
	require.NoError(t, err)
	decoded, err := compression.Unarchive(compressed, options)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	options = compression.Options{Algorithm: "lzw-alphabet", Alphabet: []byte("AB ")}
	compressed, _, err = compression.Archive(data, options)
	require.NoError(t, err)
	decoded, err = compression.Unarchive(compressed, options)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestUnknownSymbolInAlphabet(t *testing.T) {
	_, _, err := compression.Compress(
		[]byte("ABC"),
		compression.Options{Algorithm: "lzw-alphabet", Alphabet: []byte("AB")})
	assert.ErrorIs(t, err, codecerr.ErrUnknownSymbol)

	_, _, err = compression.Compress([]byte{0xff}, compression.Options{Algorithm: "lzw-alphabet"})
	assert.ErrorIs(t, err, codecerr.ErrUnknownSymbol)
}

func TestEmptyAlphabetSelectsDefault(t *testing.T) {
	data := []byte("hello, world")
	withDefault, _, err := compression.Archive(data, compression.Options{Algorithm: "lzw-alphabet"})
	require.NoError(t, err)
	withEmpty, _, err := compression.Archive(data, compression.Options{Algorithm: "lzw-alphabet", Alphabet: []byte{}})
	require.NoError(t, err)
	assert.Equal(t, withDefault, withEmpty)

	decoded, err := compression.Unarchive(withEmpty, compression.Options{Algorithm: "lzw-alphabet", Alphabet: []byte{}})
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	_, _, err = compression.Archive([]byte{0xff}, compression.Options{Algorithm: "lzw-alphabet", Alphabet: []byte{}})
	assert.ErrorIs(t, err, codecerr.ErrUnknownSymbol)
}

func TestMaxOutputSize(t *testing.T) {
	data := bytes.Repeat([]byte("z"), 5000)
	container, _, err := compression.Archive(data, compression.Options{Algorithm: "huffman"})
	require.NoError(t, err)

	_, err = compression.Unarchive(container, compression.Options{Algorithm: "huffman", MaxOutputSize: 4999})
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)

	decoded, err := compression.Unarchive(container, compression.Options{Algorithm: "huffman", MaxOutputSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestArchiveReportsBitCount(t *testing.T) {
	container, nBits, err := compression.Archive([]byte("abracadabra"), compression.Options{Algorithm: "huffman"})
	require.NoError(t, err)

	declared, payload, err := compression.Unpack(container)
	require.NoError(t, err)
	assert.Equal(t, nBits, declared)
	assert.Len(t, payload, (nBits+7)/8)
}

func TestReporterDoesNotChangeContainer(t *testing.T) {
	data := []byte("abracadabra")
	for _, algorithm := range compression.GetSupportedAlgorithms() {
		quiet, _, err := compression.Archive(data, compression.Options{Algorithm: algorithm})
		require.NoError(t, err)
		rec := &report.Recorder{}
		traced, _, err := compression.Archive(data, compression.Options{Algorithm: algorithm, Reporter: rec})
		require.NoError(t, err)
		assert.Equal(t, quiet, traced, algorithm)
		assert.NotEmpty(t, rec.Lines, algorithm)
	}
}

func TestPackUnpack(t *testing.T) {
	container := compression.Pack(300, make([]byte, 38))
	assert.Equal(t, []byte{0xac, 0x02}, container[:2])
	assert.Len(t, container, 2+38)

	nBits, payload, err := compression.Unpack(container)
	require.NoError(t, err)
	assert.Equal(t, 300, nBits)
	assert.Len(t, payload, 38)

	nBits, payload, err = compression.Unpack(compression.Pack(0, nil))
	require.NoError(t, err)
	assert.Zero(t, nBits)
	assert.Empty(t, payload)
}

func TestUnpackMalformed(t *testing.T) {
	_, _, err := compression.Unpack(nil)
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)

	_, _, err = compression.Unpack([]byte{0x80})
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)

	// 17 bits declared, 2 bytes present.
	_, _, err = compression.Unpack([]byte{17, 0, 0})
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)

	_, _, err = compression.Decompress([]byte{17, 0, 0}, compression.Options{Algorithm: "huffman"})
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)
}

func TestStreamPair(t *testing.T) {
	data := sampleInputs()["text"]
	options := compression.Options{Algorithm: "bwt"}

	reader, writer := compression.NewCompressionReaderAndWriter(options)
	for chunk := 0; chunk < len(data); chunk += 300 {
		end := min(chunk+300, len(data))
		_, err := writer.Write(data[chunk:end])
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	_, err := writer.Write([]byte("late"))
	assert.Error(t, err)

	compressed, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	decompressedBuffer := make([]byte, len(data))
	decompressedWriter := bytewriter.New(decompressedBuffer)

	dr, dw := compression.NewDecompressionReaderAndWriter(options)
	_, err = dw.Write(compressed)
	require.NoError(t, err)
	require.NoError(t, dw.Close())

	n, err := io.Copy(decompressedWriter, dr)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), n)
	assert.Equal(t, data, decompressedBuffer)
}

func TestStreamReaderSeesArchiveError(t *testing.T) {
	reader, writer := compression.NewCompressionReaderAndWriter(
		compression.Options{Algorithm: "lzw-alphabet", Alphabet: []byte("a")})
	_, err := writer.Write([]byte("ab"))
	require.NoError(t, err)

	closeErr := writer.Close()
	assert.ErrorIs(t, closeErr, codecerr.ErrUnknownSymbol)

	_, err = io.ReadAll(reader)
	assert.ErrorIs(t, err, codecerr.ErrUnknownSymbol)
}
