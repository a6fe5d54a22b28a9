package lzw_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/adilg123/bitarchiver/internal/compression/algorithms/lzw"
	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/adilg123/bitarchiver/internal/compression/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upperAlphabet = []byte(" ,.!ABCDEFGHIJKLMNOPQRSTUVWXYZ")

func archive(t *testing.T, content, alphabet []byte) (*bitstream.Writer, int) {
	output := bitstream.NewWriter()
	n, err := lzw.Archive(content, output, alphabet, nil)
	require.NoError(t, err)
	return output, n
}

func TestEscapeModeAlternating(t *testing.T) {
	output, n := archive(t, []byte("ABABAB"), nil)

	// Each code is sized for the dictionary including the entry it adds:
	// escape 'A' (2 entries), escape 'B' (3), A adding AB (4), B adding BA (5),
	// then AB as the last code, which adds nothing (5).
	expected := bitstream.NewWriter()
	expected.WriteInt(0, 1)
	expected.WriteInt('A', 8)
	expected.WriteInt(0, 2)
	expected.WriteInt('B', 8)
	expected.WriteInt(1, 2)
	expected.WriteInt(2, 3)
	expected.WriteInt(3, 3)

	assert.Equal(t, expected.Size(), n)
	assert.Equal(t, expected.Bytes(), output.Bytes())
}

func TestRepeatedPhraseUsesPendingEntry(t *testing.T) {
	content := bytes.Repeat([]byte("a"), 7)
	output, n := archive(t, content, []byte("a"))

	expected := bitstream.NewWriter()
	expected.WriteInt(1, 2)
	expected.WriteInt(2, 2)
	expected.WriteInt(3, 3)
	expected.WriteInt(1, 3)
	assert.Equal(t, expected.Size(), n)
	assert.Equal(t, expected.Bytes(), output.Bytes())

	decoded, err := lzw.Unarchive(bitstream.NewReaderSize(output.Bytes(), n), []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestEscapeCodeIsNeverEmpty(t *testing.T) {
	tests := []struct {
		Content  string
		Expected int
	}{
		{"A", 1 + 8},
		{"AB", (1 + 8) + (2 + 8)},
		{"AA", (1 + 8) + 1},
	}

	for _, test := range tests {
		t.Run(test.Content, func(t *testing.T) {
			output, n := archive(t, []byte(test.Content), nil)
			assert.Equal(t, test.Expected, n)

			decoded, err := lzw.Unarchive(bitstream.NewReaderSize(output.Bytes(), n), nil)
			require.NoError(t, err)
			assert.Equal(t, test.Content, string(decoded))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	random := make([]byte, 2500)
	rng.Read(random)
	upper := make([]byte, 2500)
	for i := range upper {
		upper[i] = upperAlphabet[rng.Intn(6)]
	}

	tests := []struct {
		Name     string
		Content  []byte
		Alphabet []byte
	}{
		{"empty escape", []byte{}, nil},
		{"empty predefined", []byte{}, upperAlphabet},
		{"single escape", []byte("Z"), nil},
		{"single predefined", []byte("Z"), upperAlphabet},
		{"phrase escape", []byte("НА ДВОРЕ ТРАВА, НА ТРАВЕ ДРОВА"), nil},
		{"phrase predefined", []byte("TO BE OR NOT TO BE, THAT IS THE QUESTION!"), upperAlphabet},
		{"duplicated alphabet", []byte("ABBA"), []byte("ABAB")},
		{"runs", bytes.Repeat([]byte{0, 0, 0, 1}, 400), nil},
		{"random", random, nil},
		{"small alphabet", upper, upperAlphabet},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			output, n := archive(t, test.Content, test.Alphabet)
			decoded, err := lzw.Unarchive(bitstream.NewReaderSize(output.Bytes(), n), test.Alphabet)
			require.NoError(t, err)
			assert.Equal(t, test.Content, decoded)
		})
	}
}

func TestUnknownSymbol(t *testing.T) {
	output := bitstream.NewWriter()
	_, err := lzw.Archive([]byte("HELLO world"), output, upperAlphabet, nil)
	assert.ErrorIs(t, err, codecerr.ErrUnknownSymbol)
	assert.Equal(t, 0, output.Size(), "nothing is written for rejected input")
}

func TestEscapeCodeRejectedWithAlphabet(t *testing.T) {
	w := bitstream.NewWriter()
	w.WriteInt(0, 2)
	_, err := lzw.Unarchive(bitstream.NewReaderSize(w.Bytes(), w.Size()), []byte("ab"))
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)
}

func TestCodeOutOfRange(t *testing.T) {
	w := bitstream.NewWriter()
	// Three entries (root, a, b) take 2 bits; code 3 does not exist yet.
	w.WriteInt(3, 2)
	_, err := lzw.Unarchive(bitstream.NewReaderSize(w.Bytes(), w.Size()), []byte("ab"))
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)
}

func TestTruncatedEscape(t *testing.T) {
	output, n := archive(t, []byte("xy"), nil)
	_, err := lzw.Unarchive(bitstream.NewReaderSize(output.Bytes(), n-3), nil)
	assert.ErrorIs(t, err, codecerr.ErrStreamExhausted)
}

func TestReportDoesNotChangeOutput(t *testing.T) {
	content := []byte("TOBEORNOTTOBEORTOBEORNOT")
	quiet, _ := archive(t, content, nil)

	rec := &report.Recorder{}
	traced := bitstream.NewWriter()
	_, err := lzw.Archive(content, traced, nil, rec)
	require.NoError(t, err)
	assert.Equal(t, quiet.Bytes(), traced.Bytes())
	assert.NotEmpty(t, rec.Lines)
}
