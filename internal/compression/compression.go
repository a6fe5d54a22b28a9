// Package compression ties the bit-level archivers to byte slices and streams.
// Every archive is stored in a container that records its exact length in bits.
package compression

import (
	"io"
	"sort"

	"github.com/adilg123/bitarchiver/internal/compression/algorithms/bwt"
	"github.com/adilg123/bitarchiver/internal/compression/algorithms/huffman"
	"github.com/adilg123/bitarchiver/internal/compression/algorithms/lzss"
	"github.com/adilg123/bitarchiver/internal/compression/algorithms/lzw"
	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/report"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("bitarchiver/compression")

// ErrUnsupportedAlgorithm is returned for an algorithm name missing from the
// registry.
var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// DefaultAlphabet is the dictionary of the lzw-alphabet algorithm when Options
// carries none: printable ASCII plus tab, line feed and carriage return.
var DefaultAlphabet = func() []byte {
	alphabet := []byte{'\t', '\n', '\r'}
	for b := byte(0x20); b < 0x7f; b++ {
		alphabet = append(alphabet, b)
	}
	return alphabet
}()

// DefaultMaxOutputSize is the decoder output cap when Options sets none.
const DefaultMaxOutputSize = 256 * 1024 * 1024

// Options contains compression/decompression options
type Options struct {
	Algorithm string

	// WindowSize is the LZSS window. Zero selects lzss.DefaultWindowSize.
	WindowSize int

	// Alphabet is the predefined dictionary of lzw-alphabet. Nil or empty
	// selects DefaultAlphabet.
	Alphabet []byte

	// Reporter receives the encoding trace. Nil discards it.
	Reporter report.Reporter

	// MaxOutputSize caps the size a decoder may produce from a header that
	// declares it outright. Zero selects DefaultMaxOutputSize.
	MaxOutputSize int
}

func (o Options) windowSize() int {
	if o.WindowSize <= 0 {
		return lzss.DefaultWindowSize
	}
	return o.WindowSize
}

func (o Options) maxOutputSize() int {
	if o.MaxOutputSize <= 0 {
		return DefaultMaxOutputSize
	}
	return o.MaxOutputSize
}

func (o Options) alphabet() []byte {
	if len(o.Alphabet) == 0 {
		return DefaultAlphabet
	}
	return o.Alphabet
}

// Stats contains compression statistics
type Stats struct {
	OriginalSize     int
	ProcessedSize    int
	ArchivedBits     int // exact bit length, without container prefix and padding
	CompressionRatio float64
	Algorithm        string
}

// Archiver is one bit-level coder.
type Archiver interface {
	Archive(content []byte, output *bitstream.Writer, options Options) (int, error)
	Unarchive(input *bitstream.Reader, options Options) ([]byte, error)
	Description() string
}

type huffmanArchiver struct{}

func (huffmanArchiver) Archive(content []byte, output *bitstream.Writer, options Options) (int, error) {
	return huffman.Archive(content, output, options.Reporter)
}

func (huffmanArchiver) Unarchive(input *bitstream.Reader, options Options) ([]byte, error) {
	return huffman.Unarchive(input, options.maxOutputSize())
}

func (huffmanArchiver) Description() string {
	return "Canonical Huffman coding with a per-depth leaf count header"
}

type lzssArchiver struct{}

func (lzssArchiver) Archive(content []byte, output *bitstream.Writer, options Options) (int, error) {
	return lzss.Archive(content, output, options.windowSize(), options.Reporter)
}

func (lzssArchiver) Unarchive(input *bitstream.Reader, options Options) ([]byte, error) {
	return lzss.Unarchive(input, options.windowSize())
}

func (lzssArchiver) Description() string {
	return "LZSS over a sliding window, monotonous-coded match lengths"
}

type lzwArchiver struct {
	predefined bool
}

func (a lzwArchiver) dictionary(options Options) []byte {
	if !a.predefined {
		return nil
	}
	return options.alphabet()
}

func (a lzwArchiver) Archive(content []byte, output *bitstream.Writer, options Options) (int, error) {
	return lzw.Archive(content, output, a.dictionary(options), options.Reporter)
}

func (a lzwArchiver) Unarchive(input *bitstream.Reader, options Options) ([]byte, error) {
	return lzw.Unarchive(input, a.dictionary(options))
}

func (a lzwArchiver) Description() string {
	if a.predefined {
		return "LZW with a dictionary seeded from a predefined alphabet"
	}
	return "LZW with an empty dictionary and escape-coded new symbols"
}

type bwtArchiver struct{}

func (bwtArchiver) Archive(content []byte, output *bitstream.Writer, options Options) (int, error) {
	return bwt.Archive(content, output, options.Reporter)
}

func (bwtArchiver) Unarchive(input *bitstream.Reader, _ Options) ([]byte, error) {
	return bwt.Unarchive(input)
}

func (bwtArchiver) Description() string {
	return "Burrows-Wheeler transform, run-length coding and LZSS"
}

// archiverMap maps algorithm names to their archivers
var archiverMap = map[string]Archiver{
	"huffman":      huffmanArchiver{},
	"lzss":         lzssArchiver{},
	"lzw":          lzwArchiver{},
	"lzw-alphabet": lzwArchiver{predefined: true},
	"bwt":          bwtArchiver{},
}

// IsValidAlgorithm checks if the provided algorithm is supported
func IsValidAlgorithm(algorithm string) bool {
	_, exists := archiverMap[algorithm]
	return exists
}

// GetSupportedAlgorithms returns a sorted list of supported algorithms
func GetSupportedAlgorithms() []string {
	names := make([]string, 0, len(archiverMap))
	for name := range archiverMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extension returns the file extension used for archives made with algorithm.
func Extension(algorithm string) string {
	extensions := map[string]string{
		"huffman":      "huff",
		"lzss":         "lzss",
		"lzw":          "lzw",
		"lzw-alphabet": "lzwa",
		"bwt":          "bwt",
	}

	if ext, exists := extensions[algorithm]; exists {
		return ext
	}
	return "bits"
}

// Describe returns a one-line description of algorithm.
func Describe(algorithm string) (string, error) {
	archiver, err := lookup(algorithm)
	if err != nil {
		return "", err
	}
	return archiver.Description(), nil
}

func lookup(algorithm string) (Archiver, error) {
	archiver, exists := archiverMap[algorithm]
	if !exists {
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%q (supported: %v)", algorithm, GetSupportedAlgorithms())
	}
	return archiver, nil
}

// Archive encodes data and returns the container together with the exact bit
// length of the archived stream.
func Archive(data []byte, options Options) ([]byte, int, error) {
	archiver, err := lookup(options.Algorithm)
	if err != nil {
		return nil, 0, err
	}
	output := bitstream.NewWriter()
	nBits, err := archiver.Archive(data, output, options)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s archive", options.Algorithm)
	}
	return Pack(nBits, output.Bytes()), nBits, nil
}

// Unarchive decodes a container produced by Archive with the same options.
func Unarchive(data []byte, options Options) ([]byte, error) {
	archiver, err := lookup(options.Algorithm)
	if err != nil {
		return nil, err
	}
	nBits, payload, err := Unpack(data)
	if err != nil {
		return nil, err
	}
	decoded, err := archiver.Unarchive(bitstream.NewReaderSize(payload, nBits), options)
	if err != nil {
		return nil, errors.Wrapf(err, "%s unarchive", options.Algorithm)
	}
	return decoded, nil
}

// Compress compresses data using the specified algorithm
func Compress(data []byte, options Options) ([]byte, *Stats, error) {
	if _, err := lookup(options.Algorithm); err != nil {
		return nil, nil, err
	}

	reader, writer := NewCompressionReaderAndWriter(options)
	compressedData, err := processData(data, reader, writer)
	if err != nil {
		return nil, nil, errors.Wrap(err, "compression failed")
	}

	nBits, _, err := Unpack(compressedData)
	if err != nil {
		return nil, nil, errors.Wrap(err, "compression failed")
	}
	stats := &Stats{
		OriginalSize:  len(data),
		ProcessedSize: len(compressedData),
		ArchivedBits:  nBits,
		Algorithm:     options.Algorithm,
	}
	if len(data) > 0 {
		stats.CompressionRatio = float64(len(compressedData)) / float64(len(data)) * 100
	}
	log.Debugf("%s: %d bytes -> %d bits (%d bytes)", options.Algorithm, len(data), nBits, len(compressedData))
	return compressedData, stats, nil
}

// Decompress decompresses data using the specified algorithm
func Decompress(data []byte, options Options) ([]byte, *Stats, error) {
	if _, err := lookup(options.Algorithm); err != nil {
		return nil, nil, err
	}

	reader, writer := NewDecompressionReaderAndWriter(options)
	decompressedData, err := processData(data, reader, writer)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decompression failed")
	}

	nBits, _, _ := Unpack(data)
	stats := &Stats{
		OriginalSize:  len(data),
		ProcessedSize: len(decompressedData),
		ArchivedBits:  nBits,
		Algorithm:     options.Algorithm,
	}
	if len(decompressedData) > 0 {
		stats.CompressionRatio = float64(len(data)) / float64(len(decompressedData)) * 100
	}
	log.Debugf("%s: %d bytes -> %d bytes", options.Algorithm, len(data), len(decompressedData))
	return decompressedData, stats, nil
}

// processData writes inputData to writer and collects everything reader yields.
func processData(inputData []byte, reader io.ReadCloser, writer io.WriteCloser) ([]byte, error) {
	defer reader.Close()

	resultCh := make(chan []byte, 1)
	errorCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(reader)
		if err != nil {
			errorCh <- err
			return
		}
		resultCh <- data
	}()

	if _, err := writer.Write(inputData); err != nil {
		writer.Close()
		return nil, errors.Wrap(err, "failed to write data")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close writer")
	}

	select {
	case err := <-errorCh:
		return nil, err
	case result := <-resultCh:
		return result, nil
	}
}
