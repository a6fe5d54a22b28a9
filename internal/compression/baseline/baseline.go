// Package baseline measures general-purpose compressors on the same input the
// bit-level archivers see, so their sizes can be put side by side.
package baseline

import (
	"bytes"
	"io"
	"runtime"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Sizes holds compressed sizes in bytes.
type Sizes struct {
	Zstd    int
	Deflate int
}

// Measure compresses data with zstd and DEFLATE at their default levels.
func Measure(data []byte) (Sizes, error) {
	var sizes Sizes

	var buf bytes.Buffer
	if err := EncodeZstd(&buf, data); err != nil {
		return sizes, errors.Wrap(err, "zstd")
	}
	sizes.Zstd = buf.Len()

	buf.Reset()
	if err := EncodeDeflate(&buf, data); err != nil {
		return sizes, errors.Wrap(err, "deflate")
	}
	sizes.Deflate = buf.Len()
	return sizes, nil
}

func EncodeZstd(w io.Writer, raw []byte) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func DecodeZstd(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func EncodeDeflate(w io.Writer, raw []byte) error {
	enc, err := flate.NewWriter(w, flate.DefaultCompression)
	if err != nil {
		return err
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func DecodeDeflate(r io.Reader) ([]byte, error) {
	dec := flate.NewReader(r)
	defer dec.Close()
	return io.ReadAll(dec)
}
