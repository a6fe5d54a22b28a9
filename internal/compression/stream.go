package compression

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"
)

var errWriterClosed = errors.New("write after close")

// CompressionWriter buffers everything written to it and archives it on Close.
type CompressionWriter struct {
	core *streamCore
}

// CompressionReader yields the container once the paired writer is closed.
type CompressionReader struct {
	core *streamCore
}

// DecompressionWriter buffers a container and decodes it on Close.
type DecompressionWriter struct {
	core *streamCore
}

// DecompressionReader yields the decoded bytes once the paired writer is
// closed.
type DecompressionReader struct {
	core *streamCore
}

type streamCore struct {
	lock         sync.Mutex
	closed       bool
	done         chan struct{}
	err          error
	inputBuffer  bytes.Buffer
	outputBuffer bytes.Buffer
	process      func([]byte) ([]byte, error)
}

func newStreamCore(process func([]byte) ([]byte, error)) *streamCore {
	return &streamCore{done: make(chan struct{}), process: process}
}

// read blocks until the writer side has been closed.
func (core *streamCore) read(data []byte) (int, error) {
	<-core.done
	core.lock.Lock()
	defer core.lock.Unlock()
	if core.err != nil {
		return 0, core.err
	}
	return core.outputBuffer.Read(data)
}

func (core *streamCore) write(data []byte) (int, error) {
	core.lock.Lock()
	defer core.lock.Unlock()
	if core.closed {
		return 0, errWriterClosed
	}
	return core.inputBuffer.Write(data)
}

func (core *streamCore) close() error {
	core.lock.Lock()
	defer core.lock.Unlock()
	if core.closed {
		return core.err
	}
	core.closed = true
	defer close(core.done)

	processed, err := core.process(core.inputBuffer.Bytes())
	core.inputBuffer.Reset()
	if err != nil {
		core.err = err
		return err
	}
	core.outputBuffer.Write(processed)
	return nil
}

func (core *streamCore) reset() {
	core.lock.Lock()
	defer core.lock.Unlock()
	core.inputBuffer.Reset()
}

func (cr *CompressionReader) Read(data []byte) (int, error) {
	return cr.core.read(data)
}

func (cr *CompressionReader) Close() error {
	cr.core.reset()
	return nil
}

func (cw *CompressionWriter) Write(data []byte) (int, error) {
	return cw.core.write(data)
}

func (cw *CompressionWriter) Close() error {
	return cw.core.close()
}

func (dr *DecompressionReader) Read(data []byte) (int, error) {
	return dr.core.read(data)
}

func (dr *DecompressionReader) Close() error {
	dr.core.reset()
	return nil
}

func (dw *DecompressionWriter) Write(data []byte) (int, error) {
	return dw.core.write(data)
}

func (dw *DecompressionWriter) Close() error {
	return dw.core.close()
}

// NewCompressionReaderAndWriter returns a connected pair: bytes written to the
// writer are archived with options when it is closed, and the container is then
// readable from the reader.
func NewCompressionReaderAndWriter(options Options) (*CompressionReader, *CompressionWriter) {
	core := newStreamCore(func(content []byte) ([]byte, error) {
		container, _, err := Archive(content, options)
		return container, err
	})
	return &CompressionReader{core: core}, &CompressionWriter{core: core}
}

// NewDecompressionReaderAndWriter is the inverse of
// NewCompressionReaderAndWriter.
func NewDecompressionReaderAndWriter(options Options) (*DecompressionReader, *DecompressionWriter) {
	core := newStreamCore(func(container []byte) ([]byte, error) {
		return Unarchive(container, options)
	})
	return &DecompressionReader{core: core}, &DecompressionWriter{core: core}
}
