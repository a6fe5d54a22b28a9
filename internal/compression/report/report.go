// Package report provides the diagnostic sink the archivers describe their work
// to. Nothing written to a Reporter affects the bits an archiver emits.
package report

import (
	"fmt"
	"strings"

	"github.com/op/go-logging"
	"golang.org/x/text/encoding"
)

// Reporter receives a human-readable trace of every encoding step.
type Reporter interface {
	// Enabled reports whether messages are consumed at all. Archivers skip
	// building messages when it returns false.
	Enabled() bool
	Printf(format string, args ...any)
	// Symbol renders a single input byte for display.
	Symbol(b byte) string
}

type nopReporter struct{}

// Nop discards everything.
var Nop Reporter = nopReporter{}

func (nopReporter) Enabled() bool         { return false }
func (nopReporter) Printf(string, ...any) {}
func (nopReporter) Symbol(byte) string    { return "" }

// OrNop returns rep, or Nop when rep is nil.
func OrNop(rep Reporter) Reporter {
	if rep == nil {
		return Nop
	}
	return rep
}

// LogReporter writes the trace to a go-logging logger at INFO level.
type LogReporter struct {
	log     *logging.Logger
	decoder *encoding.Decoder
}

// NewLogReporter builds a LogReporter. When enc is not nil, symbols are decoded
// through it, otherwise printable ASCII is shown as is and everything else as a
// hex escape.
func NewLogReporter(log *logging.Logger, enc encoding.Encoding) *LogReporter {
	rep := &LogReporter{log: log}
	if enc != nil {
		rep.decoder = enc.NewDecoder()
	}
	return rep
}

func (r *LogReporter) Enabled() bool {
	return r.log.IsEnabledFor(logging.INFO)
}

func (r *LogReporter) Printf(format string, args ...any) {
	r.log.Infof(format, args...)
}

func (r *LogReporter) Symbol(b byte) string {
	if r.decoder != nil {
		if decoded, err := r.decoder.Bytes([]byte{b}); err == nil {
			return string(decoded)
		}
	}
	if b >= 0x20 && b < 0x7f {
		return string(rune(b))
	}
	return fmt.Sprintf("\\x%02x", b)
}

// Symbols renders a byte sequence with rep.Symbol.
func Symbols(rep Reporter, data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		sb.WriteString(rep.Symbol(b))
	}
	return sb.String()
}

// Recorder keeps every message in memory.
type Recorder struct {
	Lines []string
}

func (r *Recorder) Enabled() bool {
	return true
}

func (r *Recorder) Printf(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

func (r *Recorder) Symbol(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return string(rune(b))
	}
	return fmt.Sprintf("\\x%02x", b)
}
