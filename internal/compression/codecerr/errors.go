// Package codecerr holds the error values shared by every archiver. All of them
// can be matched with errors.Is no matter how many times they were wrapped.
package codecerr

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CodecError is an error that can be refined with a message or combined with an
// underlying cause while still matching its root value.
type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

// ErrStreamExhausted is returned when a bit or integer is read past the end of a
// bit stream.
const ErrStreamExhausted = baseCodecError("bit stream exhausted")

// ErrInvalidBitValue is returned when something other than 0 or 1 is written as
// a bit.
const ErrInvalidBitValue = baseCodecError("invalid bit value")

// ErrUnknownSymbol is returned by the LZW archiver when a byte is missing from a
// closed, predefined alphabet.
const ErrUnknownSymbol = baseCodecError("unknown symbol")

// ErrArgumentOutOfRange is returned when a value has no encoding, such as the
// monotonous code of zero.
const ErrArgumentOutOfRange = baseCodecError("argument out of range")

// ErrMalformedHeader is returned by decoders when a header or a back-reference
// describes more structure than the data can support.
const ErrMalformedHeader = baseCodecError("malformed header")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), message),
		originalError: e,
	}
}

func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}
