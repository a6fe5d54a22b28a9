package codecerr_test

import (
	"errors"
	"io"
	"testing"

	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
	"github.com/stretchr/testify/assert"
)

func TestWithMessageMatchesRoot(t *testing.T) {
	err := codecerr.ErrMalformedHeader.WithMessage("leaf count 5 exceeds 4 slots")
	assert.ErrorIs(t, err, codecerr.ErrMalformedHeader)
	assert.NotErrorIs(t, err, codecerr.ErrStreamExhausted)
	assert.Equal(t, "malformed header: leaf count 5 exceeds 4 slots", err.Error())
}

func TestChainedMessages(t *testing.T) {
	err := codecerr.ErrUnknownSymbol.WithMessage("byte 0x41").WithMessage("position 3")
	assert.ErrorIs(t, err, codecerr.ErrUnknownSymbol)
	assert.Equal(t, "unknown symbol: byte 0x41: position 3", err.Error())
}

func TestWrapMatchesBoth(t *testing.T) {
	err := codecerr.ErrMalformedHeader.Wrap(codecerr.ErrStreamExhausted)
	assert.True(t, errors.Is(err, codecerr.ErrMalformedHeader))
	assert.True(t, errors.Is(err, codecerr.ErrStreamExhausted))

	err = codecerr.ErrStreamExhausted.WithMessage("reading symbol").Wrap(io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, codecerr.ErrStreamExhausted)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
