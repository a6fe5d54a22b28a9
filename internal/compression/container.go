package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
)

// Pack prefixes payload with its length in bits as an unsigned varint.
func Pack(nBits int, payload []byte) []byte {
	container := binary.AppendUvarint(nil, uint64(nBits))
	return append(container, payload[:(nBits+7)/8]...)
}

// Unpack splits a container into the bit length and the payload bytes.
func Unpack(container []byte) (int, []byte, error) {
	nBits, n := binary.Uvarint(container)
	if n <= 0 {
		return 0, nil, codecerr.ErrMalformedHeader.WithMessage("bad container length prefix")
	}
	payload := container[n:]
	if nBits > uint64(len(payload))*8 {
		return 0, nil, codecerr.ErrMalformedHeader.WithMessage(
			fmt.Sprintf("container declares %d bits, holds %d", nBits, len(payload)*8))
	}
	return int(nBits), payload, nil
}
