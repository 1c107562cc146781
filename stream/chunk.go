package stream

import (
	"fmt"

	"github.com/arloliu/dwrf/errs"
)

// headerSize is the length of a chunk header: a 3-byte little-endian value holding
// (length << 1) | original.
const headerSize = 3

func appendHeader(dst []byte, length int, original bool) []byte {
	v := uint32(length) << 1 //nolint:gosec
	if original {
		v |= 1
	}

	return append(dst, byte(v), byte(v>>8), byte(v>>16))
}

// parseHeader decodes the chunk header at the start of b.
func parseHeader(b []byte) (length int, original bool, err error) {
	if len(b) < headerSize {
		return 0, false, fmt.Errorf("%w: truncated header, %d bytes left", errs.ErrCorruptChunk, len(b))
	}
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16

	return int(v >> 1), v&1 == 1, nil
}
