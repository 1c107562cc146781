package compress

import (
	"fmt"

	"github.com/golang/snappy"
)

// SnappyCompressor compresses chunks as Snappy blocks (not the framed stream format).
type SnappyCompressor struct{}

var _ Codec = (*SnappyCompressor)(nil)

// NewSnappyCompressor creates a new Snappy block compressor.
func NewSnappyCompressor() SnappyCompressor {
	return SnappyCompressor{}
}

// Compress compresses src as one Snappy block.
func (c SnappyCompressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	return snappy.Encode(grow(dst, snappy.MaxEncodedLen(len(src))), src), nil
}

// Decompress decodes one Snappy block.
func (c SnappyCompressor) Decompress(dst, src []byte, maxSize int) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	n, err := snappy.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("snappy decompression failed: %w", err)
	}
	if err := checkDecodedSize("snappy", n, decodeLimit(maxSize)); err != nil {
		return nil, err
	}

	out, err := snappy.Decode(grow(dst, n), src)
	if err != nil {
		return nil, fmt.Errorf("snappy decompression failed: %w", err)
	}

	return out, nil
}
