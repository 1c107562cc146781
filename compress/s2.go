package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 block compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses src as one S2 block.
func (c S2Compressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	return s2.Encode(grow(dst, s2.MaxEncodedLen(len(src))), src), nil
}

// Decompress decodes one S2 block.
func (c S2Compressor) Decompress(dst, src []byte, maxSize int) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if err := checkDecodedSize("s2", n, decodeLimit(maxSize)); err != nil {
		return nil, err
	}

	out, err := s2.Decode(grow(dst, n), src)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
