//go:build gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress compresses src as one Zstandard frame with the C library.
func (c ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	return gozstd.CompressLevel(dst[:0], src, zstdLevel), nil
}

// Decompress decodes one Zstandard frame with the C library.
func (c ZstdCompressor) Decompress(dst, src []byte, maxSize int) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	limit := decodeLimit(maxSize)
	if err := checkFrameSize(src, limit); err != nil {
		return nil, err
	}

	out, err := gozstd.Decompress(dst[:0], src)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if err := checkDecodedSize("zstd", len(out), limit); err != nil {
		return nil, err
	}

	return out, nil
}
