package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/dwrf/errs"
	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances, whose hash tables are
// expensive to allocate.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// maxLZ4DecodedSize bounds the adaptive output buffer of Decompress.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 block compressor.
//
// Returns:
//   - LZ4Compressor: New LZ4 compressor instance
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses src as one LZ4 block.
//
// The destination is sized to lz4.CompressBlockBound so that incompressible input
// is still emitted as a literal-only block.
//
// Parameters:
//   - dst: Buffer to reuse for the result
//   - src: Chunk to compress
//
// Returns:
//   - []byte: Compressed block (empty if src is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}
	dst = grow(dst, lz4.CompressBlockBound(len(src)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return dst[:n], nil
}

// Decompress decodes one LZ4 block.
//
// LZ4 blocks do not record their decoded size, so the output buffer starts at the
// larger of cap(dst) and 4x the compressed size and doubles on
// lz4.ErrInvalidSourceShortBuffer, up to 128MB.
//
// Parameters:
//   - dst: Buffer to reuse for the result; stream readers pass one sized to the chunk size
//   - src: Compressed block
//
// Returns:
//   - []byte: Decompressed chunk
//   - error: lz4.ErrInvalidSourceShortBuffer if the 128MB limit was exceeded, or other decompression errors
// Decompress decodes an LZ4 block. The block format does not store the decoded
// length, so the output buffer doubles until the block fits or maxSize is reached.
func (c LZ4Compressor) Decompress(dst, src []byte, maxSize int) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	limit := decodeLimit(maxSize)
	bufSize := min(max(cap(dst), len(src)*4), limit)
	for {
		buf := grow(dst, bufSize)
		n, err := lz4.UncompressBlock(src, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if bufSize >= limit {
			return nil, fmt.Errorf("%w: lz4 block does not fit in %d bytes", errs.ErrDecodedTooLarge, limit)
		}
		bufSize = min(bufSize*2, limit)
	}
}
