package compress

import (
	"fmt"

	"github.com/arloliu/dwrf/errs"
	"github.com/klauspost/compress/zstd"
)

// zstdLevel is the compression level shared by both zstd backends.
const zstdLevel = 3

// ZstdCompressor compresses chunks as single Zstandard frames.
//
// The pure-Go backend from klauspost/compress is used by default. Building with
// the gozstd tag switches to the cgo binding of the reference C library; both
// backends produce standard frames and can read each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(nil, chunk)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// checkFrameSize rejects a frame whose header declares more than limit bytes,
// before any output is allocated. Frames without a content size are checked
// after decoding.
func checkFrameSize(src []byte, limit int) error {
	var h zstd.Header
	if err := h.Decode(src); err != nil {
		return fmt.Errorf("zstd decompression failed: %w", err)
	}
	if h.HasFCS && h.FrameContentSize > uint64(limit) { //nolint:gosec
		return fmt.Errorf("%w: zstd frame declares %d bytes, limit %d", errs.ErrDecodedTooLarge, h.FrameContentSize, limit)
	}

	return nil
}
