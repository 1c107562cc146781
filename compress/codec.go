package compress

import (
	"fmt"

	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
)

// Compressor compresses one stream chunk.
type Compressor interface {
	// Compress returns the compressed form of src.
	//
	// Memory management:
	//   - The result may reuse the capacity of dst; pass nil to allocate
	//   - src is not modified and not retained
	//   - Implementations are safe for concurrent use
	Compress(dst, src []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
type Decompressor interface {
	// Decompress returns the original bytes of a chunk produced by Compress.
	// The decoded length is bounded by maxSize, or by MaxDecodedSize when maxSize
	// is not positive.
	//
	// Error conditions:
	//   - Returns an error if src is corrupted or was compressed with another algorithm
	//   - Returns errs.ErrDecodedTooLarge if the decoded length would exceed the bound;
	//     codecs that store the decoded length check it before allocating
	//
	// Memory management:
	//   - The result may reuse the capacity of dst; pass nil to allocate
	//   - src is not modified and not retained
	Decompress(dst, src []byte, maxSize int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats summarizes the effect of compression on a stream.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the number of bytes written to the stream
	OriginalSize int64

	// CompressedSize is the number of bytes the stream produced, including chunk headers
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression. Values greater than 1.0
// indicate chunk header overhead on incompressible data.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
//
// Returns:
//   - float64: Space savings percentage (negative when the stream grew)
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:   NewNoOpCompressor(),
	format.CompressionZlib:   NewZlibCompressor(),
	format.CompressionSnappy: NewSnappyCompressor(),
	format.CompressionZstd:   NewZstdCompressor(),
	format.CompressionS2:     NewS2Compressor(),
	format.CompressionLZ4:    NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
//
// Built-in codecs are stateless and safe for concurrent use.
//
// Returns:
//   - Codec: Shared codec instance
//   - error: errs.ErrInvalidCompressionType for an unknown type
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (%d)", errs.ErrInvalidCompressionType, compressionType, uint8(compressionType))
}

// grow returns dst resliced to length n, reallocating when its capacity is too small.
// MaxDecodedSize bounds the output of Decompress calls that pass no limit.
const MaxDecodedSize = 128 * 1024 * 1024

func decodeLimit(maxSize int) int {
	if maxSize <= 0 {
		return MaxDecodedSize
	}

	return maxSize
}

func checkDecodedSize(algorithm string, n, limit int) error {
	if n > limit {
		return fmt.Errorf("%w: %s chunk decodes to %d bytes, limit %d", errs.ErrDecodedTooLarge, algorithm, n, limit)
	}

	return nil
}

func grow(dst []byte, n int) []byte {
	if cap(dst) < n {
		return make([]byte, n)
	}

	return dst[:n]
}
