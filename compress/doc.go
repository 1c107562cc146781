// Package compress provides the chunk codecs used by compressed streams.
//
// A compressed stream cuts its bytes into chunks of a configured size and hands each
// chunk to a Codec. The codec only sees independent blocks; framing, the
// "stored original" fallback for chunks that do not shrink, and seek positions
// are the stream's business.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(dst, src []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(dst, src []byte, maxSize int) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Both directions take a dst buffer whose capacity may be reused, so a stream can
// keep one scratch buffer per direction for its whole lifetime.
//
// # Supported Algorithms
//
//	Type                      | Codec             | Library
//	--------------------------|-------------------|-------------------------------
//	format.CompressionNone    | NoOpCompressor    | (copy)
//	format.CompressionZlib    | ZlibCompressor    | klauspost/compress/flate (raw deflate)
//	format.CompressionSnappy  | SnappyCompressor  | golang/snappy (block format)
//	format.CompressionZstd    | ZstdCompressor    | klauspost/compress/zstd, or valyala/gozstd with -tags gozstd
//	format.CompressionS2      | S2Compressor      | klauspost/compress/s2 (block format)
//	format.CompressionLZ4     | LZ4Compressor     | pierrec/lz4/v4 (block format)
//
// Use GetCodec to obtain the shared instance for a compression type:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(nil, chunk)
//
// # Memory Management
//
// Encoders and decoders that are costly to build (zstd, flate, lz4 hash tables)
// are kept in sync.Pool instances and reused across calls.
//
// # Thread Safety
//
// All codec implementations are stateless values and can be shared across goroutines.
//
// # Error Handling
//
// Decompression of corrupted or foreign data returns an error wrapped with the
// algorithm name. Output larger than the maxSize passed to Decompress returns
// errs.ErrDecodedTooLarge; Snappy, S2 and Zstd check the length stored in the
// input before allocating. An unknown compression type returns
// errs.ErrInvalidCompressionType.
package compress
