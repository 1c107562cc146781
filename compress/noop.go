package compress

// NoOpCompressor copies chunks without compressing them.
//
// Streams configured with format.CompressionNone never frame their bytes into
// chunks, so this codec mostly serves tests and baseline benchmarks.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress copies src into dst.
//
// Unlike the other codecs the result never aliases src, so callers may keep
// writing into their source buffer afterwards.
//
// Returns:
//   - []byte: A copy of src
//   - error: Always nil
func (c NoOpCompressor) Compress(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}

// Decompress copies src into dst.
//
// Returns:
//   - []byte: A copy of src
//   - error: Always nil
func (c NoOpCompressor) Decompress(dst, src []byte, maxSize int) ([]byte, error) {
	if err := checkDecodedSize("noop", len(src), decodeLimit(maxSize)); err != nil {
		return nil, err
	}

	return append(dst[:0], src...), nil
}
