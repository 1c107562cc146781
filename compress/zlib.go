package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// ZlibCompressor compresses chunks as raw deflate streams, without the zlib
// header or checksum, matching the Zlib kind of columnar file formats.
type ZlibCompressor struct{}

var _ Codec = (*ZlibCompressor)(nil)

var flateWriterPool = sync.Pool{
	New: func() any {
		w, err := flate.NewWriter(nil, flate.DefaultCompression)
		if err != nil {
			panic(fmt.Sprintf("failed to create flate writer for pool: %v", err))
		}

		return w
	},
}

var flateReaderPool = sync.Pool{
	New: func() any {
		return flate.NewReader(bytes.NewReader(nil))
	},
}

// NewZlibCompressor creates a new raw deflate compressor.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{}
}

// Compress deflates src using a pooled writer.
func (c ZlibCompressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	buf := bytes.NewBuffer(dst[:0])
	w, _ := flateWriterPool.Get().(*flate.Writer)
	defer flateWriterPool.Put(w)

	w.Reset(buf)
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates src using a pooled reader.
func (c ZlibCompressor) Decompress(dst, src []byte, maxSize int) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	r, _ := flateReaderPool.Get().(io.ReadCloser)
	defer flateReaderPool.Put(r)

	resetter, _ := r.(flate.Resetter)
	if err := resetter.Reset(bytes.NewReader(src), nil); err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	// One byte past the limit tells an oversized chunk from one that fits exactly.
	limit := decodeLimit(maxSize)
	buf := bytes.NewBuffer(dst[:0])
	if _, err := buf.ReadFrom(io.LimitReader(r, int64(limit)+1)); err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	if err := checkDecodedSize("zlib", buf.Len(), limit); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
