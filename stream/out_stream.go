package stream

import (
	"fmt"
	"io"

	"github.com/arloliu/dwrf/compress"
	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/internal/pool"
	"github.com/arloliu/dwrf/rowindex"
)

// OutStream buffers the bytes of one column stream in memory.
//
// Uncompressed streams keep the bytes as written. Compressed streams collect
// ChunkSize bytes at a time and emit each full chunk as a header followed by the
// compressed block, or by the raw bytes when compression did not shrink them.
type OutStream struct {
	name        string
	compression format.CompressionType
	codec       compress.Codec
	chunkSize   int
	vints       bool

	pending *pool.ByteBuffer // uncompressed bytes not yet framed
	output  *pool.ByteBuffer // framed chunks; unused when uncompressed
	scratch []byte

	written int64
	closed  bool
}

// NewOutStream creates an empty output stream. name is only used in error messages.
//
// Options:
//   - WithCodec: chunk compression (default format.CompressionNone)
//   - WithChunkSize: uncompressed chunk size (default DefaultChunkSize)
//   - WithVInts: integer encoding of the writers using the stream (default true)
func NewOutStream(name string, opts ...Option) (*OutStream, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	s := &OutStream{
		name:        name,
		compression: cfg.compression,
		codec:       cfg.codec,
		chunkSize:   cfg.chunkSize,
		vints:       cfg.vints,
		pending:     pool.GetStreamBuffer(),
	}
	if s.codec != nil {
		s.output = pool.GetChunkBuffer()
	}

	return s, nil
}

// UseVInts reports whether integers written to the stream use variable-length encoding.
func (s *OutStream) UseVInts() bool {
	return s.vints
}

// Write appends p to the stream. It fails only once the stream is closed or a
// chunk cannot be compressed.
func (s *OutStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("%w: %s", errs.ErrStreamClosed, s.name)
	}

	n := len(p)
	if s.codec == nil {
		s.pending.MustWrite(p)
		s.written += int64(n)

		return n, nil
	}

	for len(p) > 0 {
		room := s.chunkSize - s.pending.Len()
		take := min(room, len(p))
		s.pending.MustWrite(p[:take])
		p = p[take:]
		if s.pending.Len() == s.chunkSize {
			if err := s.flushChunk(); err != nil {
				return n - len(p), err
			}
		}
	}
	s.written += int64(n)

	return n, nil
}

// WriteByte appends a single byte to the stream.
func (s *OutStream) WriteByte(c byte) error {
	if s.closed {
		return fmt.Errorf("%w: %s", errs.ErrStreamClosed, s.name)
	}

	_ = s.pending.WriteByte(c)
	s.written++
	if s.codec != nil && s.pending.Len() == s.chunkSize {
		return s.flushChunk()
	}

	return nil
}

// RecordPosition adds the current write position to rec: the byte offset for an
// uncompressed stream, or the start of the current chunk in the framed output and
// the offset inside that chunk for a compressed one.
func (s *OutStream) RecordPosition(rec rowindex.PositionRecorder) {
	if s.codec == nil {
		rec.AddPosition(uint64(s.pending.Len())) //nolint:gosec
		return
	}

	rec.AddPosition(uint64(s.output.Len()))  //nolint:gosec
	rec.AddPosition(uint64(s.pending.Len())) //nolint:gosec
}

// Flush frames any pending bytes of a compressed stream as a final short chunk.
// It is a no-op for uncompressed streams.
func (s *OutStream) Flush() error {
	if s.closed {
		return fmt.Errorf("%w: %s", errs.ErrStreamClosed, s.name)
	}
	if s.codec == nil {
		return nil
	}

	return s.flushChunk()
}

func (s *OutStream) flushChunk() error {
	chunk := s.pending.Bytes()
	if len(chunk) == 0 {
		return nil
	}

	packed, err := s.codec.Compress(s.scratch, chunk)
	if err != nil {
		return fmt.Errorf("compress %s chunk of stream %s: %w", s.compression, s.name, err)
	}
	s.scratch = packed

	s.output.Grow(headerSize + min(len(packed), len(chunk)))
	if len(packed) >= len(chunk) {
		s.output.B = appendHeader(s.output.B, len(chunk), true)
		s.output.MustWrite(chunk)
	} else {
		s.output.B = appendHeader(s.output.B, len(packed), false)
		s.output.MustWrite(packed)
	}
	s.pending.Reset()

	return nil
}

// Bytes returns the stream content produced so far. For a compressed stream call
// Flush first; bytes still pending in the current chunk are not included.
//
// The returned slice aliases the stream buffer and is valid until the next write,
// Reset or Close.
func (s *OutStream) Bytes() []byte {
	if s.codec == nil {
		return s.pending.Bytes()
	}

	return s.output.Bytes()
}

// Len returns len(Bytes()).
func (s *OutStream) Len() int {
	return len(s.Bytes())
}

// WriteTo writes the stream content to w. A compressed stream is flushed first.
func (s *OutStream) WriteTo(w io.Writer) (int64, error) {
	if err := s.Flush(); err != nil {
		return 0, err
	}

	n, err := w.Write(s.Bytes())

	return int64(n), err
}

// Stats reports the compression achieved on the bytes framed so far.
func (s *OutStream) Stats() compress.CompressionStats {
	stats := compress.CompressionStats{
		Algorithm:      s.compression,
		OriginalSize:   s.written,
		CompressedSize: int64(s.Len()),
	}
	if s.codec != nil {
		stats.OriginalSize -= int64(s.pending.Len())
	}

	return stats
}

// Reset discards the stream content so the stream can be reused for a new stripe.
func (s *OutStream) Reset() {
	s.pending.Reset()
	if s.output != nil {
		s.output.Reset()
	}
	s.written = 0
}

// Close releases the stream buffers. The stream must not be used afterwards.
func (s *OutStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	pool.PutStreamBuffer(s.pending)
	s.pending = nil
	if s.output != nil {
		pool.PutChunkBuffer(s.output)
		s.output = nil
	}
	s.scratch = nil

	return nil
}
