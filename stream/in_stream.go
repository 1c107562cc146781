package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/dwrf/compress"
	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/rowindex"
)

// position is a seek target: a byte offset for uncompressed streams, or a chunk
// start plus an offset inside the decoded chunk for compressed ones.
type position struct {
	chunkStart uint64
	offset     uint64
}

// InStream reads the bytes of one column stream produced by OutStream.
//
// Compressed chunks are decoded lazily, one at a time, into a buffer reused for
// the whole life of the stream.
type InStream struct {
	name      string
	data      []byte
	codec     compress.Codec
	chunkSize int
	vints     bool

	chunk   []byte // decoded bytes of the current chunk; all of data when uncompressed
	offset  int    // read position inside chunk
	next    int    // offset in data of the next chunk header
	scratch []byte

	positions []position
	closed    bool
}

var _ io.ByteReader = (*InStream)(nil)

// NewInStream creates a stream reading data. The options must match those of the
// OutStream that produced data.
func NewInStream(name string, data []byte, opts ...Option) (*InStream, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	s := &InStream{
		name:      name,
		data:      data,
		codec:     cfg.codec,
		chunkSize: cfg.chunkSize,
		vints:     cfg.vints,
	}
	s.rewind()

	return s, nil
}

func (s *InStream) rewind() {
	if s.codec == nil {
		s.chunk, s.offset, s.next = s.data, 0, len(s.data)
		return
	}
	s.chunk, s.offset, s.next = nil, 0, 0
}

// UseVInts reports whether integers in the stream use variable-length encoding.
func (s *InStream) UseVInts() bool {
	return s.vints
}

// readChunk decodes the next non-empty chunk. It returns io.EOF at the end of data.
func (s *InStream) readChunk() error {
	for s.next < len(s.data) {
		length, original, err := parseHeader(s.data[s.next:])
		if err != nil {
			return fmt.Errorf("stream %s at %d: %w", s.name, s.next, err)
		}
		start := s.next + headerSize
		if length > len(s.data)-start {
			return fmt.Errorf("%w: stream %s chunk at %d declares %d bytes, %d left",
				errs.ErrCorruptChunk, s.name, s.next, length, len(s.data)-start)
		}
		if length > s.chunkSize && original {
			return fmt.Errorf("%w: stream %s chunk at %d exceeds chunk size %d",
				errs.ErrCorruptChunk, s.name, s.next, s.chunkSize)
		}

		block := s.data[start : start+length]
		s.next = start + length
		if original {
			s.chunk = block
		} else {
			if s.scratch == nil {
				s.scratch = make([]byte, 0, s.chunkSize)
			}
			decoded, err := s.codec.Decompress(s.scratch, block, s.chunkSize)
			if err != nil {
				return fmt.Errorf("%w: stream %s: %w", errs.ErrCorruptChunk, s.name, err)
			}
			s.scratch = decoded
			s.chunk = decoded
		}
		s.offset = 0

		if len(s.chunk) > 0 {
			return nil
		}
	}

	return io.EOF
}

// ReadByte returns the next byte, or io.EOF at the end of the stream.
func (s *InStream) ReadByte() (byte, error) {
	if s.closed {
		return 0, fmt.Errorf("%w: %s", errs.ErrStreamClosed, s.name)
	}
	if s.offset == len(s.chunk) {
		if err := s.readChunk(); err != nil {
			return 0, err
		}
	}
	c := s.chunk[s.offset]
	s.offset++

	return c, nil
}

// Read reads up to len(p) bytes, crossing chunk boundaries as needed.
func (s *InStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("%w: %s", errs.ErrStreamClosed, s.name)
	}

	n := 0
	for n < len(p) {
		if s.offset == len(s.chunk) {
			if err := s.readChunk(); err != nil {
				if n > 0 && errors.Is(err, io.EOF) {
					return n, nil
				}

				return n, err
			}
		}
		c := copy(p[n:], s.chunk[s.offset:])
		s.offset += c
		n += c
	}

	return n, nil
}

// Available returns the number of bytes left in the current chunk plus the
// undecoded input that follows it. Zero means the stream is exhausted.
func (s *InStream) Available() int {
	return len(s.chunk) - s.offset + len(s.data) - s.next
}

// LoadIndices reads this stream's seek positions from every entry, starting at
// position index start, and returns the index of the first position left for
// the next consumer. A slot past the last entry seeks to the end of the stream.
func (s *InStream) LoadIndices(entries []rowindex.Entry, start int) int {
	s.positions = make([]position, len(entries)+1)
	for i, e := range entries {
		if s.codec == nil {
			s.positions[i] = position{offset: e.Position(start)}
		} else {
			s.positions[i] = position{chunkStart: e.Position(start), offset: e.Position(start + 1)}
		}
	}

	end := uint64(len(s.data))
	if s.codec == nil {
		s.positions[len(entries)] = position{offset: end}
		return start + 1
	}
	s.positions[len(entries)] = position{chunkStart: end}

	return start + 2
}

// PositionsPerEntry returns how many positions the stream records per checkpoint.
func (s *InStream) PositionsPerEntry() int {
	if s.codec == nil {
		return 1
	}

	return 2
}

// Seek moves the read position to the checkpoint index loaded by LoadIndices.
func (s *InStream) Seek(index int) error {
	if s.closed {
		return fmt.Errorf("%w: %s", errs.ErrStreamClosed, s.name)
	}
	if s.positions == nil {
		return fmt.Errorf("%w: stream %s", errs.ErrIndexNotLoaded, s.name)
	}
	if index < 0 || index >= len(s.positions) {
		return fmt.Errorf("%w: stream %s checkpoint %d of %d", errs.ErrInvalidCheckpoint, s.name, index, len(s.positions)-1)
	}

	p := s.positions[index]
	if s.codec == nil {
		if p.offset > uint64(len(s.data)) {
			return fmt.Errorf("%w: stream %s offset %d beyond %d bytes", errs.ErrInvalidPosition, s.name, p.offset, len(s.data))
		}
		s.offset = int(p.offset) //nolint:gosec

		return nil
	}

	if p.chunkStart > uint64(len(s.data)) {
		return fmt.Errorf("%w: stream %s chunk %d beyond %d bytes", errs.ErrInvalidPosition, s.name, p.chunkStart, len(s.data))
	}
	s.chunk, s.offset, s.next = nil, 0, int(p.chunkStart) //nolint:gosec
	if p.offset == 0 {
		return nil
	}

	if err := s.readChunk(); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: stream %s offset %d past end", errs.ErrInvalidPosition, s.name, p.offset)
		}

		return err
	}
	if p.offset > uint64(len(s.chunk)) {
		return fmt.Errorf("%w: stream %s offset %d beyond chunk of %d bytes", errs.ErrInvalidPosition, s.name, p.offset, len(s.chunk))
	}
	s.offset = int(p.offset) //nolint:gosec

	return nil
}

// Close releases the stream. Reads after Close fail with errs.ErrStreamClosed.
func (s *InStream) Close() error {
	s.closed = true
	s.chunk, s.scratch, s.data = nil, nil, nil

	return nil
}
