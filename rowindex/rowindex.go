// Package rowindex records stream positions at row group boundaries.
//
// A column writer takes a checkpoint every N rows. At each checkpoint every stream
// of the column appends the positions it needs to resume decoding at that row:
//
//   - an uncompressed stream appends one position, the byte offset;
//   - a compressed stream appends two, the chunk start in compressed bytes and
//     the offset inside the decompressed chunk;
//   - a run-length encoder then appends the number of values of the current run
//     already consumed at the checkpoint.
//
// Readers walk the same list in the same order: each layer consumes its positions
// starting at an index handed to it by the layer below and returns the index of the
// first position it did not consume.
//
// # Binary Form
//
// An Index serializes as a sequence of unsigned varints:
//
//	entryCount
//	repeat entryCount times:
//	    positionCount
//	    position[0] ... position[positionCount-1]
package rowindex

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/dwrf/errs"
)

// PositionRecorder receives positions when a stream or encoder records a checkpoint.
type PositionRecorder interface {
	AddPosition(position uint64)
}

// Entry holds the positions recorded for one checkpoint, in recording order.
type Entry struct {
	Positions []uint64
}

var _ PositionRecorder = (*Entry)(nil)

// AddPosition appends position to the entry.
func (e *Entry) AddPosition(position uint64) {
	e.Positions = append(e.Positions, position)
}

// Position returns the i-th recorded position. It panics if i is out of range;
// readers validate entries with Len before loading them.
func (e Entry) Position(i int) uint64 {
	return e.Positions[i]
}

// Len returns the number of recorded positions.
func (e Entry) Len() int {
	return len(e.Positions)
}

// Index is an ordered list of checkpoint entries for one column.
type Index struct {
	Entries []Entry
}

// NewEntry appends an empty entry and returns it for recording.
//
// The returned pointer is only valid until the next call to NewEntry.
func (x *Index) NewEntry() *Entry {
	x.Entries = append(x.Entries, Entry{})
	return &x.Entries[len(x.Entries)-1]
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.Entries)
}

// Reset removes all entries.
func (x *Index) Reset() {
	x.Entries = x.Entries[:0]
}

// AppendTo appends the binary form of the index to dst and returns the extended slice.
func (x *Index) AppendTo(dst []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(x.Entries)))
	for _, e := range x.Entries {
		dst = binary.AppendUvarint(dst, uint64(len(e.Positions)))
		for _, p := range e.Positions {
			dst = binary.AppendUvarint(dst, p)
		}
	}

	return dst
}

// Parse decodes an index produced by AppendTo.
//
// Returns errs.ErrInvalidRowIndex if data is truncated, declares more items than it
// holds, or has trailing bytes.
func Parse(data []byte) (*Index, error) {
	r := reader{data: data}

	count, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	// Every entry takes at least one byte.
	if count > uint64(len(r.data)) {
		return nil, fmt.Errorf("%w: %d entries declared, %d bytes left", errs.ErrInvalidRowIndex, count, len(r.data))
	}

	x := &Index{Entries: make([]Entry, count)}
	for i := range x.Entries {
		n, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		if n > uint64(len(r.data)) {
			return nil, fmt.Errorf("%w: entry %d declares %d positions, %d bytes left", errs.ErrInvalidRowIndex, i, n, len(r.data))
		}

		positions := make([]uint64, n)
		for j := range positions {
			if positions[j], err = r.uvarint(); err != nil {
				return nil, err
			}
		}
		x.Entries[i].Positions = positions
	}

	if len(r.data) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidRowIndex, len(r.data))
	}

	return x, nil
}

type reader struct {
	data []byte
}

func (r *reader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data)
	if n <= 0 {
		return 0, fmt.Errorf("%w: malformed varint", errs.ErrInvalidRowIndex)
	}
	r.data = r.data[n:]

	return v, nil
}
