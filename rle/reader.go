package rle

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/arloliu/dwrf/encoding"
	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/rowindex"
)

// Reader decodes a run-length encoded integer sequence.
type Reader struct {
	input  InputStream
	coding encoding.IntegerCoding

	literals    [MaxLiteralSize]int64
	numLiterals int
	used        int
	delta       int64
	repeat      bool

	// consumed holds the number of run values already read at each checkpoint,
	// plus a trailing zero for the end of the stream.
	consumed []int
}

// NewReader creates a reader over input. Whether values are variable-length is
// taken from input.UseVInts.
//
// Options:
//   - WithSigned: signed (default) or unsigned values
//   - WithNumBytes: fixed value width (default 8)
//   - WithEngine: fixed value byte order (default little endian)
func NewReader(input InputStream, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(input.UseVInts(), opts)
	if err != nil {
		return nil, err
	}

	return &Reader{input: input, coding: cfg.coding}, nil
}

// readValues decodes the next run header and its stored values. On error the
// reader holds no run, so no partial run is ever returned.
func (r *Reader) readValues() error {
	r.numLiterals, r.used = 0, 0

	control, err := r.input.ReadByte()
	if err != nil {
		return endOfStream(err, "reading run control byte")
	}

	if control < 0x80 {
		delta, err := r.input.ReadByte()
		if err != nil {
			return endOfStream(err, "reading repeat run delta")
		}
		base, err := r.coding.Read(r.input)
		if err != nil {
			return fmt.Errorf("reading repeat run base: %w", err)
		}

		r.repeat = true
		r.delta = int64(int8(delta))
		r.literals[0] = base
		r.numLiterals = int(control) + MinRepeatSize

		return nil
	}

	n := 0x100 - int(control)
	for i := range n {
		v, err := r.coding.Read(r.input)
		if err != nil {
			return fmt.Errorf("reading literal %d of %d: %w", i, n, err)
		}
		r.literals[i] = v
	}
	r.repeat = false
	r.numLiterals = n

	return nil
}

func endOfStream(err error, context string) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s", errs.ErrEndOfStream, context)
	}

	return fmt.Errorf("%s: %w", context, err)
}

// HasNext reports whether another value can be read: the current run still has
// values, or the input has bytes left.
func (r *Reader) HasNext() bool {
	return r.used != r.numLiterals || r.input.Available() > 0
}

// Next returns the next value.
//
// Returns errs.ErrEndOfStream when the input ends before a run is complete.
func (r *Reader) Next() (int64, error) {
	if r.used == r.numLiterals {
		if err := r.readValues(); err != nil {
			return 0, err
		}
	}

	var v int64
	if r.repeat {
		v = r.literals[0] + int64(r.used)*r.delta
	} else {
		v = r.literals[r.used]
	}
	r.used++

	return v, nil
}

// Skip discards the next n values. Skipping zero values is a no-op.
//
// Returns errs.ErrInvalidSkip for negative n and errs.ErrEndOfStream when the input
// holds fewer than n values.
func (r *Reader) Skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidSkip, n)
	}

	for n > 0 {
		if r.used == r.numLiterals {
			if err := r.readValues(); err != nil {
				return err
			}
		}
		consume := min(n, int64(r.numLiterals-r.used))
		r.used += int(consume)
		n -= consume
	}

	return nil
}

// LoadIndices loads the checkpoints of the input stream and of this reader.
//
// The input consumes its own positions first; the position following them in every
// entry is the number of values of the current run consumed at that checkpoint.
// Returns the index of the first position left for the next consumer.
func (r *Reader) LoadIndices(entries []rowindex.Entry, start int) int {
	updated := r.input.LoadIndices(entries, start)

	r.consumed = make([]int, len(entries)+1)
	for i, e := range entries {
		r.consumed[i] = int(e.Position(updated)) //nolint:gosec
	}

	return updated + 1
}

// Seek positions the reader at checkpoint index.
//
// The input is moved to the byte offset of the run that was open at the checkpoint;
// the reader then replays runs until the recorded consumed count is covered. A run
// split by the writer after the checkpoint was taken spans several replayed runs.
//
// Returns errs.ErrIndexNotLoaded before LoadIndices and errs.ErrInvalidCheckpoint
// for an index outside the loaded table.
func (r *Reader) Seek(index int) error {
	if r.consumed == nil {
		return errs.ErrIndexNotLoaded
	}
	if index < 0 || index >= len(r.consumed) {
		return fmt.Errorf("%w: %d of %d", errs.ErrInvalidCheckpoint, index, len(r.consumed)-1)
	}

	if err := r.input.Seek(index); err != nil {
		return err
	}

	consumed := r.consumed[index]
	if consumed == 0 {
		r.used, r.numLiterals = 0, 0
		return nil
	}

	for consumed > 0 {
		if err := r.readValues(); err != nil {
			return err
		}
		r.used = min(consumed, r.numLiterals)
		consumed -= r.numLiterals
	}

	return nil
}

// All returns an iterator over the remaining values. Iteration stops after the
// first error, which is yielded with a zero value.
func (r *Reader) All() iter.Seq2[int64, error] {
	return func(yield func(int64, error) bool) {
		for r.HasNext() {
			v, err := r.Next()
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Close closes the input stream.
func (r *Reader) Close() error {
	return r.input.Close()
}
