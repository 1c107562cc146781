package column

import (
	"fmt"
	"iter"

	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/rle"
	"github.com/arloliu/dwrf/stream"
)

// dictionaryReader resolves the row stream of a stripe against a materialized
// dictionary.
type dictionaryReader[K any] struct {
	dictionary     []K
	rows           *rle.Reader
	checkpointRows []int
	rowCount       int
	row            int
}

func checkKind(stripe *Stripe, kind format.DictionaryKind) error {
	if stripe.Kind != kind {
		return fmt.Errorf("%w: want %s, got %s", errs.ErrDictionaryKind, kind, stripe.Kind)
	}
	if stripe.DictionarySize < 0 {
		return fmt.Errorf("%w: negative dictionary size %d", errs.ErrDictionaryLength, stripe.DictionarySize)
	}
	if stripe.RowCount < 0 {
		return fmt.Errorf("%w: negative row count %d", errs.ErrInvalidRowIndex, stripe.RowCount)
	}
	if len(stripe.CheckpointRows) != len(stripe.Index) {
		return fmt.Errorf("%w: %d checkpoint rows for %d entries",
			errs.ErrInvalidRowIndex, len(stripe.CheckpointRows), len(stripe.Index))
	}

	return nil
}

func newDictionaryReader[K any](cfg *Config, stripe *Stripe, dictionary []K) (*dictionaryReader[K], error) {
	in, err := stream.NewInStream("rows", stripe.Rows, cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}

	rows, err := rle.NewReader(in, rowCodingOptions()...)
	if err != nil {
		return nil, err
	}

	if len(stripe.Index) > 0 {
		want := in.PositionsPerEntry() + 1
		for i, e := range stripe.Index {
			if e.Len() != want {
				return nil, fmt.Errorf("%w: entry %d has %d positions, want %d",
					errs.ErrInvalidRowIndex, i, e.Len(), want)
			}
		}
		rows.LoadIndices(stripe.Index, 0)
	}

	return &dictionaryReader[K]{
		dictionary:     dictionary,
		rows:           rows,
		checkpointRows: stripe.CheckpointRows,
		rowCount:       stripe.RowCount,
	}, nil
}

// Dictionary returns the decoded dictionary in stored order.
func (r *dictionaryReader[K]) Dictionary() []K {
	return r.dictionary
}

// Row returns the number of the next row to be read.
func (r *dictionaryReader[K]) Row() int {
	return r.row
}

// HasNext reports whether rows are left.
func (r *dictionaryReader[K]) HasNext() bool {
	return r.row < r.rowCount
}

// Next returns the value of the next row.
//
// Returns errs.ErrInvalidDictionaryID when the row refers past the dictionary and
// errs.ErrEndOfStream when the row stream is exhausted.
func (r *dictionaryReader[K]) Next() (K, error) {
	var zero K

	id, err := r.rows.Next()
	if err != nil {
		return zero, fmt.Errorf("row %d: %w", r.row, err)
	}
	if id < 0 || id >= int64(len(r.dictionary)) {
		return zero, fmt.Errorf("%w: row %d id %d, dictionary size %d",
			errs.ErrInvalidDictionaryID, r.row, id, len(r.dictionary))
	}
	r.row++

	return r.dictionary[id], nil
}

// Skip discards the next n rows.
func (r *dictionaryReader[K]) Skip(n int) error {
	if err := r.rows.Skip(int64(n)); err != nil {
		return err
	}
	r.row += n

	return nil
}

// Seek positions the reader at checkpoint; the next row read is the row the
// checkpoint was taken at. Checkpoint len(Index) seeks past the last row.
func (r *dictionaryReader[K]) Seek(checkpoint int) error {
	if err := r.rows.Seek(checkpoint); err != nil {
		return err
	}

	if checkpoint < len(r.checkpointRows) {
		r.row = r.checkpointRows[checkpoint]
	} else {
		r.row = r.rowCount
	}

	return nil
}

// All returns an iterator over the remaining rows. Iteration stops after the first
// error, which is yielded with a zero value.
func (r *dictionaryReader[K]) All() iter.Seq2[K, error] {
	return func(yield func(K, error) bool) {
		for r.HasNext() {
			v, err := r.Next()
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the row stream.
func (r *dictionaryReader[K]) Close() error {
	return r.rows.Close()
}
