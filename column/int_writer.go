package column

import (
	"bytes"
	"fmt"

	"github.com/arloliu/dwrf/dictionary"
	"github.com/arloliu/dwrf/encoding"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/stream"
)

// IntDictionaryWriter dictionary-encodes an int64 column.
type IntDictionaryWriter struct {
	cfg     *Config
	encoder *dictionary.IntEncoder
	rows    rowBuffer
}

// NewIntDictionaryWriter creates a writer for one int64 column.
//
// Options:
//   - WithSortKeys: write the dictionary in ascending order
//   - WithCompression, WithChunkSize: stream compression
//   - WithRowIndexStride: rows between automatic checkpoints
//   - WithVInts: variable-length or fixed-width integers
func NewIntDictionaryWriter(opts ...Option) (*IntDictionaryWriter, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	enc, err := dictionary.NewIntEncoder(
		dictionary.WithSortKeys(cfg.sortKeys),
		dictionary.WithIntegerCoding(keyCoding(cfg)),
	)
	if err != nil {
		return nil, err
	}

	return &IntDictionaryWriter{cfg: cfg, encoder: enc, rows: newRowBuffer(cfg.stride)}, nil
}

func keyCoding(cfg *Config) encoding.IntegerCoding {
	coding := encoding.DefaultIntegerCoding()
	coding.VInts = cfg.vints

	return coding
}

// Add appends one row holding value.
func (w *IntDictionaryWriter) Add(value int64) {
	w.rows.add(w.encoder.Add(value))
}

// Checkpoint records a row index entry at the current row.
func (w *IntDictionaryWriter) Checkpoint() {
	w.rows.checkpoint()
}

// RowCount returns the number of rows added since the last flush.
func (w *IntDictionaryWriter) RowCount() int {
	return w.rows.ids.Size()
}

// DictionarySize returns the number of distinct values added since the last flush.
func (w *IntDictionaryWriter) DictionarySize() int {
	return w.encoder.Size()
}

// EstimatedSize estimates the memory held by the writer, for stripe flush decisions.
func (w *IntDictionaryWriter) EstimatedSize() int64 {
	return w.encoder.SizeInBytes() + w.rows.ids.SizeInBytes()
}

// Flush encodes the buffered rows into a stripe and resets the writer.
func (w *IntDictionaryWriter) Flush() (*Stripe, error) {
	data, err := stream.NewOutStream("data", w.cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}
	defer data.Close()

	stripe, err := flushDictionary(w.cfg, w.encoder, &w.rows, func(e dictionary.Entry[int64]) error {
		return e.WriteBytes(data)
	})
	if err != nil {
		return nil, err
	}
	if err := data.Flush(); err != nil {
		return nil, fmt.Errorf("write dictionary: %w", err)
	}

	stripe.Kind = format.DictionaryInt
	stripe.Data = bytes.Clone(data.Bytes())

	w.encoder.Clear()
	w.rows.reset()

	return stripe, nil
}
