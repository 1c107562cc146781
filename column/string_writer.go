package column

import (
	"bytes"
	"fmt"

	"github.com/arloliu/dwrf/dictionary"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/rle"
	"github.com/arloliu/dwrf/stream"
)

// StringDictionaryWriter dictionary-encodes a byte string column.
type StringDictionaryWriter struct {
	cfg     *Config
	encoder *dictionary.StringEncoder
	rows    rowBuffer
}

// NewStringDictionaryWriter creates a writer for one string column.
//
// Options:
//   - WithSortKeys: write the dictionary in ascending byte order
//   - WithCompression, WithChunkSize: stream compression
//   - WithRowIndexStride: rows between automatic checkpoints
//   - WithVInts: variable-length or fixed-width integers
func NewStringDictionaryWriter(opts ...Option) (*StringDictionaryWriter, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	enc, err := dictionary.NewStringEncoder(dictionary.WithSortKeys(cfg.sortKeys))
	if err != nil {
		return nil, err
	}

	return &StringDictionaryWriter{cfg: cfg, encoder: enc, rows: newRowBuffer(cfg.stride)}, nil
}

// Add appends one row holding value. value is copied and may be reused by the caller.
func (w *StringDictionaryWriter) Add(value []byte) {
	w.rows.add(w.encoder.Add(value))
}

// AddString appends one row holding s.
func (w *StringDictionaryWriter) AddString(s string) {
	w.rows.add(w.encoder.AddString(s))
}

// Checkpoint records a row index entry at the current row.
func (w *StringDictionaryWriter) Checkpoint() {
	w.rows.checkpoint()
}

// RowCount returns the number of rows added since the last flush.
func (w *StringDictionaryWriter) RowCount() int {
	return w.rows.ids.Size()
}

// DictionarySize returns the number of distinct values added since the last flush.
func (w *StringDictionaryWriter) DictionarySize() int {
	return w.encoder.Size()
}

// EstimatedSize estimates the memory held by the writer, for stripe flush decisions.
func (w *StringDictionaryWriter) EstimatedSize() int64 {
	return w.encoder.SizeInBytes() + w.rows.ids.SizeInBytes()
}

// Flush encodes the buffered rows into a stripe and resets the writer.
func (w *StringDictionaryWriter) Flush() (*Stripe, error) {
	data, err := stream.NewOutStream("data", w.cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}
	defer data.Close()

	length, err := stream.NewOutStream("length", w.cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}
	defer length.Close()

	lengths, err := rle.NewWriter(length, rowCodingOptions()...)
	if err != nil {
		return nil, err
	}

	stripe, err := flushDictionary(w.cfg, w.encoder, &w.rows, func(e dictionary.Entry[[]byte]) error {
		if err := lengths.Write(int64(e.Length())); err != nil {
			return err
		}

		return e.WriteBytes(data)
	})
	if err != nil {
		return nil, err
	}
	if err := data.Flush(); err != nil {
		return nil, fmt.Errorf("write dictionary: %w", err)
	}
	if err := lengths.Flush(); err != nil {
		return nil, fmt.Errorf("write dictionary lengths: %w", err)
	}

	stripe.Kind = format.DictionaryString
	stripe.Data = bytes.Clone(data.Bytes())
	stripe.Length = bytes.Clone(length.Bytes())

	w.encoder.Clear()
	w.rows.reset()

	return stripe, nil
}
