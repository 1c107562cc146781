// Package dwrf provides dictionary encoding for columnar storage stripes.
//
// A dictionary column stores every distinct value of a stripe once and refers to
// it from each row by a small integer id. The ids are run-length encoded, and every
// stream of the stripe can be chunk-compressed. A row index records stream positions
// at checkpoints so readers can seek into the middle of a stripe without decoding
// the rows before it.
//
// # Core Features
//
//   - Int64 and byte string dictionaries with dense ids in insertion order
//   - Optional sorted dictionaries without rewriting already assigned ids
//   - RLE v1 row streams with repeat runs of up to 130 values
//   - Chunk compression (Zlib, Snappy, Zstd, S2, LZ4) per stream
//   - Row index checkpoints for seeking
//
// # Basic Usage
//
// Writing a column stripe:
//
//	w, _ := dwrf.NewDefaultStringColumnWriter()
//	for _, host := range []string{"web-1", "web-2", "web-1"} {
//	    w.AddString(host)
//	}
//	stripe, _ := w.Flush()
//
// Reading it back:
//
//	r, _ := dwrf.NewDefaultStringColumnReader(stripe)
//	for v, err := range r.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(string(v))
//	}
//
// # Package Structure
//
// This package provides top-level wrappers around the dictionary and column
// packages for the most common use cases. The stream, rle and rowindex packages
// expose the underlying building blocks.
package dwrf

import (
	"github.com/arloliu/dwrf/column"
	"github.com/arloliu/dwrf/dictionary"
	"github.com/arloliu/dwrf/format"
)

var defaultColumnOptions = []column.Option{
	column.WithSortKeys(true),
	column.WithCompression(format.CompressionZstd),
	column.WithRowIndexStride(column.DefaultRowIndexStride),
}

// NewIntEncoder creates an int64 dictionary encoder.
//
// Available options:
//   - dictionary.WithSortKeys(true|false)
//   - dictionary.WithIntegerCoding(coding)
func NewIntEncoder(opts ...dictionary.Option) (*dictionary.IntEncoder, error) {
	return dictionary.NewIntEncoder(opts...)
}

// NewSortedIntEncoder creates an int64 dictionary encoder that visits its entries
// in ascending order.
func NewSortedIntEncoder() (*dictionary.IntEncoder, error) {
	return dictionary.NewIntEncoder(dictionary.WithSortKeys(true))
}

// NewStringEncoder creates a byte string dictionary encoder.
func NewStringEncoder(opts ...dictionary.Option) (*dictionary.StringEncoder, error) {
	return dictionary.NewStringEncoder(opts...)
}

// NewSortedStringEncoder creates a byte string dictionary encoder that visits its
// entries in ascending byte order.
func NewSortedStringEncoder() (*dictionary.StringEncoder, error) {
	return dictionary.NewStringEncoder(dictionary.WithSortKeys(true))
}

// NewIntColumnWriter creates an int64 dictionary column writer with custom options.
//
// Parameters:
//   - opts: Optional configuration functions (see column.Option)
//
// Returns:
//   - *column.IntDictionaryWriter: The created writer.
//   - error: An error if the configuration is invalid.
//
// Available options:
//   - column.WithSortKeys(true|false)
//   - column.WithCompression(format.CompressionNone|Zlib|Snappy|Zstd|S2|LZ4)
//   - column.WithChunkSize(size)
//   - column.WithRowIndexStride(rows)
//   - column.WithVInts(true|false)
func NewIntColumnWriter(opts ...column.Option) (*column.IntDictionaryWriter, error) {
	return column.NewIntDictionaryWriter(opts...)
}

// NewDefaultIntColumnWriter creates an int64 column writer with the recommended
// settings: sorted dictionary, Zstd compressed streams and a checkpoint every
// column.DefaultRowIndexStride rows.
func NewDefaultIntColumnWriter() (*column.IntDictionaryWriter, error) {
	return column.NewIntDictionaryWriter(defaultColumnOptions...)
}

// NewStringColumnWriter creates a string dictionary column writer with custom options.
// It accepts the same options as NewIntColumnWriter.
func NewStringColumnWriter(opts ...column.Option) (*column.StringDictionaryWriter, error) {
	return column.NewStringDictionaryWriter(opts...)
}

// NewDefaultStringColumnWriter creates a string column writer with the settings
// of NewDefaultIntColumnWriter.
func NewDefaultStringColumnWriter() (*column.StringDictionaryWriter, error) {
	return column.NewStringDictionaryWriter(defaultColumnOptions...)
}

// NewIntColumnReader creates a reader for an int64 stripe. opts must match the
// writer's options; sort keys may be omitted.
func NewIntColumnReader(stripe *column.Stripe, opts ...column.Option) (*column.IntDictionaryReader, error) {
	return column.NewIntDictionaryReader(stripe, opts...)
}

// NewDefaultIntColumnReader creates a reader for a stripe written by NewDefaultIntColumnWriter.
func NewDefaultIntColumnReader(stripe *column.Stripe) (*column.IntDictionaryReader, error) {
	return column.NewIntDictionaryReader(stripe, defaultColumnOptions...)
}

// NewStringColumnReader creates a reader for a string stripe. opts must match the
// writer's options; sort keys may be omitted.
func NewStringColumnReader(stripe *column.Stripe, opts ...column.Option) (*column.StringDictionaryReader, error) {
	return column.NewStringDictionaryReader(stripe, opts...)
}

// NewDefaultStringColumnReader creates a reader for a stripe written by NewDefaultStringColumnWriter.
func NewDefaultStringColumnReader(stripe *column.Stripe) (*column.StringDictionaryReader, error) {
	return column.NewStringDictionaryReader(stripe, defaultColumnOptions...)
}

// EncodeInts writes values into a single stripe.
//
// Example:
//
//	stripe, err := dwrf.EncodeInts([]int64{5, 3, 5, 9, 3}, column.WithSortKeys(true))
func EncodeInts(values []int64, opts ...column.Option) (*column.Stripe, error) {
	w, err := column.NewIntDictionaryWriter(opts...)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		w.Add(v)
	}

	return w.Flush()
}

// DecodeInts reads every row of an int64 stripe.
func DecodeInts(stripe *column.Stripe, opts ...column.Option) ([]int64, error) {
	r, err := column.NewIntDictionaryReader(stripe, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var values []int64
	for v, err := range r.All() {
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, nil
}

// EncodeStrings writes values into a single stripe.
func EncodeStrings(values []string, opts ...column.Option) (*column.Stripe, error) {
	w, err := column.NewStringDictionaryWriter(opts...)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		w.AddString(v)
	}

	return w.Flush()
}

// DecodeStrings reads every row of a string stripe. The returned values do not
// share memory with the reader.
func DecodeStrings(stripe *column.Stripe, opts ...column.Option) ([]string, error) {
	r, err := column.NewStringDictionaryReader(stripe, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var values []string
	for v, err := range r.All() {
		if err != nil {
			return nil, err
		}
		values = append(values, string(v))
	}

	return values, nil
}
