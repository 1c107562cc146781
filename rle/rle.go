// Package rle implements the version 1 run-length integer encoding of columnar
// stripe streams.
//
// A stream is a sequence of runs, each introduced by one control byte:
//
//	control < 0x80   repeat run of control+3 values, followed by one delta byte
//	                 (a signed int8) and the base value; value i = base + i*delta
//	control >= 0x80  literal run of 0x100-control values, each stored in full
//
// Values are serialized with an encoding.IntegerCoding: zigzag or plain base-128
// varints when the stream uses variable-length integers, otherwise NumBytes bytes
// in the configured byte order.
//
// # Example
//
// The repeat run {0x01, 0xfe, 0x14} (4 values, delta -2, base zigzag(10)) decodes
// to 10, 8, 6, 4.
//
// # Row Index
//
// Writer.RecordPosition appends the position of the underlying stream followed by
// the number of values already buffered in the current run. Reader.LoadIndices
// and Reader.Seek consume the same layout, so a reader can resume at any recorded
// checkpoint by seeking the stream and then skipping into the run.
//
// # Thread Safety
//
// Readers and writers are not safe for concurrent use.
package rle

import (
	"fmt"
	"io"

	"github.com/arloliu/dwrf/encoding"
	"github.com/arloliu/dwrf/endian"
	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/internal/options"
	"github.com/arloliu/dwrf/rowindex"
)

const (
	MinRepeatSize  = 3
	MaxRepeatSize  = 127 + MinRepeatSize
	MaxLiteralSize = 128
	MinDelta       = -128
	MaxDelta       = 127
)

// OutputStream is the byte sink of a Writer.
type OutputStream interface {
	io.Writer
	io.ByteWriter
	// UseVInts reports whether integers are written with variable-length encoding.
	UseVInts() bool
	// RecordPosition adds the current write position to rec.
	RecordPosition(rec rowindex.PositionRecorder)
	// Flush completes any buffered output.
	Flush() error
}

// InputStream is the byte source of a Reader.
type InputStream interface {
	io.ByteReader
	// Available returns the number of bytes that can still be read; zero at the end.
	Available() int
	// Seek positions the stream at a checkpoint loaded by LoadIndices.
	Seek(index int) error
	// LoadIndices reads the stream positions from entries starting at position
	// index start and returns the index of the first position it did not consume.
	LoadIndices(entries []rowindex.Entry, start int) int
	// UseVInts reports whether integers are stored with variable-length encoding.
	UseVInts() bool
	Close() error
}

// Config holds the integer parameters of a Reader or Writer.
type Config struct {
	coding encoding.IntegerCoding
}

// Option configures a Reader or Writer.
type Option = options.Option[*Config]

func newConfig(vints bool, opts []Option) (*Config, error) {
	cfg := &Config{coding: encoding.DefaultIntegerCoding()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	cfg.coding.VInts = vints

	if err := cfg.coding.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithSigned selects signed (true, the default) or unsigned values.
func WithSigned(signed bool) Option {
	return options.NoError(func(c *Config) {
		c.coding.Signed = signed
	})
}

// WithNumBytes sets the width of fixed-width values: 1, 2, 4 or 8 (the default).
// It is ignored by streams using variable-length integers.
func WithNumBytes(n int) Option {
	return options.New(func(c *Config) error {
		if !endian.ValidWidth(n) {
			return fmt.Errorf("%w: %d", errs.ErrInvalidNumBytes, n)
		}
		c.coding.NumBytes = n

		return nil
	})
}

// WithEngine sets the byte order of fixed-width values. The default is little endian.
func WithEngine(engine endian.EndianEngine) Option {
	return options.New(func(c *Config) error {
		if engine == nil {
			return errs.ErrNilEndianEngine
		}
		c.coding.Engine = engine

		return nil
	})
}
