package column

import (
	"fmt"

	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/internal/options"
	"github.com/arloliu/dwrf/stream"
)

// DefaultRowIndexStride is the default number of rows between two automatic checkpoints.
const DefaultRowIndexStride = 10000

// Config holds the settings shared by dictionary column writers and readers.
// A reader must be configured like the writer that produced the stripe, except
// for sort keys, which only affect writing.
type Config struct {
	sortKeys    bool
	compression format.CompressionType
	chunkSize   int
	stride      int
	vints       bool
}

// Option configures a dictionary column writer or reader.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		compression: format.CompressionNone,
		chunkSize:   stream.DefaultChunkSize,
		stride:      DefaultRowIndexStride,
		vints:       true,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) streamOptions() []stream.Option {
	return []stream.Option{
		stream.WithCodec(c.compression),
		stream.WithChunkSize(c.chunkSize),
		stream.WithVInts(c.vints),
	}
}

// WithSortKeys writes the dictionary in ascending key order instead of insertion order.
func WithSortKeys(sortKeys bool) Option {
	return options.NoError(func(c *Config) {
		c.sortKeys = sortKeys
	})
}

// WithCompression sets the chunk compression of every stream of the column.
// The default is format.CompressionNone.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !compression.IsValid() {
			return fmt.Errorf("%w: %s (%d)", errs.ErrInvalidCompressionType, compression, uint8(compression))
		}
		c.compression = compression

		return nil
	})
}

// WithChunkSize sets the compression chunk size of the column streams.
func WithChunkSize(size int) Option {
	return options.New(func(c *Config) error {
		if size <= 0 || size > stream.MaxChunkSize {
			return fmt.Errorf("%w: %d", errs.ErrInvalidChunkSize, size)
		}
		c.chunkSize = size

		return nil
	})
}

// WithRowIndexStride sets the number of rows between automatic checkpoints.
// Zero disables automatic checkpoints; Checkpoint can still be called explicitly.
func WithRowIndexStride(stride int) Option {
	return options.New(func(c *Config) error {
		if stride < 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidRowIndexStride, stride)
		}
		c.stride = stride

		return nil
	})
}

// WithVInts selects variable-length (true, the default) or fixed-width integers
// for dictionary keys, lengths and row ids.
func WithVInts(vints bool) Option {
	return options.NoError(func(c *Config) {
		c.vints = vints
	})
}
