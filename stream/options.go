package stream

import (
	"fmt"

	"github.com/arloliu/dwrf/compress"
	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/internal/options"
)

const (
	// DefaultChunkSize is the default uncompressed size of one compression chunk.
	DefaultChunkSize = 256 * 1024

	// MaxChunkSize is the largest chunk length a 3-byte chunk header can describe.
	MaxChunkSize = 1<<23 - 1
)

// Config holds the parameters shared by OutStream and InStream. Both ends of a
// stream must be configured identically.
type Config struct {
	compression format.CompressionType
	codec       compress.Codec
	chunkSize   int
	vints       bool
}

// Option configures a stream.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		compression: format.CompressionNone,
		chunkSize:   DefaultChunkSize,
		vints:       true,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Compressed reports whether the stream is framed into compressed chunks.
func (c *Config) Compressed() bool {
	return c.codec != nil
}

// WithCodec selects the chunk compression. format.CompressionNone, the default,
// disables chunk framing entirely.
//
// Returns errs.ErrInvalidCompressionType for an unknown type.
func WithCodec(compression format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if compression == format.CompressionNone {
			c.compression, c.codec = compression, nil
			return nil
		}

		codec, err := compress.GetCodec(compression)
		if err != nil {
			return err
		}
		c.compression, c.codec = compression, codec

		return nil
	})
}

// WithChunkSize sets the uncompressed chunk size of compressed streams.
// The default is DefaultChunkSize.
//
// Returns errs.ErrInvalidChunkSize unless 0 < size <= MaxChunkSize.
func WithChunkSize(size int) Option {
	return options.New(func(c *Config) error {
		if size <= 0 || size > MaxChunkSize {
			return fmt.Errorf("%w: %d, must be in [1, %d]", errs.ErrInvalidChunkSize, size, MaxChunkSize)
		}
		c.chunkSize = size

		return nil
	})
}

// WithVInts selects variable-length (true, the default) or fixed-width integers
// for the encoders writing to or reading from the stream.
func WithVInts(vints bool) Option {
	return options.NoError(func(c *Config) {
		c.vints = vints
	})
}
