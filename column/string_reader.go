package column

import (
	"fmt"
	"io"

	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/rle"
	"github.com/arloliu/dwrf/stream"
)

// StringDictionaryReader reads the rows of a string dictionary stripe.
//
// Values returned by Next share one buffer holding the whole dictionary and must
// not be modified.
type StringDictionaryReader struct {
	*dictionaryReader[[]byte]
}

// NewStringDictionaryReader decodes the dictionary of stripe and prepares its rows
// for reading. opts must match the options of the writer, sort keys aside.
//
// Returns errs.ErrDictionaryLength when the entry lengths do not add up to the
// dictionary data.
func NewStringDictionaryReader(stripe *Stripe, opts ...Option) (*StringDictionaryReader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := checkKind(stripe, format.DictionaryString); err != nil {
		return nil, err
	}

	dictionary, err := readStringDictionary(cfg, stripe)
	if err != nil {
		return nil, err
	}

	r, err := newDictionaryReader(cfg, stripe, dictionary)
	if err != nil {
		return nil, err
	}

	return &StringDictionaryReader{dictionaryReader: r}, nil
}

func readStringDictionary(cfg *Config, stripe *Stripe) ([][]byte, error) {
	data, err := stream.NewInStream("data", stripe.Data, cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}
	defer data.Close()

	chars, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("read dictionary data: %w", err)
	}

	length, err := stream.NewInStream("length", stripe.Length, cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}
	lengths, err := rle.NewReader(length, rowCodingOptions()...)
	if err != nil {
		return nil, err
	}
	defer lengths.Close()

	size := stripe.DictionarySize
	dictionary := make([][]byte, 0, min(size, len(chars)+1))
	off := 0
	for i := range size {
		n, err := lengths.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d of %d: %w", errs.ErrDictionaryLength, i, size, err)
		}
		if n < 0 || int64(len(chars)-off) < n {
			return nil, fmt.Errorf("%w: entry %d needs %d bytes, %d left", errs.ErrDictionaryLength, i, n, len(chars)-off)
		}
		end := off + int(n)
		dictionary = append(dictionary, chars[off:end:end])
		off = end
	}
	if off != len(chars) {
		return nil, fmt.Errorf("%w: %d of %d bytes used", errs.ErrDictionaryLength, off, len(chars))
	}
	if lengths.HasNext() {
		return nil, fmt.Errorf("%w: lengths left after %d entries", errs.ErrDictionaryLength, size)
	}

	return dictionary, nil
}
