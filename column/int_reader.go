package column

import (
	"fmt"

	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/stream"
)

// IntDictionaryReader reads the rows of an int64 dictionary stripe.
type IntDictionaryReader struct {
	*dictionaryReader[int64]
}

// NewIntDictionaryReader decodes the dictionary of stripe and prepares its rows
// for reading. opts must match the options of the writer, sort keys aside.
func NewIntDictionaryReader(stripe *Stripe, opts ...Option) (*IntDictionaryReader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := checkKind(stripe, format.DictionaryInt); err != nil {
		return nil, err
	}

	dictionary, err := readIntDictionary(cfg, stripe)
	if err != nil {
		return nil, err
	}

	r, err := newDictionaryReader(cfg, stripe, dictionary)
	if err != nil {
		return nil, err
	}

	return &IntDictionaryReader{dictionaryReader: r}, nil
}

func readIntDictionary(cfg *Config, stripe *Stripe) ([]int64, error) {
	in, err := stream.NewInStream("data", stripe.Data, cfg.streamOptions()...)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	// Capacity is bounded by the stream bytes rather than the stripe's size field.
	n := stripe.DictionarySize
	coding := keyCoding(cfg)
	dictionary := make([]int64, 0, min(n, in.Available()))
	for i := range n {
		v, err := coding.Read(in)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d of %d: %w", errs.ErrDictionaryLength, i, n, err)
		}
		dictionary = append(dictionary, v)
	}
	if n := in.Available(); n > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrDictionaryLength, n)
	}

	return dictionary, nil
}
