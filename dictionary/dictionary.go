// Package dictionary implements dictionary encoders for column values.
//
// A dictionary encoder interns values: Add assigns every distinct value a dense
// integer id in order of first insertion (0, 1, 2, ...) and returns the existing id
// for values it has already seen. Row streams then refer to values by id, and the
// dictionary itself is serialized once per stripe by visiting its entries.
//
// Two specializations are provided:
//   - IntEncoder stores int64 keys and writes them with an encoding.IntegerCoding.
//   - StringEncoder stores byte strings in one shared append-only buffer and writes
//     the raw bytes of each entry; lengths are tracked by the caller.
//
// # Sorted Visitation
//
// An encoder created with WithSortKeys(true) visits its entries in ascending value
// order instead of insertion order. Sorting only changes the visitation order: the
// id returned by Add for a value, and therefore every row stream already written
// with that id, is never altered. Entry.OriginalPosition reports the id of each
// visited entry so callers can build an id to visit-position table.
//
// # Example
//
//	enc, _ := dictionary.NewIntEncoder(dictionary.WithSortKeys(true))
//	for _, v := range []int64{5, 3, 5, 9, 3} {
//	    enc.Add(v) // ids 0, 1, 0, 2, 1
//	}
//	_ = enc.Visit(func(e dictionary.Entry[int64]) error {
//	    fmt.Println(e.OriginalPosition(), e.Key()) // (1,3) (0,5) (2,9)
//	    return nil
//	})
//
// # Thread Safety
//
// Encoders are not safe for concurrent use. Independent encoders share no state.
package dictionary

import (
	"io"
	"iter"
	"slices"

	"github.com/arloliu/dwrf/encoding"
	"github.com/arloliu/dwrf/internal/options"
	"github.com/arloliu/dwrf/internal/pool"
)

// Encoder is the contract shared by the dictionary encoders.
type Encoder[K any] interface {
	// Add interns value and returns its id. Equal values always receive the same
	// id; a new value receives the next id in insertion order.
	Add(value K) int

	// CompareValue compares the value most recently passed to Add with the value
	// stored under id, returning -1, 0 or +1.
	CompareValue(id int) int

	// Visit calls fn once per entry, in sorted order when sort keys are enabled and
	// in insertion order otherwise. It stops at and returns the first error from fn.
	Visit(fn func(Entry[K]) error) error

	// Entries returns an iterator over the entries in visitation order.
	Entries() iter.Seq[Entry[K]]

	// Size returns the number of distinct values.
	Size() int

	// Clear empties the dictionary; the next Add returns id 0 again.
	Clear()

	// SizeInBytes returns an estimate of the memory held by the dictionary.
	SizeInBytes() int64

	// Sorted reports whether entries are visited in sorted order.
	Sorted() bool
}

// Entry is a handle on one dictionary entry during visitation.
//
// The handle is reused between entries and is only valid until the callback
// (or loop iteration) that received it returns.
type Entry[K any] interface {
	// OriginalPosition returns the id assigned to the entry by Add.
	OriginalPosition() int
	// Key returns the entry value.
	Key() K
	// WriteBytes writes the serialized form of the entry to w.
	WriteBytes(w io.Writer) error
	// Length returns the number of bytes WriteBytes writes.
	Length() int
}

// Config holds the construction parameters of an encoder.
type Config struct {
	sortKeys bool
	coding   encoding.IntegerCoding
}

// Option configures a dictionary encoder.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{coding: encoding.DefaultIntegerCoding()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithSortKeys selects sorted (true) or insertion-order (false) visitation.
// The default is insertion order.
func WithSortKeys(sortKeys bool) Option {
	return options.NoError(func(c *Config) {
		c.sortKeys = sortKeys
	})
}

// WithIntegerCoding sets the serialization of IntEncoder keys.
// The default is encoding.DefaultIntegerCoding. StringEncoder ignores it.
func WithIntegerCoding(coding encoding.IntegerCoding) Option {
	return options.New(func(c *Config) error {
		if err := coding.Validate(); err != nil {
			return err
		}
		c.coding = coding

		return nil
	})
}

// entries yields at(id) for every id in [0, n), ordered by cmp when sorted is set.
func entries[K any](n int, sorted bool, cmp func(a, b int32) int, at func(id int) Entry[K]) iter.Seq[Entry[K]] {
	return func(yield func(Entry[K]) bool) {
		if !sorted {
			for id := range n {
				if !yield(at(id)) {
					return
				}
			}

			return
		}

		order, cleanup := pool.GetInt32Slice(n)
		defer cleanup()

		for i := range order {
			order[i] = int32(i) //nolint:gosec
		}
		slices.SortFunc(order, cmp)

		for _, id := range order {
			if !yield(at(int(id))) {
				return
			}
		}
	}
}

func visit[K any](seq iter.Seq[Entry[K]], fn func(Entry[K]) error) error {
	for e := range seq {
		if err := fn(e); err != nil {
			return err
		}
	}

	return nil
}
