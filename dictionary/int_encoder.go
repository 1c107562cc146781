package dictionary

import (
	"cmp"
	"io"
	"iter"

	"github.com/arloliu/dwrf/dynarray"
	"github.com/arloliu/dwrf/encoding"
	"github.com/dolthub/swiss"
)

const (
	initialMapCapacity = 1024

	// Estimated bytes per entry held by the value→id map: an 8-byte key, a 4-byte
	// id and one byte of slot metadata.
	intMapEntryOverhead = 8 + 4 + 1
)

// IntEncoder is a dictionary encoder for int64 values.
type IntEncoder struct {
	sortKeys   bool
	coding     encoding.IntegerCoding
	newKey     int64
	keys       *dynarray.LongArray
	dictionary *swiss.Map[int64, int32]
}

var _ Encoder[int64] = (*IntEncoder)(nil)

// NewIntEncoder creates an empty integer dictionary encoder.
//
// Options:
//   - WithSortKeys: visit entries in ascending numeric order
//   - WithIntegerCoding: serialization used by Entry.WriteBytes
//
// Returns an error if an option is invalid.
func NewIntEncoder(opts ...Option) (*IntEncoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &IntEncoder{
		sortKeys:   cfg.sortKeys,
		coding:     cfg.coding,
		keys:       dynarray.NewLongArray(),
		dictionary: swiss.NewMap[int64, int32](initialMapCapacity),
	}, nil
}

// Add interns value and returns its id.
func (e *IntEncoder) Add(value int64) int {
	e.newKey = value
	if id, ok := e.dictionary.Get(value); ok {
		return int(id)
	}

	id := e.keys.Add(value)
	e.dictionary.Put(value, int32(id)) //nolint:gosec

	return id
}

// Value returns the key stored under id. It panics if id is out of range.
func (e *IntEncoder) Value(id int) int64 {
	return e.keys.Get(id)
}

// CompareValue compares the last added value with the key stored under id.
func (e *IntEncoder) CompareValue(id int) int {
	return cmp.Compare(e.newKey, e.keys.Get(id))
}

func (e *IntEncoder) comparePositions(a, b int32) int {
	return cmp.Compare(e.keys.Get(int(a)), e.keys.Get(int(b)))
}

// Entries returns an iterator over the dictionary entries in visitation order.
func (e *IntEncoder) Entries() iter.Seq[Entry[int64]] {
	entry := &intEntry{enc: e}

	return entries(e.Size(), e.sortKeys, e.comparePositions, func(id int) Entry[int64] {
		entry.id = id
		return entry
	})
}

// Visit calls fn once per entry in visitation order.
func (e *IntEncoder) Visit(fn func(Entry[int64]) error) error {
	return visit(e.Entries(), fn)
}

// Size returns the number of distinct values.
func (e *IntEncoder) Size() int {
	return e.keys.Size()
}

// Sorted reports whether entries are visited in ascending order.
func (e *IntEncoder) Sorted() bool {
	return e.sortKeys
}

// Coding returns the serialization used for entry keys.
func (e *IntEncoder) Coding() encoding.IntegerCoding {
	return e.coding
}

// Clear empties the dictionary.
func (e *IntEncoder) Clear() {
	e.keys.Clear()
	e.dictionary.Clear()
	e.newKey = 0
}

// ByteSize estimates the memory held by the dictionary: the key array capacity
// plus intMapEntryOverhead bytes per entry for the map. It is a heuristic for
// flush decisions, not an exact accounting.
func (e *IntEncoder) ByteSize() int64 {
	return e.keys.SizeInBytes() + int64(intMapEntryOverhead*e.Size())
}

// SizeInBytes is an alias of ByteSize satisfying Encoder.
func (e *IntEncoder) SizeInBytes() int64 {
	return e.ByteSize()
}

type intEntry struct {
	enc *IntEncoder
	id  int
}

func (c *intEntry) OriginalPosition() int {
	return c.id
}

func (c *intEntry) Key() int64 {
	return c.enc.keys.Get(c.id)
}

func (c *intEntry) WriteBytes(w io.Writer) error {
	return c.enc.coding.Write(w, c.Key())
}

func (c *intEntry) Length() int {
	return c.enc.coding.Len(c.Key())
}
