package dictionary

import (
	"io"
	"iter"
	"unsafe"

	"github.com/arloliu/dwrf/dynarray"
	"github.com/arloliu/dwrf/internal/hash"
)

// Estimated bytes per entry for the descriptor set: a 4-byte slot reference plus
// the two 4-byte integer fields of the descriptor.
const (
	setRefOverhead        = 4
	descriptorIntOverhead = 4 * 2
)

// StringEncoder is a dictionary encoder for byte strings.
//
// All distinct strings are concatenated in insertion order in one shared
// ByteArray; the start offset of each id lives in an IntArray, and the end of id i
// is the start of id i+1 (or the buffer end for the last id).
type StringEncoder struct {
	sortKeys  bool
	newKey    []byte
	byteArray *dynarray.ByteArray
	keySizes  *dynarray.IntArray
	set       descriptorSet
}

var _ Encoder[[]byte] = (*StringEncoder)(nil)

// NewStringEncoder creates an empty string dictionary encoder.
//
// Options:
//   - WithSortKeys: visit entries in ascending unsigned-byte lexicographic order
//
// Returns an error if an option is invalid.
func NewStringEncoder(opts ...Option) (*StringEncoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	e := &StringEncoder{
		sortKeys:  cfg.sortKeys,
		byteArray: dynarray.NewByteArray(),
		keySizes:  dynarray.NewIntArray(),
	}
	e.set = newDescriptorSet(e.byteArray, e.keySizes)

	return e, nil
}

// Add interns value and returns its id.
//
// The bytes of a new value are copied into the shared buffer; value itself is
// only read during the call and may be reused by the caller afterwards.
func (e *StringEncoder) Add(value []byte) int {
	return e.add(value, hash.Bytes(value))
}

// AddString interns s without converting it to an owned byte slice.
func (e *StringEncoder) AddString(s string) int {
	return e.add(unsafe.Slice(unsafe.StringData(s), len(s)), hash.String(s))
}

func (e *StringEncoder) add(value []byte, h uint64) int {
	e.newKey = value

	id, added := e.set.findOrInsert(h, value, e.keySizes.Size())
	if added {
		e.keySizes.Add(int32(e.byteArray.AddBytes(value))) //nolint:gosec
	}

	return id
}

func (e *StringEncoder) end(id int) int {
	if id+1 == e.keySizes.Size() {
		return e.byteArray.Size()
	}

	return int(e.keySizes.Get(id + 1))
}

// CompareValue compares the last added value with the string stored under id.
func (e *StringEncoder) CompareValue(id int) int {
	start := int(e.keySizes.Get(id))
	return e.byteArray.CompareBytes(e.newKey, start, e.end(id)-start)
}

func (e *StringEncoder) comparePositions(a, b int32) int {
	aStart, bStart := int(e.keySizes.Get(int(a))), int(e.keySizes.Get(int(b)))
	return e.byteArray.Compare(aStart, e.end(int(a))-aStart, bStart, e.end(int(b))-bStart)
}

// Text copies the string stored under id into result, reusing its capacity, and
// returns the filled slice.
func (e *StringEncoder) Text(result []byte, id int) []byte {
	start := int(e.keySizes.Get(id))
	return e.byteArray.Text(result, start, e.end(id)-start)
}

// Entries returns an iterator over the dictionary entries in visitation order.
func (e *StringEncoder) Entries() iter.Seq[Entry[[]byte]] {
	entry := &stringEntry{enc: e}

	return entries(e.Size(), e.sortKeys, e.comparePositions, func(id int) Entry[[]byte] {
		entry.setOriginalPosition(id)
		return entry
	})
}

// Visit calls fn once per entry in visitation order.
func (e *StringEncoder) Visit(fn func(Entry[[]byte]) error) error {
	return visit(e.Entries(), fn)
}

// Size returns the number of distinct strings.
func (e *StringEncoder) Size() int {
	return e.keySizes.Size()
}

// Sorted reports whether entries are visited in ascending order.
func (e *StringEncoder) Sorted() bool {
	return e.sortKeys
}

// Clear empties the dictionary.
func (e *StringEncoder) Clear() {
	e.byteArray.Clear()
	e.keySizes.Clear()
	e.set.clear()
	e.newKey = nil
}

// CharacterSize returns the total number of string bytes held by the dictionary.
func (e *StringEncoder) CharacterSize() int {
	return e.byteArray.Size()
}

// SizeInBytes estimates the memory held by the dictionary: the string bytes, the
// offset array capacity, and a fixed per-entry cost for the descriptor set. It is
// a heuristic for flush decisions, not an exact accounting.
func (e *StringEncoder) SizeInBytes() int64 {
	refSizes := int64(setRefOverhead * e.set.size())
	descriptorSizes := int64(descriptorIntOverhead * e.Size())

	return int64(e.CharacterSize()) + e.keySizes.SizeInBytes() + refSizes + descriptorSizes
}

type stringEntry struct {
	enc   *StringEncoder
	id    int
	start int
	end   int
	text  []byte
}

func (c *stringEntry) setOriginalPosition(id int) {
	c.id = id
	c.start = int(c.enc.keySizes.Get(id))
	c.end = c.enc.end(id)
}

func (c *stringEntry) OriginalPosition() int {
	return c.id
}

// Key returns the entry bytes in a buffer reused across entries.
func (c *stringEntry) Key() []byte {
	c.text = c.enc.byteArray.Text(c.text, c.start, c.Length())
	return c.text
}

func (c *stringEntry) WriteBytes(w io.Writer) error {
	return c.enc.byteArray.WriteTo(w, c.start, c.Length())
}

func (c *stringEntry) Length() int {
	return c.end - c.start
}
