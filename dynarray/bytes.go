// Package dynarray provides append-only growable arrays backed by fixed-size chunks.
//
// Appending never copies existing data: when the current chunk is full a new chunk
// is allocated, so a dictionary holding hundreds of megabytes of strings grows
// without the doubling-and-copy spikes of a plain slice. Elements are addressed
// by their logical index across chunks.
//
// ByteArray additionally compares and tests equality of byte ranges in place,
// which lets the string dictionary probe its table without materializing
// candidate strings.
//
// The arrays are not safe for concurrent use.
package dynarray

import (
	"bytes"
	"io"
)

// DefaultByteChunkSize is the chunk size of a ByteArray created by NewByteArray.
const DefaultByteChunkSize = 32 * 1024

// ByteArray is a growable array of bytes.
type ByteArray struct {
	chunkSize int
	chunks    [][]byte
	length    int
}

// NewByteArray creates an empty ByteArray with DefaultByteChunkSize chunks.
func NewByteArray() *ByteArray {
	return NewByteArraySize(DefaultByteChunkSize)
}

// NewByteArraySize creates an empty ByteArray with the given chunk size.
// A non-positive chunkSize selects DefaultByteChunkSize.
func NewByteArraySize(chunkSize int) *ByteArray {
	if chunkSize <= 0 {
		chunkSize = DefaultByteChunkSize
	}

	return &ByteArray{chunkSize: chunkSize}
}

func (a *ByteArray) grow(chunkIndex int) {
	for len(a.chunks) <= chunkIndex {
		a.chunks = append(a.chunks, make([]byte, a.chunkSize))
	}
}

// segment returns the longest contiguous stored run starting at off, capped at n bytes.
func (a *ByteArray) segment(off, n int) []byte {
	chunk := a.chunks[off/a.chunkSize]
	start := off % a.chunkSize
	end := start + n
	if end > a.chunkSize {
		end = a.chunkSize
	}

	return chunk[start:end]
}

func (a *ByteArray) checkRange(off, length int) {
	if off < 0 || length < 0 || off+length > a.length {
		panic("dynarray: byte range out of bounds")
	}
}

// Add appends b and returns its index.
func (a *ByteArray) Add(b byte) int {
	i := a.length
	a.grow(i / a.chunkSize)
	a.chunks[i/a.chunkSize][i%a.chunkSize] = b
	a.length++

	return i
}

// AddBytes appends p as one contiguous logical range and returns the index of its
// first byte. The bytes are copied; p is not retained.
func (a *ByteArray) AddBytes(p []byte) int {
	start := a.length
	if len(p) == 0 {
		return start
	}

	a.grow((start + len(p) - 1) / a.chunkSize)
	off := start
	for len(p) > 0 {
		n := copy(a.chunks[off/a.chunkSize][off%a.chunkSize:], p)
		p = p[n:]
		off += n
	}
	a.length = off

	return start
}

// Get returns the byte at index i. It panics if i is out of range.
func (a *ByteArray) Get(i int) byte {
	if i < 0 || i >= a.length {
		panic("dynarray: index out of range")
	}

	return a.chunks[i/a.chunkSize][i%a.chunkSize]
}

// Set overwrites the byte at index i. It panics if i is out of range.
func (a *ByteArray) Set(i int, b byte) {
	if i < 0 || i >= a.length {
		panic("dynarray: index out of range")
	}
	a.chunks[i/a.chunkSize][i%a.chunkSize] = b
}

// Compare compares the stored ranges [aOff, aOff+aLen) and [bOff, bOff+bLen)
// lexicographically as unsigned bytes. A range that is a prefix of the other
// sorts first. The result is -1, 0 or +1.
func (a *ByteArray) Compare(aOff, aLen, bOff, bLen int) int {
	a.checkRange(aOff, aLen)
	a.checkRange(bOff, bLen)

	for aLen > 0 && bLen > 0 {
		segA := a.segment(aOff, aLen)
		segB := a.segment(bOff, bLen)
		n := min(len(segA), len(segB))
		if c := bytes.Compare(segA[:n], segB[:n]); c != 0 {
			return c
		}
		aOff, aLen = aOff+n, aLen-n
		bOff, bLen = bOff+n, bLen-n
	}

	return compareLen(aLen, bLen)
}

// CompareBytes compares p with the stored range [off, off+length) using the same
// ordering as Compare.
func (a *ByteArray) CompareBytes(p []byte, off, length int) int {
	a.checkRange(off, length)

	for len(p) > 0 && length > 0 {
		seg := a.segment(off, length)
		n := min(len(seg), len(p))
		if c := bytes.Compare(p[:n], seg[:n]); c != 0 {
			return c
		}
		p = p[n:]
		off, length = off+n, length-n
	}

	return compareLen(len(p), length)
}

// Equals reports whether p matches the stored range [off, off+length) exactly.
func (a *ByteArray) Equals(p []byte, off, length int) bool {
	if len(p) != length {
		return false
	}
	a.checkRange(off, length)

	for length > 0 {
		seg := a.segment(off, length)
		if !bytes.Equal(p[:len(seg)], seg) {
			return false
		}
		p = p[len(seg):]
		off, length = off+len(seg), length-len(seg)
	}

	return true
}

// WriteTo writes the stored range [off, off+length) to w.
func (a *ByteArray) WriteTo(w io.Writer, off, length int) error {
	a.checkRange(off, length)

	for length > 0 {
		seg := a.segment(off, length)
		if _, err := w.Write(seg); err != nil {
			return err
		}
		off, length = off+len(seg), length-len(seg)
	}

	return nil
}

// Text copies the stored range [off, off+length) into dst, reusing its capacity,
// and returns the filled slice.
func (a *ByteArray) Text(dst []byte, off, length int) []byte {
	a.checkRange(off, length)

	dst = dst[:0]
	for length > 0 {
		seg := a.segment(off, length)
		dst = append(dst, seg...)
		off, length = off+len(seg), length-len(seg)
	}

	return dst
}

// Size returns the number of stored bytes.
func (a *ByteArray) Size() int {
	return a.length
}

// Clear empties the array. The first chunk is kept for reuse.
func (a *ByteArray) Clear() {
	for i := 1; i < len(a.chunks); i++ {
		a.chunks[i] = nil
	}
	if len(a.chunks) > 1 {
		a.chunks = a.chunks[:1]
	}
	a.length = 0
}

// SizeInBytes returns the allocated chunk capacity in bytes. This is the figure
// used for memory accounting, not the logical Size.
func (a *ByteArray) SizeInBytes() int64 {
	return int64(len(a.chunks)) * int64(a.chunkSize)
}

func compareLen(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
