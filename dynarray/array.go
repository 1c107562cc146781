package dynarray

import "unsafe"

// DefaultElementChunkSize is the number of elements per chunk of an Array.
const DefaultElementChunkSize = 8 * 1024

// Integer is the set of element types an Array can hold.
type Integer interface {
	~int32 | ~int64
}

// Array is a growable array of integers.
type Array[T Integer] struct {
	chunkSize int
	chunks    [][]T
	length    int
}

// IntArray is a growable array of int32, used for dictionary offsets.
type IntArray = Array[int32]

// LongArray is a growable array of int64, used for integer dictionary keys.
type LongArray = Array[int64]

// NewIntArray creates an empty IntArray.
func NewIntArray() *IntArray {
	return NewArray[int32](DefaultElementChunkSize)
}

// NewLongArray creates an empty LongArray.
func NewLongArray() *LongArray {
	return NewArray[int64](DefaultElementChunkSize)
}

// NewArray creates an empty Array with chunkSize elements per chunk.
// A non-positive chunkSize selects DefaultElementChunkSize.
func NewArray[T Integer](chunkSize int) *Array[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultElementChunkSize
	}

	return &Array[T]{chunkSize: chunkSize}
}

// Add appends v and returns its index.
func (a *Array[T]) Add(v T) int {
	i := a.length
	c := i / a.chunkSize
	if c == len(a.chunks) {
		a.chunks = append(a.chunks, make([]T, a.chunkSize))
	}
	a.chunks[c][i%a.chunkSize] = v
	a.length++

	return i
}

// Get returns the element at index i. It panics if i is out of range.
func (a *Array[T]) Get(i int) T {
	if i < 0 || i >= a.length {
		panic("dynarray: index out of range")
	}

	return a.chunks[i/a.chunkSize][i%a.chunkSize]
}

// Set overwrites the element at index i. It panics if i is out of range.
func (a *Array[T]) Set(i int, v T) {
	if i < 0 || i >= a.length {
		panic("dynarray: index out of range")
	}
	a.chunks[i/a.chunkSize][i%a.chunkSize] = v
}

// Size returns the number of elements.
func (a *Array[T]) Size() int {
	return a.length
}

// Clear empties the array. The first chunk is kept for reuse.
func (a *Array[T]) Clear() {
	for i := 1; i < len(a.chunks); i++ {
		a.chunks[i] = nil
	}
	if len(a.chunks) > 1 {
		a.chunks = a.chunks[:1]
	}
	a.length = 0
}

// SizeInBytes returns the allocated chunk capacity in bytes.
func (a *Array[T]) SizeInBytes() int64 {
	var zero T
	return int64(len(a.chunks)) * int64(a.chunkSize) * int64(unsafe.Sizeof(zero))
}
