package pool

import "sync"

// int32SlicePool holds the slices dictionary visitation borrows for its sort order
// and remapping tables.
var int32SlicePool = sync.Pool{
	New: func() any { return &[]int32{} },
}

func getSlice[T any](p *sync.Pool, size int) ([]T, func()) {
	ptr, _ := p.Get().(*[]T)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { p.Put(ptr) }
}

// GetInt32Slice retrieves and resizes an int32 slice from the pool.
//
// The returned slice has length size; its contents are unspecified.
// The caller must call the returned cleanup function to return the slice to the pool
// and must not use the slice afterwards.
//
// Example:
//
//	order, cleanup := pool.GetInt32Slice(dict.Size())
//	defer cleanup()
func GetInt32Slice(size int) ([]int32, func()) {
	return getSlice[int32](&int32SlicePool, size)
}
