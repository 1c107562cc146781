// Package hash computes the content hashes used by the string dictionary.
package hash

import "github.com/cespare/xxhash/v2"

// Bytes computes the xxHash64 of data.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// String computes the xxHash64 of s without converting it to a byte slice.
// Bytes and String agree for equal content.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}
