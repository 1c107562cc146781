// Package encoding provides the integer serialization shared by the dictionary
// encoders and the run-length integer codec.
//
// Every integer written to a stream, whether a run-length base value, a literal,
// or an integer dictionary key, goes through an IntegerCoding. The coding is
// fixed for the lifetime of a stream; reader and writer must agree on it.
//
// # Variable-Width Integers
//
// With VInts enabled, values use Protocol Buffers-style varint encoding where the
// MSB of each byte indicates continuation:
//
//	Value 0-127:     0xxxxxxx                    (1 byte)
//	Value 128-16383: 1xxxxxxx 0xxxxxxx           (2 bytes)
//	Value 16384+:    1xxxxxxx 1xxxxxxx 0xxxxxxx  (3+ bytes)
//
// Signed values are zigzag encoded first so small negative numbers stay short:
//
//	Positive: 0 → 0, 1 → 2, 2 → 4, 3 → 6
//	Negative: -1 → 1, -2 → 3, -3 → 5
//
// Unsigned codings write the two's-complement bit pattern of the int64 value, so a
// negative value costs the full 10 bytes.
//
// # Fixed-Width Integers
//
// With VInts disabled, each value occupies exactly NumBytes bytes (1, 2, 4 or 8)
// in the byte order of the configured EndianEngine. Only the low NumBytes bytes are
// stored; on read the value is sign-extended when Signed is set and zero-extended
// otherwise.
//
//	coding := encoding.IntegerCoding{NumBytes: 2, Signed: true, Engine: endian.GetLittleEndianEngine()}
//	buf := coding.Append(nil, -2)      // []byte{0xfe, 0xff}
//	v, _ := coding.Read(bytes.NewReader(buf)) // -2
//
// # Thread Safety
//
// IntegerCoding is an immutable value and is safe for concurrent use.
package encoding
