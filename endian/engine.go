// Package endian provides byte order utilities for fixed-width integer serialization.
//
// EndianEngine combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary so that a single value can both decode integers in place and
// append them to a growing buffer. The fixed-width integer coding in the encoding
// package stores values of 1, 2, 4 or 8 bytes through an EndianEngine; the
// helpers in this package dispatch on that width.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	buf := endian.AppendUint(engine, nil, 0x0102, 2) // []byte{0x02, 0x01}
//	v := endian.Uint(engine, buf, 2)                  // 0x0102
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ValidWidth reports whether n is a width supported by AppendUint and Uint.
func ValidWidth(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

// AppendUint appends the low n bytes of v to dst using the engine's byte order.
//
// n must be 1, 2, 4 or 8; other widths panic. Callers validate the width once at
// construction time.
func AppendUint(engine EndianEngine, dst []byte, v uint64, n int) []byte {
	switch n {
	case 1:
		return append(dst, byte(v))
	case 2:
		return engine.AppendUint16(dst, uint16(v)) //nolint:gosec
	case 4:
		return engine.AppendUint32(dst, uint32(v)) //nolint:gosec
	case 8:
		return engine.AppendUint64(dst, v)
	default:
		panic("endian: unsupported integer width")
	}
}

// Uint decodes an n-byte unsigned integer from the start of buf.
//
// n must be 1, 2, 4 or 8 and buf must hold at least n bytes.
func Uint(engine EndianEngine, buf []byte, n int) uint64 {
	switch n {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(engine.Uint16(buf))
	case 4:
		return uint64(engine.Uint32(buf))
	case 8:
		return engine.Uint64(buf)
	default:
		panic("endian: unsupported integer width")
	}
}
