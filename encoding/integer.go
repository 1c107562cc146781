package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/dwrf/endian"
	"github.com/arloliu/dwrf/errs"
)

// MaxIntegerLen is the largest number of bytes a single encoded integer can occupy.
const MaxIntegerLen = binary.MaxVarintLen64

// IntegerCoding describes how a 64-bit integer is serialized.
type IntegerCoding struct {
	// NumBytes is the fixed width used when VInts is false: 1, 2, 4 or 8.
	NumBytes int
	// Signed selects zigzag varints and sign extension of fixed-width values.
	Signed bool
	// VInts selects variable-width encoding.
	VInts bool
	// Engine is the byte order of fixed-width values.
	Engine endian.EndianEngine
}

// DefaultIntegerCoding returns a signed, variable-width, 8-byte little-endian coding.
func DefaultIntegerCoding() IntegerCoding {
	return IntegerCoding{
		NumBytes: 8,
		Signed:   true,
		VInts:    true,
		Engine:   endian.GetLittleEndianEngine(),
	}
}

// Validate checks that the coding can be used to encode and decode values.
func (c IntegerCoding) Validate() error {
	if !endian.ValidWidth(c.NumBytes) {
		return fmt.Errorf("%w: %d", errs.ErrInvalidNumBytes, c.NumBytes)
	}
	if c.Engine == nil {
		return errs.ErrNilEndianEngine
	}

	return nil
}

// Append appends the encoded form of v to dst and returns the extended slice.
func (c IntegerCoding) Append(dst []byte, v int64) []byte {
	if c.VInts {
		return binary.AppendUvarint(dst, c.toUvarint(v))
	}

	return endian.AppendUint(c.Engine, dst, uint64(v), c.NumBytes) //nolint:gosec
}

// Write encodes v to w.
func (c IntegerCoding) Write(w io.Writer, v int64) error {
	var tmp [MaxIntegerLen]byte
	_, err := w.Write(c.Append(tmp[:0], v))

	return err
}

// Len returns the number of bytes Append would produce for v.
func (c IntegerCoding) Len(v int64) int {
	if !c.VInts {
		return c.NumBytes
	}

	u := c.toUvarint(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}

	return n
}

// Read decodes one integer from r.
//
// It returns errs.ErrEndOfStream if r is exhausted before the value is complete.
func (c IntegerCoding) Read(r io.ByteReader) (int64, error) {
	if c.VInts {
		u, err := binary.ReadUvarint(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, fmt.Errorf("%w: reading varint", errs.ErrEndOfStream)
			}

			return 0, err
		}
		if c.Signed {
			return int64(u>>1) ^ -int64(u&1), nil //nolint:gosec
		}

		return int64(u), nil //nolint:gosec
	}

	var buf [8]byte
	for i := 0; i < c.NumBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("%w: reading %d-byte integer", errs.ErrEndOfStream, c.NumBytes)
			}

			return 0, err
		}
		buf[i] = b
	}

	u := endian.Uint(c.Engine, buf[:c.NumBytes], c.NumBytes)
	shift := 64 - 8*uint(c.NumBytes) //nolint:gosec
	if c.Signed {
		return int64(u<<shift) >> shift, nil //nolint:gosec
	}

	return int64(u), nil //nolint:gosec
}

func (c IntegerCoding) toUvarint(v int64) uint64 {
	if c.Signed {
		return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
	}

	return uint64(v) //nolint:gosec
}
