package format

type (
	CompressionType uint8
	DictionaryKind  uint8
)

const (
	CompressionNone   CompressionType = 0x1 // CompressionNone stores stream chunks as written.
	CompressionZlib   CompressionType = 0x2 // CompressionZlib represents raw deflate chunks.
	CompressionSnappy CompressionType = 0x3 // CompressionSnappy represents Snappy block compression.
	CompressionZstd   CompressionType = 0x4 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x5 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x6 // CompressionLZ4 represents LZ4 block compression.

	DictionaryInt    DictionaryKind = 0x1 // DictionaryInt holds int64 keys.
	DictionaryString DictionaryKind = 0x2 // DictionaryString holds byte string keys.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	case CompressionSnappy:
		return "Snappy"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is one of the known compression types.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (k DictionaryKind) String() string {
	switch k {
	case DictionaryInt:
		return "Int"
	case DictionaryString:
		return "String"
	default:
		return "Unknown"
	}
}
