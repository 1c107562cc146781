package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		typ  CompressionType
		want string
	}{
		{CompressionNone, "None"},
		{CompressionZlib, "Zlib"},
		{CompressionSnappy, "Snappy"},
		{CompressionZstd, "Zstd"},
		{CompressionS2, "S2"},
		{CompressionLZ4, "LZ4"},
		{CompressionType(0), "Unknown"},
		{CompressionType(0xff), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestCompressionType_IsValid(t *testing.T) {
	require.False(t, CompressionType(0).IsValid())
	require.True(t, CompressionNone.IsValid())
	require.True(t, CompressionLZ4.IsValid())
	require.False(t, (CompressionLZ4 + 1).IsValid())
}

func TestDictionaryKind_String(t *testing.T) {
	require.Equal(t, "Int", DictionaryInt.String())
	require.Equal(t, "String", DictionaryString.String())
	require.Equal(t, "Unknown", DictionaryKind(9).String())
}
