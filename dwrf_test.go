package dwrf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dwrf/column"
	"github.com/arloliu/dwrf/dictionary"
	"github.com/arloliu/dwrf/format"
)

// TestEncoders verifies the encoder constructors
func TestEncoders(t *testing.T) {
	ints, err := NewSortedIntEncoder()
	require.NoError(t, err)
	require.True(t, ints.Sorted())
	require.Equal(t, 0, ints.Add(5))
	require.Equal(t, 1, ints.Add(3))
	require.Equal(t, 0, ints.Add(5))

	var keys []int64
	for e := range ints.Entries() {
		keys = append(keys, e.Key())
	}
	require.Equal(t, []int64{3, 5}, keys)

	plain, err := NewIntEncoder()
	require.NoError(t, err)
	require.False(t, plain.Sorted())

	strs, err := NewSortedStringEncoder()
	require.NoError(t, err)
	require.True(t, strs.Sorted())
	require.Equal(t, 0, strs.AddString("b"))
	require.Equal(t, 1, strs.AddString("a"))

	custom, err := NewStringEncoder(dictionary.WithSortKeys(false))
	require.NoError(t, err)
	require.False(t, custom.Sorted())
}

// TestDefaultColumns verifies a stripe written with the default writer reads back with the default reader
func TestDefaultColumns(t *testing.T) {
	iw, err := NewDefaultIntColumnWriter()
	require.NoError(t, err)
	for i := range 30_000 {
		iw.Add(int64(i % 97))
	}
	istripe, err := iw.Flush()
	require.NoError(t, err)
	require.Equal(t, 97, istripe.DictionarySize)
	require.Len(t, istripe.Index, 3)

	ir, err := NewDefaultIntColumnReader(istripe)
	require.NoError(t, err)
	require.NoError(t, ir.Seek(2))
	v, err := ir.Next()
	require.NoError(t, err)
	require.Equal(t, int64(20_000%97), v)

	sw, err := NewDefaultStringColumnWriter()
	require.NoError(t, err)
	for _, host := range []string{"web-1", "web-2", "web-1"} {
		sw.AddString(host)
	}
	sstripe, err := sw.Flush()
	require.NoError(t, err)

	sr, err := NewDefaultStringColumnReader(sstripe)
	require.NoError(t, err)
	var got []string
	for v, err := range sr.All() {
		require.NoError(t, err)
		got = append(got, string(v))
	}
	require.Equal(t, []string{"web-1", "web-2", "web-1"}, got)
}

// TestCustomColumns verifies the option-taking constructors
func TestCustomColumns(t *testing.T) {
	opts := []column.Option{column.WithCompression(format.CompressionLZ4), column.WithVInts(false)}

	iw, err := NewIntColumnWriter(opts...)
	require.NoError(t, err)
	iw.Add(-1)
	stripe, err := iw.Flush()
	require.NoError(t, err)
	ir, err := NewIntColumnReader(stripe, opts...)
	require.NoError(t, err)
	v, err := ir.Next()
	require.NoError(t, err)
	require.Equal(t, int64(-1), v)

	sw, err := NewStringColumnWriter(opts...)
	require.NoError(t, err)
	sw.Add([]byte("x"))
	sstripe, err := sw.Flush()
	require.NoError(t, err)
	sr, err := NewStringColumnReader(sstripe, opts...)
	require.NoError(t, err)
	b, err := sr.Next()
	require.NoError(t, err)
	require.Equal(t, "x", string(b))

	_, err = NewIntColumnWriter(column.WithCompression(format.CompressionType(0)))
	require.Error(t, err)
}

// TestEncodeDecode verifies the one-shot helpers
func TestEncodeDecode(t *testing.T) {
	stripe, err := EncodeInts([]int64{5, 3, 5, 9, 3}, column.WithSortKeys(true))
	require.NoError(t, err)
	require.Equal(t, 3, stripe.DictionarySize)

	ints, err := DecodeInts(stripe)
	require.NoError(t, err)
	require.Equal(t, []int64{5, 3, 5, 9, 3}, ints)

	values := []string{"ok", "", "failed", "ok", "ok"}
	opts := []column.Option{column.WithCompression(format.CompressionSnappy)}
	sstripe, err := EncodeStrings(values, opts...)
	require.NoError(t, err)
	require.Equal(t, 3, sstripe.DictionarySize)

	strs, err := DecodeStrings(sstripe, opts...)
	require.NoError(t, err)
	require.Equal(t, values, strs)

	_, err = DecodeInts(sstripe)
	require.Error(t, err)
}
