package column

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/rle"
	"github.com/arloliu/dwrf/rowindex"
	"github.com/arloliu/dwrf/stream"
	"github.com/stretchr/testify/require"
)

var columnCodecs = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZlib,
	format.CompressionSnappy,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func intValues(n int) []int64 {
	rng := rand.New(rand.NewPCG(11, 13))
	values := make([]int64, 0, n)
	for len(values) < n {
		v := rng.Int64N(300) - 150
		// Repeated values produce repeat runs in the row stream.
		for range min(1+rng.IntN(8), n-len(values)) {
			values = append(values, v)
		}
	}

	return values
}

func stringValues(n int) []string {
	rng := rand.New(rand.NewPCG(17, 19))
	values := make([]string, n)
	for i := range values {
		if rng.IntN(50) == 0 {
			continue
		}
		values[i] = fmt.Sprintf("key-%03d", rng.IntN(500))
	}

	return values
}

func TestIntDictionary_SortedStripe(t *testing.T) {
	w, err := NewIntDictionaryWriter(WithSortKeys(true))
	require.NoError(t, err)
	for _, v := range []int64{5, 3, 5, 9, 3} {
		w.Add(v)
	}
	require.Equal(t, 5, w.RowCount())
	require.Equal(t, 3, w.DictionarySize())

	stripe, err := w.Flush()
	require.NoError(t, err)
	require.Equal(t, format.DictionaryInt, stripe.Kind)
	require.Equal(t, 3, stripe.DictionarySize)
	require.Equal(t, 5, stripe.RowCount)
	require.Nil(t, stripe.Length)
	// Zigzag varints of 3, 5, 9.
	require.Equal(t, []byte{0x06, 0x0a, 0x12}, stripe.Data)
	// Visit positions 1, 0, 1, 2, 0: literal [1], repeat 0,1,2, literal [0].
	require.Equal(t, []byte{0xff, 0x01, 0x00, 0x01, 0x00, 0xff, 0x00}, stripe.Rows)

	r, err := NewIntDictionaryReader(stripe)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, []int64{3, 5, 9}, r.Dictionary())

	var got []int64
	for v, err := range r.All() {
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []int64{5, 3, 5, 9, 3}, got)
	require.False(t, r.HasNext())
}

func TestIntDictionary_InsertionOrder(t *testing.T) {
	w, err := NewIntDictionaryWriter()
	require.NoError(t, err)
	for _, v := range []int64{5, 3, 5, 9, 3} {
		w.Add(v)
	}

	stripe, err := w.Flush()
	require.NoError(t, err)
	require.Equal(t, []byte{0xfb, 0x00, 0x01, 0x00, 0x02, 0x01}, stripe.Rows)

	r, err := NewIntDictionaryReader(stripe)
	require.NoError(t, err)
	require.Equal(t, []int64{5, 3, 9}, r.Dictionary())
}

func TestIntDictionary_RoundTripAndSeek(t *testing.T) {
	values := intValues(25_000)
	for _, ct := range columnCodecs {
		for _, sortKeys := range []bool{false, true} {
			for _, vints := range []bool{true, false} {
				name := fmt.Sprintf("%s/sort=%t/vints=%t", ct, sortKeys, vints)
				t.Run(name, func(t *testing.T) {
					opts := []Option{
						WithCompression(ct), WithChunkSize(2048),
						WithRowIndexStride(1000), WithVInts(vints),
					}
					w, err := NewIntDictionaryWriter(append(opts, WithSortKeys(sortKeys))...)
					require.NoError(t, err)
					for _, v := range values {
						w.Add(v)
					}
					stripe, err := w.Flush()
					require.NoError(t, err)
					require.Len(t, stripe.Index, 25)
					require.Equal(t, 12_000, stripe.CheckpointRows[12])

					r, err := NewIntDictionaryReader(stripe, opts...)
					require.NoError(t, err)
					defer r.Close()
					if sortKeys {
						require.IsIncreasing(t, r.Dictionary())
					}

					for _, v := range values {
						got, err := r.Next()
						require.NoError(t, err)
						require.Equal(t, v, got)
					}
					require.False(t, r.HasNext())

					for i := len(stripe.Index) - 1; i >= 0; i-- {
						require.NoError(t, r.Seek(i))
						row := stripe.CheckpointRows[i]
						require.Equal(t, row, r.Row())
						for j := row; j < min(row+1500, len(values)); j++ {
							got, err := r.Next()
							require.NoError(t, err)
							require.Equal(t, values[j], got, "checkpoint %d row %d", i, j)
						}
					}

					require.NoError(t, r.Seek(len(stripe.Index)))
					require.False(t, r.HasNext())
				})
			}
		}
	}
}

func TestStringDictionary_RoundTripAndSeek(t *testing.T) {
	values := stringValues(20_000)
	for _, ct := range columnCodecs {
		for _, sortKeys := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/sort=%t", ct, sortKeys), func(t *testing.T) {
				opts := []Option{WithCompression(ct), WithChunkSize(4096), WithRowIndexStride(2500)}
				w, err := NewStringDictionaryWriter(append(opts, WithSortKeys(sortKeys))...)
				require.NoError(t, err)
				buf := make([]byte, 0, 16)
				for i, v := range values {
					if i%2 == 0 {
						w.AddString(v)
						continue
					}
					// The writer copies, so the buffer is reused.
					buf = append(buf[:0], v...)
					w.Add(buf)
				}
				stripe, err := w.Flush()
				require.NoError(t, err)
				require.Equal(t, format.DictionaryString, stripe.Kind)
				require.Len(t, stripe.Index, 8)
				require.Greater(t, stripe.Size(), 0)

				r, err := NewStringDictionaryReader(stripe, opts...)
				require.NoError(t, err)
				defer r.Close()
				require.Len(t, r.Dictionary(), stripe.DictionarySize)
				if sortKeys {
					dict := r.Dictionary()
					for i := 1; i < len(dict); i++ {
						require.Negative(t, bytes.Compare(dict[i-1], dict[i]))
					}
				}

				for i, v := range values {
					got, err := r.Next()
					require.NoError(t, err)
					require.Equal(t, v, string(got), "row %d", i)
				}

				require.NoError(t, r.Seek(3))
				require.Equal(t, 7500, r.Row())
				require.NoError(t, r.Skip(100))
				got, err := r.Next()
				require.NoError(t, err)
				require.Equal(t, values[7600], string(got))
			})
		}
	}
}

func TestStringDictionary_SortedStripe(t *testing.T) {
	w, err := NewStringDictionaryWriter(WithSortKeys(true))
	require.NoError(t, err)
	for _, s := range []string{"pear", "apple", "pear", "", "fig"} {
		w.AddString(s)
	}
	stripe, err := w.Flush()
	require.NoError(t, err)
	require.Equal(t, []byte("applefigpear"), stripe.Data)

	r, err := NewStringDictionaryReader(stripe)
	require.NoError(t, err)
	dict := make([]string, 0, len(r.Dictionary()))
	for _, b := range r.Dictionary() {
		dict = append(dict, string(b))
	}
	require.Equal(t, []string{"", "apple", "fig", "pear"}, dict)

	var rows []string
	for v, err := range r.All() {
		require.NoError(t, err)
		rows = append(rows, string(v))
	}
	require.Equal(t, []string{"pear", "apple", "pear", "", "fig"}, rows)
}

func TestWriter_ManualCheckpoints(t *testing.T) {
	w, err := NewIntDictionaryWriter(WithRowIndexStride(0))
	require.NoError(t, err)

	for i := range 10 {
		w.Add(int64(i % 3))
	}
	w.Checkpoint()
	w.Checkpoint()
	for i := range 10 {
		w.Add(int64(i))
	}
	w.Checkpoint()

	stripe, err := w.Flush()
	require.NoError(t, err)
	require.Equal(t, []int{10, 20}, stripe.CheckpointRows)
	require.Len(t, stripe.Index, 2)

	parsed, err := rowindex.Parse(stripe.IndexBytes())
	require.NoError(t, err)
	require.Equal(t, stripe.Index, parsed.Entries)

	r, err := NewIntDictionaryReader(stripe)
	require.NoError(t, err)
	require.NoError(t, r.Seek(0))
	got, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, int64(0), got)
	require.Equal(t, 11, r.Row())

	// The trailing checkpoint sits after the last row.
	require.NoError(t, r.Seek(1))
	require.False(t, r.HasNext())
}

func TestWriter_FlushResets(t *testing.T) {
	w, err := NewStringDictionaryWriter()
	require.NoError(t, err)

	empty := w.EstimatedSize()
	for i := range 1000 {
		w.AddString(fmt.Sprintf("v%d", i%10))
	}
	require.Greater(t, w.EstimatedSize(), empty)

	first, err := w.Flush()
	require.NoError(t, err)
	require.Equal(t, 10, first.DictionarySize)
	require.Zero(t, w.RowCount())
	require.Zero(t, w.DictionarySize())

	w.AddString("only")
	second, err := w.Flush()
	require.NoError(t, err)
	require.Equal(t, 1, second.DictionarySize)
	require.Equal(t, []int{0}, second.CheckpointRows)

	r, err := NewStringDictionaryReader(second)
	require.NoError(t, err)
	got, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "only", string(got))
}

func TestWriter_EmptyStripe(t *testing.T) {
	w, err := NewIntDictionaryWriter(WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	stripe, err := w.Flush()
	require.NoError(t, err)
	require.Zero(t, stripe.RowCount)
	require.Empty(t, stripe.Index)

	r, err := NewIntDictionaryReader(stripe, WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	require.False(t, r.HasNext())
}

func TestReader_Errors(t *testing.T) {
	w, err := NewIntDictionaryWriter()
	require.NoError(t, err)
	for _, v := range []int64{1, 2, 3, 2, 1} {
		w.Add(v)
	}
	stripe, err := w.Flush()
	require.NoError(t, err)

	t.Run("kind", func(t *testing.T) {
		_, err := NewStringDictionaryReader(stripe)
		require.ErrorIs(t, err, errs.ErrDictionaryKind)
	})

	t.Run("dictionary size", func(t *testing.T) {
		bad := *stripe
		bad.DictionarySize++
		_, err := NewIntDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)

		bad.DictionarySize -= 2
		_, err = NewIntDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)
	})

	t.Run("corrupt dictionary size", func(t *testing.T) {
		bad := *stripe
		bad.DictionarySize = -1
		_, err := NewIntDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)

		// Decoding stops at the end of the data instead of allocating up front.
		bad.DictionarySize = 1 << 40
		_, err = NewIntDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)

		bad.DictionarySize = stripe.DictionarySize
		bad.RowCount = -1
		_, err = NewIntDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrInvalidRowIndex)
	})

	t.Run("row index", func(t *testing.T) {
		bad := *stripe
		bad.Index = []rowindex.Entry{{Positions: []uint64{0}}}
		bad.CheckpointRows = []int{0}
		_, err := NewIntDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrInvalidRowIndex)

		bad.CheckpointRows = nil
		_, err = NewIntDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrInvalidRowIndex)
	})

	t.Run("dictionary id", func(t *testing.T) {
		out, err := stream.NewOutStream("rows")
		require.NoError(t, err)
		defer out.Close()
		rw, err := rle.NewWriter(out, rowCodingOptions()...)
		require.NoError(t, err)
		require.NoError(t, rw.Write(0))
		require.NoError(t, rw.Write(7))
		require.NoError(t, rw.Flush())

		bad := *stripe
		bad.Rows = bytes.Clone(out.Bytes())
		bad.Index, bad.CheckpointRows = nil, nil
		bad.RowCount = 2
		r, err := NewIntDictionaryReader(&bad)
		require.NoError(t, err)
		_, err = r.Next()
		require.NoError(t, err)
		_, err = r.Next()
		require.ErrorIs(t, err, errs.ErrInvalidDictionaryID)
	})

	t.Run("string lengths", func(t *testing.T) {
		sw, err := NewStringDictionaryWriter()
		require.NoError(t, err)
		sw.AddString("abc")
		sw.AddString("de")
		s, err := sw.Flush()
		require.NoError(t, err)

		bad := *s
		bad.Data = bad.Data[:4]
		_, err = NewStringDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)

		bad.Data = append(bytes.Clone(s.Data), 'x')
		_, err = NewStringDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)

		bad.Data = s.Data
		bad.DictionarySize = -1
		_, err = NewStringDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)

		bad.DictionarySize = 1 << 40
		_, err = NewStringDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)
	})

	t.Run("leftover string lengths", func(t *testing.T) {
		sw, err := NewStringDictionaryWriter()
		require.NoError(t, err)
		sw.AddString("abc")
		sw.AddString("de")
		s, err := sw.Flush()
		require.NoError(t, err)

		// Same entries followed by an extra empty one.
		out, err := stream.NewOutStream("length")
		require.NoError(t, err)
		defer out.Close()
		lw, err := rle.NewWriter(out, rowCodingOptions()...)
		require.NoError(t, err)
		for _, n := range []int64{3, 2, 0} {
			require.NoError(t, lw.Write(n))
		}
		require.NoError(t, lw.Flush())

		bad := *s
		bad.Length = bytes.Clone(out.Bytes())
		_, err = NewStringDictionaryReader(&bad)
		require.ErrorIs(t, err, errs.ErrDictionaryLength)
	})

	t.Run("seek without index", func(t *testing.T) {
		r, err := NewIntDictionaryReader(&Stripe{Kind: format.DictionaryInt})
		require.NoError(t, err)
		require.ErrorIs(t, r.Seek(0), errs.ErrIndexNotLoaded)
	})
}

func TestOptions(t *testing.T) {
	_, err := NewIntDictionaryWriter(WithCompression(format.CompressionType(42)))
	require.ErrorIs(t, err, errs.ErrInvalidCompressionType)

	_, err = NewStringDictionaryWriter(WithRowIndexStride(-1))
	require.ErrorIs(t, err, errs.ErrInvalidRowIndexStride)

	_, err = NewIntDictionaryWriter(WithChunkSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidChunkSize)

	_, err = NewIntDictionaryReader(&Stripe{Kind: format.DictionaryInt}, WithChunkSize(stream.MaxChunkSize+1))
	require.ErrorIs(t, err, errs.ErrInvalidChunkSize)
}
