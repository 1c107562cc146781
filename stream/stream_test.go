package stream

import (
	"bytes"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/arloliu/dwrf/errs"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/rowindex"
	"github.com/stretchr/testify/require"
)

var streamCodecs = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZlib,
	format.CompressionSnappy,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func testData(n int, random bool) []byte {
	rng := rand.New(rand.NewPCG(3, 5))
	data := make([]byte, n)
	for i := range data {
		if random {
			data[i] = byte(rng.UintN(256))
		} else {
			data[i] = byte(i / 97)
		}
	}

	return data
}

func writeAll(t *testing.T, data []byte, opts ...Option) []byte {
	t.Helper()

	out, err := NewOutStream("test", opts...)
	require.NoError(t, err)
	defer out.Close()

	// Mix byte and slice writes.
	for i := 0; i < len(data); {
		if i%3 == 0 {
			require.NoError(t, out.WriteByte(data[i]))
			i++

			continue
		}
		end := min(len(data), i+1000)
		n, err := out.Write(data[i:end])
		require.NoError(t, err)
		require.Equal(t, end-i, n)
		i = end
	}
	require.NoError(t, out.Flush())

	return bytes.Clone(out.Bytes())
}

func TestStream_RoundTrip(t *testing.T) {
	for _, ct := range streamCodecs {
		for _, random := range []bool{false, true} {
			name := ct.String()
			if random {
				name += "/random"
			}
			t.Run(name, func(t *testing.T) {
				data := testData(50_000, random)
				opts := []Option{WithCodec(ct), WithChunkSize(4096)}
				encoded := writeAll(t, data, opts...)

				in, err := NewInStream("test", encoded, opts...)
				require.NoError(t, err)
				require.Equal(t, ct == format.CompressionNone, len(encoded) == len(data))

				got, err := io.ReadAll(in)
				require.NoError(t, err)
				require.Equal(t, data, got)
				require.Zero(t, in.Available())

				_, err = in.ReadByte()
				require.ErrorIs(t, err, io.EOF)
			})
		}
	}
}

func TestStream_StoresIncompressibleChunksOriginal(t *testing.T) {
	data := testData(10_000, true)
	encoded := writeAll(t, data, WithCodec(format.CompressionSnappy), WithChunkSize(4000))

	// Three chunks, each stored original behind a 3-byte header.
	require.Len(t, encoded, len(data)+3*headerSize)

	length, original, err := parseHeader(encoded)
	require.NoError(t, err)
	require.True(t, original)
	require.Equal(t, 4000, length)
}

func TestStream_ChunkHeader(t *testing.T) {
	h := appendHeader(nil, 100_000, false)
	require.Equal(t, []byte{0x40, 0x0d, 0x03}, h)

	length, original, err := parseHeader(h)
	require.NoError(t, err)
	require.Equal(t, 100_000, length)
	require.False(t, original)

	length, original, err = parseHeader(appendHeader(nil, 5, true))
	require.NoError(t, err)
	require.Equal(t, 5, length)
	require.True(t, original)

	_, _, err = parseHeader([]byte{1, 2})
	require.ErrorIs(t, err, errs.ErrCorruptChunk)
}

func TestStream_SeekPositions(t *testing.T) {
	for _, ct := range streamCodecs {
		t.Run(ct.String(), func(t *testing.T) {
			opts := []Option{WithCodec(ct), WithChunkSize(1000)}
			out, err := NewOutStream("seek", opts...)
			require.NoError(t, err)
			defer out.Close()

			data := testData(7_500, false)
			var index rowindex.Index
			var offsets []int
			for off := 0; off < len(data); off += 750 {
				out.RecordPosition(index.NewEntry())
				offsets = append(offsets, off)
				_, err := out.Write(data[off : off+750])
				require.NoError(t, err)
			}
			require.NoError(t, out.Flush())

			in, err := NewInStream("seek", bytes.Clone(out.Bytes()), opts...)
			require.NoError(t, err)
			require.Equal(t, in.PositionsPerEntry(), in.LoadIndices(index.Entries, 0))

			for i := len(offsets) - 1; i >= 0; i-- {
				require.NoError(t, in.Seek(i))
				b, err := in.ReadByte()
				require.NoError(t, err)
				require.Equal(t, data[offsets[i]], b, "checkpoint %d", i)

				rest, err := io.ReadAll(in)
				require.NoError(t, err)
				require.Equal(t, data[offsets[i]+1:], rest)
			}

			// The trailing slot seeks to the end.
			require.NoError(t, in.Seek(len(offsets)))
			require.Zero(t, in.Available())

			require.ErrorIs(t, in.Seek(len(offsets)+1), errs.ErrInvalidCheckpoint)
			require.ErrorIs(t, in.Seek(-1), errs.ErrInvalidCheckpoint)
		})
	}
}

func TestStream_LoadIndicesOffset(t *testing.T) {
	entries := []rowindex.Entry{
		{Positions: []uint64{99, 0, 7}},
		{Positions: []uint64{99, 3, 2}},
	}
	data := []byte("0123456789")

	in, err := NewInStream("plain", data)
	require.NoError(t, err)
	require.Equal(t, 2, in.LoadIndices(entries, 1))

	require.NoError(t, in.Seek(1))
	b, err := in.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('3'), b)
}

func TestStream_SeekErrors(t *testing.T) {
	in, err := NewInStream("plain", []byte("abc"))
	require.NoError(t, err)
	require.ErrorIs(t, in.Seek(0), errs.ErrIndexNotLoaded)

	in.LoadIndices([]rowindex.Entry{{Positions: []uint64{10}}}, 0)
	require.ErrorIs(t, in.Seek(0), errs.ErrInvalidPosition)

	require.NoError(t, in.Close())
	_, err = in.ReadByte()
	require.ErrorIs(t, err, errs.ErrStreamClosed)
}

func TestStream_CorruptChunk(t *testing.T) {
	opts := []Option{WithCodec(format.CompressionZstd)}
	encoded := writeAll(t, testData(5000, false), opts...)

	t.Run("truncated", func(t *testing.T) {
		in, err := NewInStream("corrupt", encoded[:len(encoded)-1], opts...)
		require.NoError(t, err)
		_, err = in.ReadByte()
		require.ErrorIs(t, err, errs.ErrCorruptChunk)
	})

	t.Run("bad payload", func(t *testing.T) {
		bad := bytes.Clone(encoded)
		for i := headerSize; i < len(bad); i++ {
			bad[i] ^= 0x5a
		}
		in, err := NewInStream("corrupt", bad, opts...)
		require.NoError(t, err)
		_, err = in.ReadByte()
		require.ErrorIs(t, err, errs.ErrCorruptChunk)
	})

	t.Run("short header", func(t *testing.T) {
		in, err := NewInStream("corrupt", []byte{0x10}, opts...)
		require.NoError(t, err)
		_, err = in.ReadByte()
		require.ErrorIs(t, err, errs.ErrCorruptChunk)
	})
}

func TestStream_ChunkDecodesPastChunkSize(t *testing.T) {
	// A compressed chunk whose stored length claims 1 GiB.
	data := appendHeader(nil, 5, false)
	data = append(data, 0x80, 0x80, 0x80, 0x80, 0x04)

	for _, ct := range []format.CompressionType{format.CompressionSnappy, format.CompressionS2} {
		t.Run(ct.String(), func(t *testing.T) {
			in, err := NewInStream("oversized", data, WithCodec(ct), WithChunkSize(1024))
			require.NoError(t, err)

			_, err = in.ReadByte()
			require.ErrorIs(t, err, errs.ErrCorruptChunk)
			require.ErrorIs(t, err, errs.ErrDecodedTooLarge)
		})
	}

	t.Run("larger chunk size on write", func(t *testing.T) {
		encoded := writeAll(t, testData(4096, false), WithCodec(format.CompressionZlib), WithChunkSize(4096))
		in, err := NewInStream("oversized", encoded, WithCodec(format.CompressionZlib), WithChunkSize(1024))
		require.NoError(t, err)

		_, err = in.ReadByte()
		require.ErrorIs(t, err, errs.ErrDecodedTooLarge)
	})
}

func TestOutStream_StatsAndReset(t *testing.T) {
	out, err := NewOutStream("stats", WithCodec(format.CompressionS2), WithChunkSize(1024))
	require.NoError(t, err)

	data := bytes.Repeat([]byte("abcd"), 2048)
	_, err = out.Write(data)
	require.NoError(t, err)
	require.NoError(t, out.Flush())

	stats := out.Stats()
	require.Equal(t, format.CompressionS2, stats.Algorithm)
	require.Equal(t, int64(len(data)), stats.OriginalSize)
	require.Equal(t, int64(out.Len()), stats.CompressedSize)
	require.Less(t, stats.CompressionRatio(), 0.5)

	var sink bytes.Buffer
	n, err := out.WriteTo(&sink)
	require.NoError(t, err)
	require.Equal(t, int64(out.Len()), n)

	out.Reset()
	require.Zero(t, out.Len())
	require.Zero(t, out.Stats().OriginalSize)

	require.NoError(t, out.Close())
	require.NoError(t, out.Close())
	_, err = out.Write([]byte{1})
	require.ErrorIs(t, err, errs.ErrStreamClosed)
	require.ErrorIs(t, out.WriteByte(1), errs.ErrStreamClosed)
}

func TestOutStream_RecordPosition(t *testing.T) {
	out, err := NewOutStream("pos", WithCodec(format.CompressionZlib), WithChunkSize(10))
	require.NoError(t, err)
	defer out.Close()

	_, err = out.Write([]byte("0123456789abc"))
	require.NoError(t, err)

	var e rowindex.Entry
	out.RecordPosition(&e)
	require.Len(t, e.Positions, 2)
	require.Equal(t, uint64(out.Len()), e.Positions[0])
	require.Equal(t, uint64(3), e.Positions[1])

	plain, err := NewOutStream("plain")
	require.NoError(t, err)
	defer plain.Close()
	require.True(t, plain.UseVInts())

	_, err = plain.Write([]byte("xyz"))
	require.NoError(t, err)
	var p rowindex.Entry
	plain.RecordPosition(&p)
	require.Equal(t, []uint64{3}, p.Positions)
}

func TestOptions(t *testing.T) {
	_, err := NewOutStream("bad", WithChunkSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidChunkSize)

	_, err = NewOutStream("bad", WithChunkSize(MaxChunkSize+1))
	require.ErrorIs(t, err, errs.ErrInvalidChunkSize)

	_, err = NewInStream("bad", nil, WithCodec(format.CompressionType(42)))
	require.ErrorIs(t, err, errs.ErrInvalidCompressionType)

	in, err := NewInStream("fixed", nil, WithVInts(false))
	require.NoError(t, err)
	require.False(t, in.UseVInts())
	require.Zero(t, in.Available())
}
