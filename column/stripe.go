package column

import (
	"bytes"
	"fmt"

	"github.com/arloliu/dwrf/dictionary"
	"github.com/arloliu/dwrf/dynarray"
	"github.com/arloliu/dwrf/format"
	"github.com/arloliu/dwrf/internal/pool"
	"github.com/arloliu/dwrf/rle"
	"github.com/arloliu/dwrf/rowindex"
	"github.com/arloliu/dwrf/stream"
)

// Stripe is the flushed content of one dictionary column stripe.
type Stripe struct {
	// Kind is the dictionary key type.
	Kind format.DictionaryKind

	// Data holds the serialized dictionary entries in visitation order.
	Data []byte

	// Length holds the run-length encoded byte length of every string entry.
	// It is nil for integer dictionaries.
	Length []byte

	// Rows holds the run-length encoded dictionary position of every row.
	Rows []byte

	// Index holds one entry per checkpoint with the positions of the Rows stream.
	Index []rowindex.Entry

	// CheckpointRows holds the row number of every checkpoint, parallel to Index.
	CheckpointRows []int

	// DictionarySize is the number of dictionary entries.
	DictionarySize int

	// RowCount is the number of rows.
	RowCount int
}

// IndexBytes returns the binary form of the row index.
func (s *Stripe) IndexBytes() []byte {
	x := rowindex.Index{Entries: s.Index}
	return x.AppendTo(nil)
}

// Size returns the total number of stream bytes of the stripe.
func (s *Stripe) Size() int {
	return len(s.Data) + len(s.Length) + len(s.Rows)
}

// rowBuffer holds the dictionary id of every row until the dictionary is final,
// along with the rows at which checkpoints were requested.
type rowBuffer struct {
	stride      int
	ids         *dynarray.IntArray
	checkpoints []int
}

func newRowBuffer(stride int) rowBuffer {
	return rowBuffer{stride: stride, ids: dynarray.NewIntArray()}
}

func (b *rowBuffer) add(id int) {
	if b.stride > 0 && b.ids.Size()%b.stride == 0 {
		b.checkpoint()
	}
	b.ids.Add(int32(id)) //nolint:gosec
}

func (b *rowBuffer) checkpoint() {
	row := b.ids.Size()
	if n := len(b.checkpoints); n > 0 && b.checkpoints[n-1] == row {
		return
	}
	b.checkpoints = append(b.checkpoints, row)
}

func (b *rowBuffer) reset() {
	b.ids.Clear()
	b.checkpoints = nil
}

// rowCodingOptions configures the run-length coding of row ids and string lengths.
func rowCodingOptions() []rle.Option {
	return []rle.Option{rle.WithSigned(false), rle.WithNumBytes(4)}
}

// writeRows encodes the remapped row ids, recording the row stream position at
// every checkpoint.
func (b *rowBuffer) writeRows(cfg *Config, dumpOrder []int32) ([]byte, []rowindex.Entry, error) {
	out, err := stream.NewOutStream("rows", cfg.streamOptions()...)
	if err != nil {
		return nil, nil, err
	}
	defer out.Close()

	w, err := rle.NewWriter(out, rowCodingOptions()...)
	if err != nil {
		return nil, nil, err
	}

	var index rowindex.Index
	next := 0
	for row := range b.ids.Size() {
		for next < len(b.checkpoints) && b.checkpoints[next] == row {
			w.RecordPosition(index.NewEntry())
			next++
		}
		if err := w.Write(int64(dumpOrder[b.ids.Get(row)])); err != nil {
			return nil, nil, err
		}
	}
	for ; next < len(b.checkpoints); next++ {
		w.RecordPosition(index.NewEntry())
	}

	if err := w.Flush(); err != nil {
		return nil, nil, err
	}

	return bytes.Clone(out.Bytes()), index.Entries, nil
}

// flushDictionary visits enc, hands every entry to write, and then encodes the rows
// through the resulting id to visit-position table.
func flushDictionary[K any](cfg *Config, enc dictionary.Encoder[K], rows *rowBuffer,
	write func(dictionary.Entry[K]) error,
) (*Stripe, error) {
	dumpOrder, cleanup := pool.GetInt32Slice(enc.Size())
	defer cleanup()

	pos := int32(0)
	err := enc.Visit(func(e dictionary.Entry[K]) error {
		dumpOrder[e.OriginalPosition()] = pos
		pos++

		return write(e)
	})
	if err != nil {
		return nil, fmt.Errorf("write dictionary: %w", err)
	}

	data, index, err := rows.writeRows(cfg, dumpOrder)
	if err != nil {
		return nil, fmt.Errorf("write rows: %w", err)
	}

	return &Stripe{
		Rows:           data,
		Index:          index,
		CheckpointRows: append([]int(nil), rows.checkpoints...),
		DictionarySize: enc.Size(),
		RowCount:       rows.ids.Size(),
	}, nil
}
