package rle

import (
	"fmt"

	"github.com/arloliu/dwrf/encoding"
	"github.com/arloliu/dwrf/rowindex"
)

// Writer run-length encodes an integer sequence into an OutputStream.
//
// Runs are chosen greedily: as soon as the last three values form an arithmetic
// progression whose delta fits a signed byte they start a repeat run, which grows
// until the progression breaks or MaxRepeatSize values are buffered. Everything
// else accumulates in literal runs of at most MaxLiteralSize values.
type Writer struct {
	output OutputStream
	coding encoding.IntegerCoding

	literals      [MaxLiteralSize]int64
	numLiterals   int
	delta         int64
	repeat        bool
	tailRunLength int

	scratch []byte
}

// NewWriter creates a writer appending to output. Whether values are
// variable-length is taken from output.UseVInts.
//
// Options:
//   - WithSigned: signed (default) or unsigned values
//   - WithNumBytes: fixed value width (default 8)
//   - WithEngine: fixed value byte order (default little endian)
func NewWriter(output OutputStream, opts ...Option) (*Writer, error) {
	cfg, err := newConfig(output.UseVInts(), opts)
	if err != nil {
		return nil, err
	}

	return &Writer{output: output, coding: cfg.coding}, nil
}

func (w *Writer) writeValues() error {
	if w.numLiterals == 0 {
		return nil
	}

	buf := w.scratch[:0]
	if w.repeat {
		buf = append(buf, byte(w.numLiterals-MinRepeatSize), byte(int8(w.delta))) //nolint:gosec
		buf = w.coding.Append(buf, w.literals[0])
	} else {
		buf = append(buf, byte(-w.numLiterals)) //nolint:gosec
		for _, v := range w.literals[:w.numLiterals] {
			buf = w.coding.Append(buf, v)
		}
	}
	w.scratch = buf

	w.repeat = false
	w.numLiterals = 0
	w.tailRunLength = 0

	if _, err := w.output.Write(buf); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}

	return nil
}

// Write appends v to the sequence. Values are buffered until a run is complete.
func (w *Writer) Write(v int64) error {
	switch {
	case w.numLiterals == 0:
		w.literals[0] = v
		w.numLiterals = 1
		w.tailRunLength = 1

	case w.repeat:
		if v == w.literals[0]+w.delta*int64(w.numLiterals) {
			w.numLiterals++
			if w.numLiterals == MaxRepeatSize {
				return w.writeValues()
			}

			return nil
		}

		if err := w.writeValues(); err != nil {
			return err
		}
		w.literals[0] = v
		w.numLiterals = 1
		w.tailRunLength = 1

	default:
		return w.writeLiteral(v)
	}

	return nil
}

func (w *Writer) writeLiteral(v int64) error {
	last := w.literals[w.numLiterals-1]
	if w.tailRunLength > 1 && v == last+w.delta {
		w.tailRunLength++
	} else {
		w.delta = v - last
		if w.delta < MinDelta || w.delta > MaxDelta {
			w.tailRunLength = 1
		} else {
			w.tailRunLength = 2
		}
	}

	if w.tailRunLength < MinRepeatSize {
		w.literals[w.numLiterals] = v
		w.numLiterals++
		if w.numLiterals == MaxLiteralSize {
			return w.writeValues()
		}

		return nil
	}

	// The last two buffered values and v start a repeat run.
	if w.numLiterals+1 == MinRepeatSize {
		w.repeat = true
		w.numLiterals++

		return nil
	}

	w.numLiterals -= MinRepeatSize - 1
	base := w.literals[w.numLiterals]
	if err := w.writeValues(); err != nil {
		return err
	}
	w.literals[0] = base
	w.repeat = true
	w.numLiterals = MinRepeatSize

	return nil
}

// Flush writes the buffered run and flushes the output stream.
func (w *Writer) Flush() error {
	if err := w.writeValues(); err != nil {
		return err
	}

	return w.output.Flush()
}

// RecordPosition adds the output position and the number of values buffered in
// the current run to rec.
func (w *Writer) RecordPosition(rec rowindex.PositionRecorder) {
	w.output.RecordPosition(rec)
	rec.AddPosition(uint64(w.numLiterals)) //nolint:gosec
}
