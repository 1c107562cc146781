// Package errs defines the sentinel errors returned by dwrf packages.
//
// Errors are usually wrapped with additional context using fmt.Errorf and the
// %w verb, so callers should match them with errors.Is.
package errs

import "errors"

// Integer coding errors.
var (
	ErrInvalidNumBytes = errors.New("invalid integer byte width")
	ErrNilEndianEngine = errors.New("endian engine must not be nil")
)

// Stream and run-length decoding errors.
var (
	// ErrEndOfStream is returned when the input ends in the middle of a run or value.
	ErrEndOfStream = errors.New("unexpected end of stream")

	// ErrIndexNotLoaded is returned by Seek when no row index was loaded.
	ErrIndexNotLoaded = errors.New("row index not loaded")

	// ErrInvalidCheckpoint is returned by Seek for a checkpoint outside the loaded row index.
	ErrInvalidCheckpoint = errors.New("invalid row index checkpoint")

	ErrInvalidPosition = errors.New("invalid stream position")
	ErrCorruptChunk    = errors.New("corrupt compressed chunk")
	ErrDecodedTooLarge = errors.New("decoded size exceeds limit")
	ErrStreamClosed    = errors.New("stream is closed")
	ErrInvalidSkip     = errors.New("invalid skip count")
)

// Configuration errors.
var (
	ErrInvalidChunkSize       = errors.New("invalid compression chunk size")
	ErrInvalidCompressionType = errors.New("invalid compression type")
	ErrInvalidRowIndexStride  = errors.New("invalid row index stride")
)

// Row index and column errors.
var (
	ErrInvalidRowIndex     = errors.New("invalid row index payload")
	ErrInvalidDictionaryID = errors.New("dictionary id out of range")
	ErrDictionaryLength    = errors.New("dictionary length stream does not match data stream")
	ErrDictionaryKind      = errors.New("stripe holds a different dictionary kind")
)
