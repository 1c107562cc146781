// Package column writes and reads dictionary-encoded column stripes.
//
// A writer interns every added value in a dictionary encoder and buffers the id of
// each row. Flush then produces a Stripe made of:
//   - Data: the dictionary entries in visitation order
//   - Length: the RLE encoded byte length of every string entry (strings only)
//   - Rows: the RLE encoded visit position of every row
//   - Index: the Rows stream positions recorded at every checkpoint
//
// Row ids are buffered because a sorted dictionary is only ordered at flush time.
// Rows are rewritten through the id to visit-position table so the Rows stream
// indexes the Data stream directly.
//
// Checkpoints are taken automatically every row index stride rows and on demand
// with Checkpoint. A reader seeks to a checkpoint and resumes at the row it was
// taken at.
//
// Readers must be configured with the compression, chunk size and integer width
// the stripe was written with.
package column
