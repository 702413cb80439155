// Package tasks implements the batch drivers and transfer orchestration.
//
// The core abstractions are:
//
//   - [RunBounded] : applies a function across an item list with a fixed
//     concurrency cap, preserving input order in the results
//   - [RunChunked] : processes items in fixed-size batches with an
//     inter-batch throttle delay
//   - [RetryWithBackoff] : wraps a failing operation in capped exponential
//     backoff
//   - [TransferEngine] : exports a source playlist, resolves every track
//     against the destination catalog, and commits a finalized id list
//
// Long-running operations emit [ProgressUpdate] values via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks
