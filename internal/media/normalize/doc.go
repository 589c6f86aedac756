// Package normalize implements the capture-to-publish media pipeline:
// duration probing, bitrate budgeting, transcode invocation, output
// verification, and cleanup of superseded inputs.
//
// The size budget is an explicit per-call parameter so repeated or concurrent
// invocations never observe state mutated by an unrelated call. Concurrent
// Process calls on distinct paths are safe; calls on the same path must be
// serialized by the caller.
package normalize
