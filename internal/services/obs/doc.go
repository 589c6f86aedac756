// Package obs wraps the OBS WebSocket API behind the Controller interface.
//
// Start and stop are idempotent against duplicate calls: the client queries
// the current record status before acting. StopRecording returns the
// filesystem path OBS reports for the finished artifact.
package obs
