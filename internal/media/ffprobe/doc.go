// Package ffprobe provides duration probing via the ffprobe command line tool.
//
// Probing is two-tiered: FormatDuration reads the container-level duration
// field and StreamDuration falls back to the first video stream, since some
// containers only carry duration metadata at the stream level. Both report
// ErrUnknownDuration when ffprobe prints its N/A sentinel or an empty value.
package ffprobe
