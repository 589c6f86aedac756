// Package ffmpeg wraps the ffmpeg command-line transcoder behind a small
// Client interface so the normalizer can be tested with fakes.
//
// The invocation is fixed to the canonical output pairing (libx264 + aac in
// an mp4 container with +faststart); callers choose only the preset and an
// optional video bitrate cap.
package ffmpeg
