package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

const (
	videoCodec   = "libx264"
	audioCodec   = "aac"
	audioBitrate = "128k"

	// bufsizeMultiplier sizes the rate-control buffer relative to the
	// target bitrate when a bitrate cap is requested.
	bufsizeMultiplier = 2
)

// Request describes a single transcode invocation.
type Request struct {
	Input  string
	Output string
	// Preset selects the libx264 speed/quality trade-off.
	Preset string
	// VideoBitrateKbps caps the video bitrate when positive; zero disables
	// rate control entirely.
	VideoBitrateKbps int
}

// Result captures the outcome of a completed transcode.
type Result struct {
	// Output holds the tool's combined stdout/stderr diagnostic text.
	Output  string
	Elapsed time.Duration
}

// Client defines transcoding behaviour.
type Client interface {
	Transcode(ctx context.Context, req Request) (Result, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line transcoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Transcode runs ffmpeg with the fixed codec pair and the requested rate
// control, overwriting any existing file at the output path. A non-zero exit
// returns an error carrying the tool's diagnostic output.
func (c *CLI) Transcode(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Input) == "" {
		return Result{}, errors.New("input path required")
	}
	if strings.TrimSpace(req.Output) == "" {
		return Result{}, errors.New("output path required")
	}

	args := []string{"-i", req.Input, "-c:v", videoCodec}
	if preset := strings.TrimSpace(req.Preset); preset != "" {
		args = append(args, "-preset", preset)
	}
	if req.VideoBitrateKbps > 0 {
		rate := fmt.Sprintf("%dk", req.VideoBitrateKbps)
		bufsize := fmt.Sprintf("%dk", req.VideoBitrateKbps*bufsizeMultiplier)
		args = append(args, "-b:v", rate, "-maxrate", rate, "-bufsize", bufsize)
	}
	args = append(args,
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		"-movflags", "+faststart",
		"-f", "mp4",
		"-y",
		req.Output,
	)

	started := time.Now()
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	elapsed := time.Since(started)

	diagnostics := strings.TrimSpace(string(output))
	if err != nil {
		return Result{Output: diagnostics, Elapsed: elapsed}, fmt.Errorf("ffmpeg transcode failed: %w: %s", err, diagnostics)
	}
	return Result{Output: diagnostics, Elapsed: elapsed}, nil
}

var _ Client = (*CLI)(nil)
