package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// ErrUnknownDuration indicates ffprobe ran but reported no usable duration.
// Some containers omit duration at the format level while still carrying it
// on the individual streams, so callers should retry at the stream tier.
var ErrUnknownDuration = errors.New("duration unavailable")

// unknownValue is the sentinel ffprobe prints for missing numeric fields.
const unknownValue = "N/A"

// Option configures the probe client.
type Option func(*Client)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// Client wraps the ffprobe command-line inspector.
type Client struct {
	binary string
}

// NewClient constructs a probe client using defaults.
func NewClient(opts ...Option) *Client {
	client := &Client{binary: "ffprobe"}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FormatDuration reports the container-level duration of the file in seconds.
func (c *Client) FormatDuration(ctx context.Context, path string) (float64, error) {
	return c.probe(ctx, path, "format=duration", nil)
}

// StreamDuration reports the duration of the first video stream in seconds.
func (c *Client) StreamDuration(ctx context.Context, path string) (float64, error) {
	return c.probe(ctx, path, "stream=duration", []string{"-select_streams", "v:0"})
}

func (c *Client) probe(ctx context.Context, path, entries string, extra []string) (float64, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("ffprobe: empty path")
	}

	args := []string{"-v", "error"}
	args = append(args, extra...)
	args = append(args, "-show_entries", entries, "-of", "default=noprint_wrappers=1:nokey=1", path)

	cmd := commandContext(ctx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w: %s", entries, err, strings.TrimSpace(string(output)))
	}

	return parseDuration(string(output))
}

func parseDuration(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || strings.EqualFold(cleaned, unknownValue) {
		return 0, ErrUnknownDuration
	}
	seconds, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", cleaned, err)
	}
	if seconds <= 0 {
		return 0, ErrUnknownDuration
	}
	return seconds, nil
}
