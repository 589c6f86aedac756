package obs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/andreykaipov/goobs"

	"github.com/MLShukai/obs-rec/internal/config"
	"github.com/MLShukai/obs-rec/internal/logging"
)

// Controller defines the recorder control surface the daemon depends on.
type Controller interface {
	Connect(ctx context.Context) error
	Close() error
	IsRecording(ctx context.Context) (bool, error)
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) (string, error)
	RecordClip(ctx context.Context, duration time.Duration) (string, error)
}

// Client controls OBS recording over its WebSocket API.
type Client struct {
	host           string
	port           int
	password       string
	connectTimeout time.Duration
	logger         *slog.Logger

	conn *goobs.Client
}

// NewClient constructs a client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		host:           cfg.OBS.Host,
		port:           cfg.OBS.Port,
		password:       cfg.OBS.Password,
		connectTimeout: time.Duration(cfg.OBS.ConnectTimeout) * time.Second,
		logger:         logging.NewComponentLogger(logger, "obs"),
	}
}

// Connect establishes the WebSocket session. Connecting twice is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		c.logger.Warn("already connected to OBS")
		return nil
	}

	address := fmt.Sprintf("%s:%d", c.host, c.port)
	opts := []goobs.Option{}
	if strings.TrimSpace(c.password) != "" {
		opts = append(opts, goobs.WithPassword(c.password))
	}

	done := make(chan connectResult, 1)
	go func() {
		conn, err := goobs.New(address, opts...)
		done <- connectResult{conn: conn, err: err}
	}()

	timeout := c.connectTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("connect to OBS at %s: %w", address, res.err)
		}
		c.conn = res.conn
		c.logger.Info("connected to OBS", logging.String("address", address))
		return nil
	case <-timer.C:
		go discardLateHandshake(done)
		return fmt.Errorf("connect to OBS at %s: timeout after %s", address, timeout)
	case <-ctx.Done():
		go discardLateHandshake(done)
		return ctx.Err()
	}
}

type connectResult struct {
	conn *goobs.Client
	err  error
}

// discardLateHandshake tears down a connection that completed after the
// caller stopped waiting for it.
func discardLateHandshake(done <-chan connectResult) {
	if res := <-done; res.conn != nil {
		_ = res.conn.Disconnect()
	}
}

// Close stops any in-flight recording and tears down the session.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	ctx := context.Background()
	if recording, err := c.IsRecording(ctx); err == nil && recording {
		if _, err := c.StopRecording(ctx); err != nil {
			c.logger.Warn("failed to stop recording during shutdown", logging.Error(err))
		}
	}

	err := c.conn.Disconnect()
	c.conn = nil
	c.logger.Info("disconnected from OBS")
	return err
}

// IsRecording reports whether OBS currently has an active record output.
func (c *Client) IsRecording(_ context.Context) (bool, error) {
	if c.conn == nil {
		return false, errors.New("not connected to OBS")
	}
	status, err := c.conn.Record.GetRecordStatus()
	if err != nil {
		return false, fmt.Errorf("get record status: %w", err)
	}
	return status.OutputActive, nil
}

// StartRecording begins recording. Duplicate starts are ignored with a
// warning so the call is idempotent.
func (c *Client) StartRecording(ctx context.Context) error {
	if c.conn == nil {
		return errors.New("not connected to OBS")
	}

	recording, err := c.IsRecording(ctx)
	if err != nil {
		return err
	}
	if recording {
		c.logger.Warn("already recording")
		return nil
	}

	if _, err := c.conn.Record.StartRecord(); err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	c.logger.Info("started recording")
	return nil
}

// StopRecording stops the active recording and returns the artifact path OBS
// reports for it.
func (c *Client) StopRecording(ctx context.Context) (string, error) {
	if c.conn == nil {
		return "", errors.New("not connected to OBS")
	}

	recording, err := c.IsRecording(ctx)
	if err != nil {
		return "", err
	}
	if !recording {
		return "", errors.New("not currently recording")
	}

	resp, err := c.conn.Record.StopRecord()
	if err != nil {
		return "", fmt.Errorf("stop recording: %w", err)
	}
	c.logger.Info("stopped recording", logging.String("path", resp.OutputPath))
	return resp.OutputPath, nil
}

// RecordClip records for the requested duration and returns the artifact
// path. Cancellation stops the recording best-effort before returning.
func (c *Client) RecordClip(ctx context.Context, duration time.Duration) (string, error) {
	if err := c.StartRecording(ctx); err != nil {
		return "", err
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		if _, err := c.StopRecording(context.Background()); err != nil {
			c.logger.Warn("failed to stop recording after cancellation", logging.Error(err))
		}
		return "", ctx.Err()
	}

	return c.StopRecording(ctx)
}

var _ Controller = (*Client)(nil)
