package ffmpeg

import (
	"context"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

func stubCommand(t *testing.T, script string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string{name}, args...)
		}
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	t.Cleanup(func() { commandContext = original })
}

func TestTranscodeRequiresPaths(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Transcode(context.Background(), Request{Output: "/tmp/out.mp4"}); err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, err := cli.Transcode(context.Background(), Request{Input: "/tmp/in.mkv"}); err == nil {
		t.Fatal("expected error for missing output")
	}
}

func TestTranscodeBuildsShrinkArguments(t *testing.T) {
	var captured []string
	stubCommand(t, "exit 0", &captured)

	cli := NewCLI(WithBinary("ffmpeg-test"))
	_, err := cli.Transcode(context.Background(), Request{
		Input:            "/tmp/in.mkv",
		Output:           "/tmp/out.mp4",
		Preset:           "medium",
		VideoBitrateKbps: 3192,
	})
	if err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}

	if captured[0] != "ffmpeg-test" {
		t.Fatalf("expected binary override, got %q", captured[0])
	}
	wantPairs := map[string]string{
		"-i":        "/tmp/in.mkv",
		"-c:v":      "libx264",
		"-preset":   "medium",
		"-b:v":      "3192k",
		"-maxrate":  "3192k",
		"-bufsize":  "6384k",
		"-c:a":      "aac",
		"-b:a":      "128k",
		"-movflags": "+faststart",
		"-f":        "mp4",
	}
	for flag, value := range wantPairs {
		idx := slices.Index(captured, flag)
		if idx < 0 || idx+1 >= len(captured) {
			t.Fatalf("missing flag %s in %v", flag, captured)
		}
		if captured[idx+1] != value {
			t.Fatalf("flag %s = %q, want %q", flag, captured[idx+1], value)
		}
	}
	if !slices.Contains(captured, "-y") {
		t.Fatalf("expected unconditional overwrite flag, got %v", captured)
	}
	if captured[len(captured)-1] != "/tmp/out.mp4" {
		t.Fatalf("output path must be the final argument, got %v", captured)
	}
}

func TestTranscodeOmitsRateControlWhenUncapped(t *testing.T) {
	var captured []string
	stubCommand(t, "exit 0", &captured)

	cli := NewCLI()
	_, err := cli.Transcode(context.Background(), Request{
		Input:  "/tmp/in.mkv",
		Output: "/tmp/out.mp4",
		Preset: "veryfast",
	})
	if err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}

	for _, flag := range []string{"-b:v", "-maxrate", "-bufsize"} {
		if slices.Contains(captured, flag) {
			t.Fatalf("uncapped transcode must not pass %s: %v", flag, captured)
		}
	}
}

func TestTranscodeSurfacesDiagnostics(t *testing.T) {
	stubCommand(t, "echo frame drop cascade >&2; exit 1", nil)

	cli := NewCLI()
	result, err := cli.Transcode(context.Background(), Request{
		Input:  "/tmp/in.mkv",
		Output: "/tmp/out.mp4",
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "frame drop cascade") {
		t.Fatalf("error should carry tool diagnostics, got %v", err)
	}
	if !strings.Contains(result.Output, "frame drop cascade") {
		t.Fatalf("result should carry tool diagnostics, got %q", result.Output)
	}
}
