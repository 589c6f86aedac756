package main

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp(time.Time{}); got != "-" {
		t.Fatalf("zero timestamp = %q", got)
	}
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
	if got := formatTimestamp(ts); got != "2026-03-14 09:26:53" {
		t.Fatalf("formatTimestamp = %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	if got := formatSize(0); got != "-" {
		t.Fatalf("zero size = %q", got)
	}
	if got := formatSize(26214400); got != "25.0 MB" {
		t.Fatalf("formatSize = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	got := truncate(strings.Repeat("x", 80), 10)
	if got != strings.Repeat("x", 7)+"..." {
		t.Fatalf("truncate = %q", got)
	}
	if len(got) != 10 {
		t.Fatalf("truncate length = %d", len(got))
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Status"},
		[][]string{{"1", "published"}, {"2"}},
		[]columnAlignment{alignRight, alignLeft},
	)
	if !strings.Contains(out, "published") {
		t.Fatalf("table missing row data:\n%s", out)
	}
	if !strings.Contains(out, "ID") || !strings.Contains(out, "Status") {
		t.Fatalf("table missing headers:\n%s", out)
	}
}
