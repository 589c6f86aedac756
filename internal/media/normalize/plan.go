package normalize

import (
	"path/filepath"
	"strings"
)

const (
	// TargetContainer is the canonical output extension all processed
	// artifacts converge to.
	TargetContainer = ".mp4"

	// outputSuffix keeps the derived output path from ever colliding with
	// the input path, even when the input is already an mp4.
	outputSuffix = "_processed"

	shrinkPreset  = "medium"
	convertPreset = "veryfast"
)

// Plan is the per-invocation decision about what the artifact needs. It is
// derived fresh from the current file state and the budget, never persisted.
type Plan struct {
	NeedsShrink    bool
	NeedsContainer bool
	// VideoBitrateKbps is populated after duration probing, and only on the
	// shrink path.
	VideoBitrateKbps int
}

// Compliant reports whether the artifact already satisfies both the size
// budget and the canonical container.
func (p Plan) Compliant() bool {
	return !p.NeedsShrink && !p.NeedsContainer
}

func planFor(sizeBytes int64, path string, budgetMB float64) Plan {
	sizeMB := float64(sizeBytes) / (1024 * 1024)
	ext := strings.ToLower(filepath.Ext(path))
	return Plan{
		NeedsShrink:    sizeMB > budgetMB,
		NeedsContainer: ext != TargetContainer,
	}
}

// outputPath derives the deterministic output location for an input artifact:
// stem plus the processed suffix, in the canonical container.
func outputPath(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(filepath.Dir(input), stem+outputSuffix+TargetContainer)
}
