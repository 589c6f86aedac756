package history

import "time"

// Status represents the lifecycle of a capture cycle.
type Status string

const (
	StatusRecording  Status = "recording"
	StatusRecorded   Status = "recorded"
	StatusNormalized Status = "normalized"
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusRecording,
	StatusRecorded,
	StatusNormalized,
	StatusPublished,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Cycle records one pass through the record → normalize → publish workflow.
type Cycle struct {
	ID             int64
	RunID          string
	Status         Status
	ArtifactPath   string
	PublishedPath  string
	ArtifactBytes  int64
	PublishedBytes int64
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
