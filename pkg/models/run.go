package models

// Stage is the lifecycle state of a document run.
type Stage string

const (
	// StagePending means no run has started for the session yet.
	StagePending Stage = "pending"
	// StageRunning means a pipeline run is in progress.
	StageRunning Stage = "running"
	// StageCompleted means the final document was assembled.
	StageCompleted Stage = "completed"
	// StageFailed means the run ended without a complete document.
	// This covers both hard task errors and completeness failures.
	StageFailed Stage = "failed"
)

// Valid returns true if the stage is a known value.
func (s Stage) Valid() bool {
	switch s {
	case StagePending, StageRunning, StageCompleted, StageFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true once a run can no longer progress.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}
