package domain

// LivePhase is the lifecycle position of a live edit session.
type LivePhase string

const (
	PhaseIdle     LivePhase = "idle"     // No word loaded
	PhaseActive   LivePhase = "active"   // Word loaded, symbols left
	PhaseFinished LivePhase = "finished" // Word exhausted
	PhaseHalted   LivePhase = "halted"   // Deactivated by a failed step; history kept
)

// LiveStatus is the observable state of a live edit session.
type LiveStatus struct {
	Phase        LivePhase `json:"phase"`
	Word         string    `json:"word"`
	Pointer      int       `json:"pointer"`
	CurrentState string    `json:"current_state"`
	Finished     bool      `json:"finished"`
	LastStep     *Step     `json:"last_step,omitempty"`
	History      []Step    `json:"history"`
}
