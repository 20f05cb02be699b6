package domain

// EventType tags a change notification.
type EventType string

const (
	EventTransitionAdded     EventType = "transition_added"
	EventTransitionRemoved   EventType = "transition_removed"
	EventStateRemoved        EventType = "state_removed"
	EventCleared             EventType = "cleared"
	EventInitialStateChanged EventType = "initial_state_changed"
	EventStateRestored       EventType = "state_restored"
	EventLiveEditStarted     EventType = "live_edit_started"
	EventLiveEditStep        EventType = "live_edit_step"
	EventLiveEditReset       EventType = "live_edit_reset"
)

// EventTypes lists every event kind in a stable order.
var EventTypes = []EventType{
	EventTransitionAdded,
	EventTransitionRemoved,
	EventStateRemoved,
	EventCleared,
	EventInitialStateChanged,
	EventStateRestored,
	EventLiveEditStarted,
	EventLiveEditStep,
	EventLiveEditReset,
}

// Event is a change notification. The set of implementations is closed;
// consumers switch on the concrete type.
type Event interface {
	Type() EventType
	event()
}

// TransitionAdded is emitted after an edge is appended.
type TransitionAdded struct {
	Transition Transition `json:"transition"`
	Output     string     `json:"output"`
}

// TransitionRemoved is emitted after the edge at Index is removed.
type TransitionRemoved struct {
	Index      int        `json:"index"`
	Transition Transition `json:"transition"`
}

// StateRemoved is emitted after a state and its edges are removed.
type StateRemoved struct {
	State string `json:"state"`
}

// Cleared is emitted after the automaton is emptied.
type Cleared struct{}

// InitialStateChanged is emitted after the initial marker moves.
type InitialStateChanged struct {
	State string `json:"state"`
}

// StateRestored is emitted after a snapshot is replayed.
type StateRestored struct {
	Snapshot *Snapshot `json:"snapshot"`
}

// LiveEditStarted is emitted after a live session loads a word.
type LiveEditStarted struct {
	Status LiveStatus `json:"status"`
}

// LiveEditStep is emitted after a live step completes.
type LiveEditStep struct {
	Status LiveStatus `json:"status"`
}

// LiveEditReset is emitted after the live session returns to idle.
type LiveEditReset struct{}

func (TransitionAdded) Type() EventType     { return EventTransitionAdded }
func (TransitionRemoved) Type() EventType   { return EventTransitionRemoved }
func (StateRemoved) Type() EventType        { return EventStateRemoved }
func (Cleared) Type() EventType             { return EventCleared }
func (InitialStateChanged) Type() EventType { return EventInitialStateChanged }
func (StateRestored) Type() EventType       { return EventStateRestored }
func (LiveEditStarted) Type() EventType     { return EventLiveEditStarted }
func (LiveEditStep) Type() EventType        { return EventLiveEditStep }
func (LiveEditReset) Type() EventType       { return EventLiveEditReset }

func (TransitionAdded) event()     {}
func (TransitionRemoved) event()   {}
func (StateRemoved) event()        {}
func (Cleared) event()             {}
func (InitialStateChanged) event() {}
func (StateRestored) event()       {}
func (LiveEditStarted) event()     {}
func (LiveEditStep) event()        {}
func (LiveEditReset) event()       {}
