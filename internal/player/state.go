// internal/player/state.go
package player

// State is the engine's coarse playback state.
//
// The play-when-ready flag is orthogonal to State: a Ready engine is
// actually playing only when the flag is set.
//
//	          Prepare            buffered
//	┌──────┐ ────────▶ ┌───────────┐ ─────▶ ┌───────┐
//	│ Idle │           │ Preparing │        │ Ready │ ◀──┐
//	└──────┘           └───────────┘        └───────┘    │
//	   ▲                                     │ │ │       │
//	   │ Stop (from any state)          Seek │ │ │ end   │ seek done
//	   │                                     ▼ │ ▼       │
//	   │                           ┌───────────┐ ┌───────┐
//	   └───────────────────────────│ Buffering │ │ Ended │
//	                               └───────────┘ └───────┘
//
// Valid transitions:
//   - Idle      → Preparing (via Prepare)
//   - Preparing → Ready     (stream installed)
//   - Ready     → Buffering (via Seek)
//   - Ended     → Buffering (via Seek)
//   - Buffering → Ready     (seek applied)
//   - Ready     → Ended     (end of stream)
//   - any       → Idle      (via Stop, or after a fatal error)
type State int

const (
	Idle State = iota
	Preparing
	Buffering
	Ready
	Ended
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Preparing:
		return "Preparing"
	case Buffering:
		return "Buffering"
	case Ready:
		return "Ready"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}

// HasMedia returns true if a renderer is installed (anything but Idle).
func (s State) HasMedia() bool {
	return s != Idle
}

// CanSeek returns true if the state accepts a seek command.
func (s State) CanSeek() bool {
	return s == Ready || s == Ended || s == Buffering
}

// IsTransitional returns true for states the engine leaves on its own.
func (s State) IsTransitional() bool {
	return s == Preparing || s == Buffering
}
