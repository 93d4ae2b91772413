package playback

// Event is a discrete playback lifecycle transition.
//
// Emitted by the engine listener:
//   - READY/PREPARING/BUFFERING/ENDED/IDLE: engine entered that state
//   - STARTED: engine became Ready while play-when-ready is set, always
//     right after the READY of the same notification
//   - PAUSED: a play-when-ready change was committed and the flag is off
//
// The zero value is not an event; operations return it alongside errors.
type Event int

const (
	EventReady Event = iota + 1
	EventPreparing
	EventBuffering
	EventStarted
	EventPaused
	EventEnded
	EventIdle
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventReady:
		return "READY"
	case EventPreparing:
		return "PREPARING"
	case EventBuffering:
		return "BUFFERING"
	case EventStarted:
		return "STARTED"
	case EventPaused:
		return "PAUSED"
	case EventEnded:
		return "ENDED"
	case EventIdle:
		return "IDLE"
	default:
		return "NONE"
	}
}

// AllEvents lists every event kind in declaration order.
var AllEvents = []Event{
	EventReady,
	EventPreparing,
	EventBuffering,
	EventStarted,
	EventPaused,
	EventEnded,
	EventIdle,
}
