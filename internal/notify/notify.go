// Package notify raises desktop notifications for playback problems.
package notify

const (
	appName = "playctl"
	appID   = "playctl"
)

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is one desktop notification. Timeout is in milliseconds;
// -1 leaves it to the server and 0 keeps it until dismissed. A non-zero
// ReplacesID updates that notification in place.
type Notification struct {
	Title      string
	Body       string
	Icon       string
	Timeout    int32
	ReplacesID uint32
	Urgency    Urgency
}

// Notifier shows and withdraws notifications. Implementations that have
// no notification server return id 0 and no error.
type Notifier interface {
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (nopNotifier) Close(uint32) error                  { return nil }
