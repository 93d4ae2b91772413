package notify

import (
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/player"
	"github.com/llehouerou/playctl/internal/render"
)

const errorTimeout = 8000 // ms

// ErrorReporter turns fatal playback errors into desktop notifications.
// Consecutive errors replace the previous notification instead of
// stacking up.
type ErrorReporter struct {
	notifier Notifier
	current  func() *player.TrackInfo
	log      logrus.FieldLogger
	lastID   uint32
}

// NewErrorReporter creates a reporter. current returns the media being
// played when the error arrives, or nil.
func NewErrorReporter(n Notifier, current func() *player.TrackInfo, log logrus.FieldLogger) *ErrorReporter {
	return &ErrorReporter{
		notifier: n,
		current:  current,
		log:      log.WithField("component", "notify"),
	}
}

// Run reports every error received on errs until done is closed.
func (r *ErrorReporter) Run(errs <-chan error, done <-chan struct{}) {
	for {
		select {
		case err := <-errs:
			r.Report(err)
		case <-done:
			return
		}
	}
}

// Report sends one notification for err.
func (r *ErrorReporter) Report(err error) {
	if err == nil {
		return
	}
	n := Notification{
		Title:      "Playback stopped",
		Body:       err.Error(),
		Timeout:    errorTimeout,
		ReplacesID: r.lastID,
		Urgency:    UrgencyCritical,
	}
	if info := r.current(); info != nil {
		if info.Title != "" {
			n.Title = "Playback stopped: " + info.Title
		}
		n.Icon = render.CoverArt(info)
	}

	id, sendErr := r.notifier.Notify(n)
	if sendErr != nil {
		r.log.WithError(sendErr).Warn("notification failed")
		return
	}
	r.lastID = id
}
