// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPrepare   Op = "prepare media"
	OpStart     Op = "start playback"
	OpPause     Op = "pause playback"
	OpToggle    Op = "toggle pause"
	OpStop      Op = "stop playback"
	OpSeek      Op = "seek"
	OpRestart   Op = "restart playback"
	OpReset     Op = "reset playback"

	// Media operations
	OpOpenMedia Op = "open media"

	// Persistence
	OpResumeLoad Op = "load resume position"
	OpResumeSave Op = "save resume position"
	OpVolumeSave Op = "save volume"

	// Desktop integration
	OpMPRISStart Op = "start media controls"
	OpNotify     Op = "send notification"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
