// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit Action = "quit"

	// Playback
	ActionPlayPause     Action = "play_pause"
	ActionStop          Action = "stop"
	ActionRestart       Action = "restart"
	ActionSeekForward   Action = "seek_forward"
	ActionSeekBack      Action = "seek_back"
	ActionSeekForwardLg Action = "seek_forward_long"
	ActionSeekBackLg    Action = "seek_back_long"
	ActionReload        Action = "reload" // prepare the current media again

	// Output
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionToggleMute Action = "toggle_mute"

	// Display
	ActionTogglePlayerDisplay Action = "toggle_player_display"
)
