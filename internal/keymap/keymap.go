package keymap

import "strings"

// Binding ties keys to an action.
type Binding struct {
	Keys        []string
	Action      Action
	Description string
}

// All contains every key binding, in help order.
var All = []Binding{
	{[]string{" "}, ActionPlayPause, "play/pause"},
	{[]string{"s"}, ActionStop, "stop"},
	{[]string{"r"}, ActionRestart, "restart"},
	{[]string{"o"}, ActionReload, "reload"},
	{[]string{"right", "l"}, ActionSeekForward, "+5s"},
	{[]string{"left", "h"}, ActionSeekBack, "-5s"},
	{[]string{"shift+right", "L"}, ActionSeekForwardLg, "+30s"},
	{[]string{"shift+left", "H"}, ActionSeekBackLg, "-30s"},
	{[]string{"+", "="}, ActionVolumeUp, "vol+"},
	{[]string{"-"}, ActionVolumeDown, "vol-"},
	{[]string{"m"}, ActionToggleMute, "mute"},
	{[]string{"v"}, ActionTogglePlayerDisplay, "display"},
	{[]string{"q", "ctrl+c"}, ActionQuit, "quit"},
}

// Help renders bindings as a single "key desc" line, using the first key
// of each binding.
func Help(bindings []Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		parts = append(parts, displayKey(b.Keys[0])+" "+b.Description)
	}
	return strings.Join(parts, " · ")
}

func displayKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
