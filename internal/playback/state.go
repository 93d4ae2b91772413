package playback

import "fmt"

// ErrorPolicy decides what a fatal engine error does to the event channel.
type ErrorPolicy int

const (
	// PolicyPoison terminates the event channel on the first fatal error.
	// Every waiting operation fails and so does every later one that has
	// to wait for an event. Fast paths keep resolving.
	PolicyPoison ErrorPolicy = iota
	// PolicyPerCall leaves the event channel open. Only operations waiting
	// when the error arrives fail; later ones work again.
	PolicyPerCall
)

// String returns the policy name as written in the config file.
func (p ErrorPolicy) String() string {
	switch p {
	case PolicyPoison:
		return "poison"
	case PolicyPerCall:
		return "per_call"
	default:
		return "unknown"
	}
}

// ParseErrorPolicy maps a config value to a policy. Empty means poison.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "", "poison":
		return PolicyPoison, nil
	case "per_call":
		return PolicyPerCall, nil
	default:
		return PolicyPoison, fmt.Errorf("unknown error policy %q", s)
	}
}
