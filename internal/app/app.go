// Package app is the terminal front end of the player.
package app

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/keymap"
	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/state"
	"github.com/llehouerou/playctl/internal/ui/playerbar"
)

const defaultOpTimeout = 10 * time.Second

// Options configures the application model.
type Options struct {
	Service  playback.Service
	StateMgr state.Interface
	Volume   *Volume
	Log      logrus.FieldLogger

	// OpTimeout bounds the wait of each playback command.
	OpTimeout time.Duration
	// Resume restores and saves playback positions.
	Resume bool
	// Stderr carries lines captured from audio libraries. May be nil.
	Stderr <-chan string
	// URI is opened on start when set.
	URI string
}

// Model is the root application model.
type Model struct {
	Service  playback.Service
	StateMgr state.Interface
	Volume   *Volume
	Keys     *keymap.Resolver
	Log      logrus.FieldLogger

	OpTimeout   time.Duration
	Resume      bool
	URI         string
	DisplayMode playerbar.DisplayMode
	LastEvent   playback.Event
	StatusMsg   string
	ErrorMsg    string
	Width       int
	Height      int
	Quitting    bool

	events  *playback.Subscription
	errs    *playback.ErrorSubscription
	stderr  <-chan string
	ticking bool
	initial string
}

// New creates the model and subscribes to the service, so no event
// published after New returns is missed.
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}

	return Model{
		Service:     opts.Service,
		StateMgr:    opts.StateMgr,
		Volume:      opts.Volume,
		Keys:        keymap.NewResolver(keymap.All),
		Log:         log.WithField("component", "app"),
		OpTimeout:   timeout,
		Resume:      opts.Resume,
		DisplayMode: playerbar.ModeExpanded,
		events:      opts.Service.Events(),
		errs:        opts.Service.Errors(),
		stderr:      opts.Stderr,
		initial:     opts.URI,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.WatchEvents(), m.WatchErrors(), m.WatchStderr()}
	if m.initial != "" {
		uri := m.initial
		cmds = append(cmds, func() tea.Msg { return OpenMsg{URI: uri} })
	}
	return tea.Batch(cmds...)
}

// Close ends the model's subscriptions.
func (m Model) Close() {
	m.events.Close()
	m.errs.Close()
}
