//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/player"
	"github.com/llehouerou/playctl/internal/render"
)

// Adapter exposes a playback service as an MPRIS2 player over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(service playback.Service, opts Options) (*Adapter, error) {
	opts = opts.withDefaults()
	pa := &playerAdapter{service: service, opts: opts}

	s := server.NewServer(busName, &rootAdapter{}, pa)

	go func() {
		if err := s.Listen(); err != nil {
			opts.Log.WithError(err).Warn("mpris server stopped")
		}
	}()

	return &Adapter{server: s}, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return identity, nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return supportedMimeTypes, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter by running
// playback operations with a deadline.
type playerAdapter struct {
	service playback.Service
	opts    Options
}

func (p *playerAdapter) run(op playback.Operation) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.Timeout)
	defer cancel()
	if _, err := op.Await(ctx); err != nil {
		p.opts.Log.WithError(err).Warn("mpris command failed")
		return err
	}
	return nil
}

func (p *playerAdapter) Next() error {
	return nil // single media reference, nothing to skip to
}

func (p *playerAdapter) Previous() error {
	return p.run(p.service.Restart())
}

func (p *playerAdapter) Pause() error {
	return p.run(p.service.Pause())
}

func (p *playerAdapter) PlayPause() error {
	return p.run(p.service.TogglePause())
}

func (p *playerAdapter) Stop() error {
	return p.run(p.service.Reset())
}

func (p *playerAdapter) Play() error {
	return p.run(p.service.Start())
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	target := p.service.Position() + time.Duration(offset)*time.Microsecond
	return p.run(p.service.SeekTo(clampPosition(target, p.service.Duration())))
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	r := p.service.Renderer()
	if r == nil || trackID != formatTrackID(r.Info().URI) {
		return nil // stale track id, ignored per MPRIS
	}
	pos := time.Duration(position) * time.Microsecond
	if pos < 0 || pos > p.service.Duration() {
		return nil
	}
	return p.run(p.service.SeekTo(pos))
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	if p.opts.Open != nil {
		return p.opts.Open(uri)
	}
	return p.run(p.service.Prepare(uri).Then(func(playback.Event) playback.Operation {
		return p.service.Start()
	}))
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	r := p.service.Renderer()
	if r == nil || p.service.TrackedState() == player.Idle {
		return types.Metadata{}, nil
	}
	info := r.Info()

	length := p.service.Duration()
	if length == 0 {
		length = info.Duration
	}
	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(info.URI)),
		Length:      types.Microseconds(length.Microseconds()),
		Title:       info.Title,
		Album:       info.Album,
		TrackNumber: info.Track,
	}
	if info.Artist != "" {
		meta.Artist = []string{info.Artist}
	}
	meta.ArtUrl = render.CoverArtURL(info)

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if p.opts.Volume == nil {
		return 1.0, nil
	}
	return p.opts.Volume.Volume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	if p.opts.Volume != nil {
		p.opts.Volume.SetVolume(min(max(v, 0), 1))
	}
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.TrackedState().HasMedia(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.TrackedState().HasMedia(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.service.TrackedState().HasMedia(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.service.TrackedState().CanSeek(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(uri string) string {
	h := fnv.New64a()
	h.Write([]byte(uri))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
