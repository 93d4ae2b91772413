// Package playerbar renders the playback status bar.
package playerbar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/player"
	"github.com/llehouerou/playctl/internal/ui/styles"
	"github.com/llehouerou/playctl/internal/ui/text"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // progress line only
	ModeExpanded                    // metadata line above the progress
)

// Status is what the bar shows for the engine state.
type Status int

const (
	StatusStopped Status = iota
	StatusLoading
	StatusBuffering
	StatusPlaying
	StatusPaused
	StatusEnded
)

func (s Status) symbol() string {
	switch s {
	case StatusLoading, StatusBuffering:
		return "…"
	case StatusPlaying:
		return "▶"
	case StatusPaused:
		return "⏸"
	case StatusEnded:
		return "⏹"
	default:
		return "■"
	}
}

// State holds everything needed to render the player bar.
type State struct {
	Status     Status
	Title      string
	Artist     string
	Album      string
	Year       int
	Format     string
	SampleRate int
	BitDepth   int
	Position   time.Duration
	Duration   time.Duration
	Buffered   int // percent
	Volume     float64
	Muted      bool
}

// Height returns the rendered height, borders included.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 4
	}
	return 3
}

// NewState reads the bar state from the playback service.
func NewState(svc playback.Service, volume float64, muted bool) State {
	s := State{
		Status: statusOf(svc),
		Volume: volume,
		Muted:  muted,
	}
	if s.Status == StatusStopped {
		return s
	}

	if r := svc.Renderer(); r != nil {
		if info := r.Info(); info != nil {
			s.Title = info.Title
			s.Artist = info.Artist
			s.Album = info.Album
			s.Year = info.Year
			s.Format = info.Format
			s.SampleRate = info.SampleRate
			s.BitDepth = info.BitDepth
		}
	}
	s.Position = svc.Position()
	s.Duration = svc.Duration()
	s.Buffered = svc.BufferedPercentage()
	return s
}

func statusOf(svc playback.Service) Status {
	switch svc.TrackedState() {
	case player.Preparing:
		return StatusLoading
	case player.Buffering:
		return StatusBuffering
	case player.Ready:
		if svc.IsPlaying() {
			return StatusPlaying
		}
		return StatusPaused
	case player.Ended:
		return StatusEnded
	default:
		return StatusStopped
	}
}

// Render returns the player bar for the given width.
func Render(s State, mode DisplayMode, width int) string {
	inner := max(width-4, 10) // border and padding

	var lines []string
	if mode == ModeExpanded {
		lines = append(lines, renderInfo(s, inner))
	}
	lines = append(lines, renderProgress(s, inner))

	return styles.T().S().Panel.
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

func renderInfo(s State, width int) string {
	st := styles.T().S()
	if s.Status == StatusStopped {
		return st.Subtle.Render(text.Fit("nothing loaded", width))
	}

	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}
	var parts []string
	if s.Artist != "" {
		parts = append(parts, s.Artist)
	}
	if s.Album != "" {
		parts = append(parts, s.Album)
	}
	if s.Year > 0 {
		parts = append(parts, strconv.Itoa(s.Year))
	}
	details := strings.Join(parts, " · ")

	audio := formatAudio(s.Format, s.SampleRate, s.BitDepth)
	left := max(width-text.Width(audio)-2, 0)

	titleWidth := min(text.Width(title), left)
	line := st.Title.Render(text.Truncate(title, titleWidth))
	used := text.Width(text.Truncate(title, titleWidth))
	if details != "" && left-used > 5 {
		d := text.Truncate(details, left-used-3)
		line += "   " + st.Muted.Render(d)
		used += 3 + text.Width(d)
	}
	return line + strings.Repeat(" ", max(width-used-text.Width(audio), 1)) + st.Subtle.Render(audio)
}

func renderProgress(s State, width int) string {
	st := styles.T().S()
	theme := styles.T()

	status := s.Status.symbol()
	times := formatDuration(s.Position) + " / " + formatDuration(s.Duration)
	vol := formatVolume(s.Volume, s.Muted)
	barWidth := max(width-text.Width(status)-text.Width(times)-text.Width(vol)-6, 3)

	var ratio float64
	if s.Duration > 0 {
		ratio = min(float64(s.Position)/float64(s.Duration), 1)
	}
	filled := int(float64(barWidth) * ratio)
	buffered := max(min(barWidth*s.Buffered/100, barWidth), filled)

	bar := styles.Gradient(strings.Repeat("━", filled), theme.Accent, theme.AccentEnd) +
		st.Muted.Render(strings.Repeat("─", buffered-filled)) +
		st.Subtle.Render(strings.Repeat("─", barWidth-buffered))

	statusStyle := st.Base
	if s.Status == StatusPlaying {
		statusStyle = st.Playing
	}
	return statusStyle.Render(status) + "  " + bar + "  " +
		st.Base.Render(times) + "  " + st.Muted.Render(vol)
}

func formatAudio(format string, rate, depth int) string {
	if format == "" {
		return ""
	}
	parts := []string{format}
	if rate > 0 {
		parts = append(parts, humanize.SIWithDigits(float64(rate), 1, "Hz"))
	}
	if depth > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", depth))
	}
	return strings.Join(parts, " ")
}

func formatVolume(level float64, muted bool) string {
	if muted {
		return "muted"
	}
	return fmt.Sprintf("vol %3d%%", int(level*100+0.5))
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
