package app

import (
	"strings"

	"github.com/llehouerou/playctl/internal/keymap"
	"github.com/llehouerou/playctl/internal/ui/playerbar"
	"github.com/llehouerou/playctl/internal/ui/styles"
	"github.com/llehouerou/playctl/internal/ui/text"
)

const minWidth = 40

// View renders the application UI.
func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	width := max(m.Width, minWidth)
	st := styles.T().S()

	var b strings.Builder
	b.WriteString(st.Playing.Render("playctl"))
	if m.URI != "" {
		b.WriteString("  ")
		b.WriteString(st.Muted.Render(text.Truncate(m.URI, width-9)))
	}
	b.WriteString("\n")

	bar := playerbar.NewState(m.Service, m.Volume.Volume(), m.Volume.Muted())
	b.WriteString(playerbar.Render(bar, m.DisplayMode, width))
	b.WriteString("\n")

	switch {
	case m.ErrorMsg != "":
		b.WriteString(st.Error.Render(text.Truncate(m.ErrorMsg, width)))
	case m.StatusMsg != "":
		b.WriteString(st.Warning.Render(text.Truncate(m.StatusMsg, width)))
	case m.LastEvent != 0:
		b.WriteString(st.Subtle.Render(m.LastEvent.String()))
	}
	b.WriteString("\n")
	b.WriteString(st.Subtle.Render(text.Truncate(keymap.Help(keymap.All), width)))

	return b.String()
}
