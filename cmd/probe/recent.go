package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/playctl/internal/state"
)

var recentFlags struct {
	limit  int
	forget string
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List saved resume positions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := logrus.New()
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(logrus.WarnLevel)
		stateMgr, err := state.Open(log)
		if err != nil {
			return err
		}
		defer stateMgr.Close()

		if recentFlags.forget != "" {
			if err := stateMgr.ForgetResume(recentFlags.forget); err != nil {
				return err
			}
		}

		positions, err := stateMgr.RecentResumes(recentFlags.limit)
		if err != nil {
			return err
		}
		printRecent(cmd.OutOrStdout(), positions, time.Now())
		return nil
	},
}

func init() {
	recentCmd.Flags().IntVarP(&recentFlags.limit, "limit", "n", 10, "number of entries to show")
	recentCmd.Flags().StringVar(&recentFlags.forget, "forget", "", "drop the saved position of this media first")
}

func printRecent(out io.Writer, positions []state.ResumePosition, now time.Time) {
	if len(positions) == 0 {
		fmt.Fprintln(out, "no saved positions")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TITLE", "POSITION", "UPDATED", "URI")
	for _, p := range positions {
		title := p.Title
		if title == "" {
			title = "-"
		}
		t.Row(
			title,
			formatPosition(p.Position, p.Duration),
			humanize.RelTime(p.UpdatedAt, now, "ago", "from now"),
			p.URI,
		)
	}
	fmt.Fprintln(out, t.String())
}

func formatPosition(pos, dur time.Duration) string {
	s := pos.Truncate(time.Second).String()
	if dur > 0 {
		s += fmt.Sprintf(" / %s (%d%%)", dur.Truncate(time.Second), int(pos*100/dur))
	}
	return s
}
