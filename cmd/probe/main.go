// Command probe drives the playback service without a terminal UI: it
// prepares a media reference, plays it, seeks, and resets, printing every
// lifecycle event. Useful to check an audio setup or a file's decoding.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "probe <uri>",
	Short: "Play a media reference headlessly and print its playback events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbe(cmd, args[0], probeFlags)
	},
	SilenceUsage: true,
}

func init() {
	f := rootCmd.Flags()
	f.DurationVar(&probeFlags.play, "play", probeFlags.play, "how long to play before and after the seek")
	f.DurationVar(&probeFlags.seek, "seek", probeFlags.seek, "position to seek to")
	f.StringVar(&probeFlags.policy, "policy", "", "error policy: poison or per_call (default from config)")
	f.BoolVarP(&probeFlags.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(recentCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
