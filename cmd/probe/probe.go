package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/playctl/internal/config"
	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/logging"
	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/player"
	"github.com/llehouerou/playctl/internal/render"
)

type flags struct {
	play    time.Duration
	seek    time.Duration
	policy  string
	verbose bool
}

var probeFlags = flags{
	play: 2 * time.Second,
	seek: 30 * time.Second,
}

func runProbe(cmd *cobra.Command, uri string, fl flags) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	var log *logrus.Logger
	if fl.verbose {
		log = logrus.New()
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(logrus.DebugLevel)
	} else {
		log, err = logging.Setup(cfg.GetLogConfig())
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpInitialize, err))
		}
	}
	defer logging.Close(log)

	pbCfg := cfg.GetPlaybackConfig()
	if fl.policy != "" {
		pbCfg.ErrorPolicy = fl.policy
	}
	policy, err := playback.ParseErrorPolicy(pbCfg.ErrorPolicy)
	if err != nil {
		return err
	}

	engCfg := cfg.GetEngineConfig()
	engine := player.NewBeep(player.NewSpeakerSink(), player.Options{
		Buffer:     engCfg.Buffer,
		SeekSettle: engCfg.SeekSettle,
		Volume:     *engCfg.Volume,
	})
	svc := playback.New(engine, render.NewFileFactory(log), playback.Options{
		ErrorPolicy: policy,
		EventBuffer: pbCfg.EventBuffer,
		Logger:      log,
	})

	return probe(cmd.Context(), svc, uri, fl, pbCfg.OpTimeout, cmd.OutOrStdout())
}

// probe runs prepare, start, seek, pause and reset in order, printing the
// events they cause. It closes svc before returning.
func probe(ctx context.Context, svc playback.Service, uri string, fl flags, timeout time.Duration, out io.Writer) error {
	out = &lockedWriter{w: out}
	printed := printEvents(svc, out)
	defer func() {
		svc.Close()
		<-printed
	}()

	steps := []struct {
		op   errmsg.Op
		run  playback.Operation
		wait time.Duration
	}{
		{errmsg.OpPrepare, svc.Prepare(uri), 0},
		{errmsg.OpStart, svc.Start(), fl.play},
		{errmsg.OpSeek, svc.SeekTo(fl.seek), fl.play},
		{errmsg.OpPause, svc.Pause(), 0},
		{errmsg.OpReset, svc.Reset(), 0},
	}

	for _, step := range steps {
		if err := await(ctx, timeout, step.run); err != nil {
			return err
		}
		fmt.Fprintf(out, "%-16s ok  position=%s\n", step.op, svc.Position().Round(time.Millisecond))
		if step.wait > 0 {
			select {
			case <-time.After(step.wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

func await(ctx context.Context, timeout time.Duration, op playback.Operation) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := op.Await(ctx)
	return err
}

// printEvents prints every event until the subscription ends. The returned
// channel is closed once printing stopped.
func printEvents(svc playback.Service, out io.Writer) <-chan struct{} {
	sub := svc.Events()
	done := make(chan struct{})
	go func() {
		defer close(done)
		start := time.Now()
		for {
			select {
			case e := <-sub.Events:
				fmt.Fprintf(out, "%8s  event %s\n", time.Since(start).Round(time.Millisecond), e)
			case <-sub.Done:
				for len(sub.Events) > 0 {
					fmt.Fprintf(out, "%8s  event %s\n", time.Since(start).Round(time.Millisecond), <-sub.Events)
				}
				if err := sub.Err(); err != nil && !errors.Is(err, playback.ErrClosed) {
					fmt.Fprintf(out, "event channel failed: %v\n", err)
				}
				return
			}
		}
	}()
	return done
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
