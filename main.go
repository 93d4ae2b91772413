package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/app"
	"github.com/llehouerou/playctl/internal/config"
	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/logging"
	"github.com/llehouerou/playctl/internal/mpris"
	"github.com/llehouerou/playctl/internal/notify"
	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/player"
	"github.com/llehouerou/playctl/internal/render"
	"github.com/llehouerou/playctl/internal/state"
	"github.com/llehouerou/playctl/internal/stderr"
)

func main() {
	var uri string
	if len(os.Args) > 1 {
		uri = os.Args[1]
	}
	if err := run(uri); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(uri string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	log, err := logging.Setup(cfg.GetLogConfig())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logging.Close(log)

	// Capture before the audio device is opened.
	capture, err := stderr.Start(log)
	if err != nil {
		log.WithError(err).Warn("stderr capture unavailable")
	}
	defer capture.Stop()
	var stderrLines <-chan string
	if capture != nil {
		stderrLines = capture.Messages
	}

	stateMgr, err := state.Open(log)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer stateMgr.Close()

	pbCfg := cfg.GetPlaybackConfig()
	policy, err := playback.ParseErrorPolicy(pbCfg.ErrorPolicy)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
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
	defer svc.Close()

	volume := app.NewVolume(svc, stateMgr, *engCfg.Volume, log)
	model := app.New(app.Options{
		Service:   svc,
		StateMgr:  stateMgr,
		Volume:    volume,
		Log:       log,
		OpTimeout: pbCfg.OpTimeout,
		Resume:    cfg.ResumeEnabled(),
		Stderr:    stderrLines,
		URI:       uri,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(svc, mpris.Options{
			Timeout: pbCfg.OpTimeout,
			Volume:  volume,
			Open: func(uri string) error {
				program.Send(app.OpenMsg{URI: uri})
				return nil
			},
			Log: log,
		})
		if err != nil {
			log.WithError(err).Warn(errmsg.Format(errmsg.OpMPRISStart, err))
		} else {
			defer adapter.Close()
		}
	}

	if cfg.NotifyErrors() {
		startErrorNotifications(svc, log)
	}

	log.WithFields(logrus.Fields{
		"policy": policy,
		"resume": cfg.ResumeEnabled(),
	}).Info("starting")

	if _, err := program.Run(); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	return nil
}

// startErrorNotifications forwards fatal playback errors to the desktop
// until the service closes.
func startErrorNotifications(svc playback.Service, log logrus.FieldLogger) {
	n, err := notify.New()
	if err != nil {
		log.WithError(err).Warn(errmsg.Format(errmsg.OpNotify, err))
		return
	}
	reporter := notify.NewErrorReporter(n, func() *player.TrackInfo {
		if r := svc.Renderer(); r != nil {
			return r.Info()
		}
		return nil
	}, log)
	errs := svc.Errors()
	go reporter.Run(errs.Errors, errs.Done)
}
