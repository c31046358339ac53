// main.go

// Copyright (C) 2024  The tellopilot authors

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// tellopilot is a keyboard-driven cockpit for the Ryze Tello: live video
// with a telemetry HUD, hold-to-move flight control, MP4 recording and
// photo capture.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/SMerrony/tello"
	"github.com/rs/zerolog"

	"github.com/tellopilot/tellopilot/internal/command"
	"github.com/tellopilot/tellopilot/internal/config"
	"github.com/tellopilot/tellopilot/internal/hud"
	"github.com/tellopilot/tellopilot/internal/state"
	"github.com/tellopilot/tellopilot/internal/video"
)

const (
	flightDataPeriodMs = 50
	startVideoPeriod   = time.Second
	picturePollPeriod  = 2 * time.Second
)

// program flags
var (
	configFlag  = flag.String("config", ".", "directory containing tellopilot.cfg.json")
	dryRunFlag  = flag.String("dryrun", "", "play this file as the video stream instead of connecting to a drone")
	keyHelpFlag = flag.Bool("keyhelp", false, "print the keyboard control mapping and exit")
)

type app struct {
	log  zerolog.Logger
	cfg  config.Settings
	st   *state.State
	rend *hud.Renderer

	drone     *tello.Tello
	connected bool

	fdMu sync.RWMutex
	fd   tello.FlightData

	dec  *video.Decoder
	fb   *image.RGBA
	view *canvas.Image

	downOnce sync.Once
}

func main() {
	flag.Parse()
	if *keyHelpFlag {
		fmt.Print(command.KeyHelp())
		os.Exit(0)
	}
	if err := config.Load(*configFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Current()
	if *dryRunFlag != "" {
		cfg.DryRunFile = *dryRunFlag
	}

	a := &app{
		log:   newLogger(cfg.LogLevel),
		cfg:   cfg,
		st:    state.New(cfg.StartSpeed),
		rend:  hud.NewRenderer(),
		drone: new(tello.Tello),
	}
	if err := a.run(); err != nil {
		a.log.Error().Err(err).Msg("tellopilot failed")
		a.shutdown()
		os.Exit(1)
	}
	a.shutdown()
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func (a *app) run() (err error) {
	// errors from anywhere in the session funnel through one recovery
	// point into the shutdown path
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in main loop: %v\n%s", r, debug.Stack())
		}
	}()

	dryRun := a.cfg.DryRunFile != ""
	if !dryRun {
		if err := a.drone.ControlConnect(a.cfg.DroneAddr, a.cfg.DroneControlPort, a.cfg.DroneLocalPort); err != nil {
			return fmt.Errorf("could not connect to Tello: %w", err)
		}
		a.connected = true
		a.log.Info().Str("addr", a.cfg.DroneAddr).Msg("Connected to Tello control channel")

		fdChan, err := a.drone.StreamFlightData(false, flightDataPeriodMs)
		if err != nil {
			return err
		}
		go func() {
			for fd := range fdChan {
				a.fdMu.Lock()
				a.fd = fd
				a.fdMu.Unlock()
			}
		}()
	} else {
		a.log.Info().Str("file", a.cfg.DryRunFile).Msg("Dry run, not connecting to a drone")
	}

	fa := fyneapp.New()
	w := fa.NewWindow("tellopilot")
	a.fb = image.NewRGBA(image.Rect(0, 0, a.cfg.DisplayWidth, a.cfg.DisplayHeight))
	a.view = canvas.NewImageFromImage(a.fb)
	a.view.FillMode = canvas.ImageFillOriginal
	w.SetContent(a.view)
	w.Resize(fyne.NewSize(float32(a.cfg.DisplayWidth), float32(a.cfg.DisplayHeight)))
	w.SetFixedSize(true)

	disp, err := command.NewDispatcher(a.drone, a.st, command.Options{
		VideoPattern: a.cfg.VideoPattern,
		Quit: func() {
			a.shutdown()
			os.Exit(0)
		},
		Log: a.log.With().Str("component", "command").Logger(),
	})
	if err != nil {
		return fmt.Errorf("keymap configuration: %w", err)
	}

	deskCanvas, ok := w.Canvas().(desktop.Canvas)
	if !ok {
		return errors.New("display driver does not deliver key release events")
	}
	deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) { disp.KeyDown(ev.Name) })
	deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) { disp.KeyUp(ev.Name) })

	frames, err := a.startVideo(dryRun)
	if err != nil {
		return err
	}
	go a.displayLoop(frames)
	if !dryRun {
		go a.pictureWatcher()
	}

	w.ShowAndRun()
	return nil
}

func (a *app) startVideo(dryRun bool) (<-chan video.Frame, error) {
	vlog := a.log.With().Str("component", "video").Logger()

	if dryRun {
		dec, err := video.NewFileDecoder(a.cfg.DryRunFile, a.cfg.DecodeWidth, a.cfg.DecodeHeight, vlog)
		if err != nil {
			return nil, err
		}
		a.dec = dec
		return dec.Start()
	}

	raw, err := a.drone.VideoConnectDefault()
	if err != nil {
		return nil, fmt.Errorf("could not connect to Tello video channel: %w", err)
	}
	if a.cfg.WideVideo {
		a.drone.SetVideoWide()
	}

	dec, err := video.NewStreamDecoder(a.cfg.DecodeWidth, a.cfg.DecodeHeight, vlog)
	if err != nil {
		return nil, err
	}
	a.dec = dec
	frames, err := dec.Start()
	if err != nil {
		return nil, err
	}

	// the Tello stops sending video unless the request is repeated
	a.drone.StartVideo()
	go func() {
		for {
			time.Sleep(startVideoPeriod)
			a.drone.StartVideo()
		}
	}()

	go a.pumpVideo(raw, dec, vlog)
	return frames, nil
}

// pumpVideo forwards raw H.264 from the drone into the decoder and drives
// the recorder lifecycle.  The recorder handle is opened, written and closed
// only here, so a toggle from the input task can never race a mux in flight.
func (a *app) pumpVideo(raw <-chan []byte, dec *video.Decoder, vlog zerolog.Logger) {
	for pkt := range raw {
		if err := dec.Feed(pkt); err != nil {
			vlog.Warn().Err(err).Msg("Decoder rejected video data")
		}
		a.record(pkt, vlog)
	}
}

func (a *app) record(pkt []byte, vlog zerolog.Logger) {
	target, want := a.st.RecordingRequest()
	rec := a.st.Recorder()
	switch {
	case want && rec == nil:
		r, err := video.NewRecorder(target, vlog)
		if err != nil {
			vlog.Error().Err(err).Str("file", target).Msg("Could not open recording")
			a.st.ToggleRecording("")
			return
		}
		a.st.SetRecorder(r)
		rec = r
	case !want && rec != nil:
		a.st.SetRecorder(nil)
		if err := rec.Close(); err != nil {
			vlog.Error().Err(err).Str("file", rec.Path()).Msg("Could not close recording")
		}
		return
	}
	if rec != nil {
		if err := rec.Write(pkt); err != nil {
			vlog.Warn().Err(err).Msg("Recorder rejected video data")
		}
	}
}

// displayLoop scales each decoded frame into the framebuffer, stacks the HUD
// on top and presents it, unless the help overlay is up.
func (a *app) displayLoop(frames <-chan video.Frame) {
	help := command.HelpLines()
	for f := range frames {
		if a.st.HelpVisible() {
			a.rend.HelpPage(a.fb, help)
		} else {
			hud.DrawFit(a.fb, f.RGBA())
			a.fdMu.RLock()
			fd := a.fd
			a.fdMu.RUnlock()
			a.rend.Compose(a.fb, fd, a.st)
		}
		a.view.Refresh()
	}
}

// pictureWatcher drains JPEGs from the library's in-memory store to disk as
// they arrive from the drone.
func (a *app) pictureWatcher() {
	for {
		time.Sleep(picturePollPeriod)
		a.savePics()
	}
}

func (a *app) savePics() {
	if a.drone.NumPics() == 0 {
		return
	}
	prefix := config.TimestampedName(a.cfg.PhotoPattern, time.Now())
	n, err := a.drone.SaveAllPics(prefix)
	if err != nil {
		a.log.Error().Err(err).Msg("Could not save pictures")
		return
	}
	a.log.Info().Int("count", n).Str("prefix", prefix).Msg("Saved pictures")
}

// shutdown closes any active recording, stops the drone and disconnects.
func (a *app) shutdown() {
	a.downOnce.Do(func() {
		if rec := a.st.Recorder(); rec != nil {
			a.st.SetRecorder(nil)
			if err := rec.Close(); err != nil {
				a.log.Error().Err(err).Msg("Could not close recording")
			}
		}
		if a.dec != nil {
			a.dec.Stop()
		}
		if a.connected {
			a.drone.Hover()
			a.savePics()
			a.drone.ControlDisconnect()
			a.log.Info().Msg("Disconnected from Tello")
		}
	})
}
