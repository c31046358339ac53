// dispatch.go

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

package command

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"github.com/tellopilot/tellopilot/internal/config"
	"github.com/tellopilot/tellopilot/internal/drone"
	"github.com/tellopilot/tellopilot/internal/state"
)

type direction uint8

const (
	press direction = iota
	release
)

// chord is one dispatchable input event: a key moving in one direction.
type chord struct {
	key fyne.KeyName
	dir direction
}

// handlers is the press/release pair resolved for a command.  Press is
// mandatory, release optional (one-shot commands have none).
type handlers struct {
	press   func()
	release func()
}

// Options configures dispatcher construction.
type Options struct {
	// VideoPattern is the recording filename pattern, a Go time layout
	// stem plus a literal extension, eg. "tello-2006-01-02_150405.mp4".
	VideoPattern string
	// Quit tears down the session.  Called synchronously from the quit key.
	Quit func()
	// Now is the clock used for recording filenames; defaults to time.Now.
	Now func() time.Time
	Log zerolog.Logger
}

// Dispatcher routes key events to command handlers.  Immutable after
// construction; handlers run synchronously on the event task and never block.
type Dispatcher struct {
	log   zerolog.Logger
	table map[chord]func()
}

// NewDispatcher inverts the binding table into the dispatch map, resolving
// each command against the handler table.  A bound command with no press
// handler is a configuration error.
func NewDispatcher(d drone.Drone, st *state.State, opts Options) (*Dispatcher, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Quit == nil {
		opts.Quit = func() {}
	}
	table, err := buildTable(Bindings, handlerTable(d, st, opts))
	if err != nil {
		return nil, err
	}
	return &Dispatcher{log: opts.Log, table: table}, nil
}

func buildTable(bindings []Binding, h map[Command]handlers) (map[chord]func(), error) {
	table := make(map[chord]func())
	for _, b := range bindings {
		hs, ok := h[b.Cmd]
		if !ok || hs.press == nil {
			return nil, fmt.Errorf("binding %v: no press handler for command %q", b.Keys, b.Cmd)
		}
		for _, k := range b.Keys {
			table[chord{k, press}] = hs.press
			if hs.release != nil {
				table[chord{k, release}] = hs.release
			}
		}
	}
	return table, nil
}

// motion builds the hold-to-move pair for one stick command: press starts
// moving at the commanded speed, release stops it.  The method value is
// captured per command at construction time.
func motion(fn func(pct int), st *state.State) handlers {
	return handlers{
		press:   func() { fn(st.Speed()) },
		release: func() { fn(0) },
	}
}

func handlerTable(d drone.Drone, st *state.State, opts Options) map[Command]handlers {
	log := opts.Log
	return map[Command]handlers{
		CmdForward:          motion(d.Forward, st),
		CmdBackward:         motion(d.Backward, st),
		CmdLeft:             motion(d.Left, st),
		CmdRight:            motion(d.Right, st),
		CmdUp:               motion(d.Up, st),
		CmdDown:             motion(d.Down, st),
		CmdClockwise:        motion(d.Clockwise, st),
		CmdCounterClockwise: motion(d.Anticlockwise, st),

		CmdTakeOff:  {press: d.TakeOff},
		CmdLand:     {press: d.Land},
		CmdPalmLand: {press: d.PalmLand},
		CmdHover:    {press: d.Hover},
		CmdTakePicture: {press: func() {
			if err := d.TakePicture(); err != nil {
				log.Error().Err(err).Msg("Take picture failed")
			}
		}},

		CmdRecord: {press: func() {
			started, target := st.ToggleRecording(config.TimestampedName(opts.VideoPattern, opts.Now()))
			if started {
				log.Info().Str("file", target).Msg("Recording requested")
			} else {
				log.Info().Msg("Recording stop requested")
			}
		}},
		CmdFaster: {press: func() {
			log.Debug().Int("speed", st.Faster()).Msg("Speed raised")
		}},
		CmdSlower: {press: func() {
			log.Debug().Int("speed", st.Slower()).Msg("Speed lowered")
		}},
		CmdHelp: {
			press:   func() { st.SetHelpVisible(true) },
			release: func() { st.SetHelpVisible(false) },
		},
		CmdQuit: {press: opts.Quit},
	}
}

// KeyDown dispatches a key-press event.  Unbound keys are silently ignored.
func (disp *Dispatcher) KeyDown(k fyne.KeyName) { disp.fire(chord{k, press}) }

// KeyUp dispatches a key-release event.  Unbound keys are silently ignored.
func (disp *Dispatcher) KeyUp(k fyne.KeyName) { disp.fire(chord{k, release}) }

func (disp *Dispatcher) fire(c chord) {
	if fn, ok := disp.table[c]; ok {
		fn()
	}
}
