// state.go

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

// Package state holds the session record shared between the input task and
// the video task.  Every field lives behind one mutex; the recorder handle is
// only ever opened, written and closed by the video task, so a stop request
// can never race an in-flight mux.
package state

import (
	"sync"
	"time"
)

const (
	// MinSpeed is the floor for the commanded speed; a held key always moves.
	MinSpeed = 10
	// MaxSpeed is the ceiling for the commanded speed.
	MaxSpeed = 100

	speedStep = 10
)

// Recorder is the video task's muxing target as seen from the shared state.
type Recorder interface {
	Write(au []byte) error
	Close() error
	Path() string
}

// State is the mutable client record.  Created once at startup, passed by
// reference to every command handler and to the display loop.
type State struct {
	mu          sync.Mutex
	speed       int
	helpVisible bool
	recordPath  string // requested target filename, "" when stop requested/idle
	recordFrom  time.Time
	recorder    Recorder
}

// New returns a State with the commanded speed clamped into range.
func New(startSpeed int) *State {
	return &State{speed: clampSpeed(startSpeed)}
}

func clampSpeed(v int) int {
	if v < MinSpeed {
		return MinSpeed
	}
	if v > MaxSpeed {
		return MaxSpeed
	}
	return v
}

// Speed returns the current commanded speed percentage.
func (s *State) Speed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// Faster raises the commanded speed one step and returns the new value.
func (s *State) Faster() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = clampSpeed(s.speed + speedStep)
	return s.speed
}

// Slower lowers the commanded speed one step and returns the new value.
func (s *State) Slower() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = clampSpeed(s.speed - speedStep)
	return s.speed
}

// SetHelpVisible shows or hides the full-screen help overlay.
func (s *State) SetHelpVisible(v bool) {
	s.mu.Lock()
	s.helpVisible = v
	s.mu.Unlock()
}

// HelpVisible reports whether the help overlay is up.
func (s *State) HelpVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.helpVisible
}

// ToggleRecording flips the recording request.  While idle it captures path
// as the new target and reports started=true; while recording it clears the
// target so the video task closes the recorder on its next frame.
func (s *State) ToggleRecording(path string) (started bool, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordPath == "" {
		s.recordPath = path
		s.recordFrom = time.Now()
		return true, path
	}
	s.recordPath = ""
	return false, ""
}

// RecordingRequest returns the requested target filename, if any.
func (s *State) RecordingRequest() (path string, want bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordPath, s.recordPath != ""
}

// RecordingSince reports when the current recording request was made.
func (s *State) RecordingSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordFrom, s.recordPath != ""
}

// SetRecorder publishes (or clears) the active recorder handle.
func (s *State) SetRecorder(r Recorder) {
	s.mu.Lock()
	s.recorder = r
	s.mu.Unlock()
}

// Recorder returns the active recorder handle, nil when idle.
func (s *State) Recorder() Recorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder
}
