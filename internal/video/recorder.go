// recorder.go

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

package video

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// ErrRecorderClosed is returned by Write after Close.
var ErrRecorderClosed = errors.New("video: recorder is closed")

const recorderCloseTimeout = 3 * time.Second

// Recorder muxes the live raw H.264 stream into an MP4 container, leaving
// the source encoding untouched:
//
//	appsrc → h264parse → mp4mux → filesink
//
// Write and Close serialize on one mutex, so a stop request can never race
// an in-flight mux.
type Recorder struct {
	mu       sync.Mutex
	log      zerolog.Logger
	pipeline *gst.Pipeline
	src      *app.Source
	path     string
	closed   bool
	written  uint64
}

// NewRecorder opens a muxing target at path and starts the pipeline.
func NewRecorder(path string, log zerolog.Logger) (*Recorder, error) {
	if path == "" {
		return nil, errors.New("video: recorder needs a target filename")
	}
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("video: failed to create recorder pipeline: %w", err)
	}

	src, err := app.NewAppSrc()
	if err != nil {
		return nil, fmt.Errorf("video: failed to create recorder appsrc: %w", err)
	}
	src.SetProperty("caps", gst.NewCapsFromString("video/x-h264,stream-format=byte-stream,alignment=nal"))
	src.SetProperty("is-live", true)
	src.SetProperty("do-timestamp", true)

	parse, err := gst.NewElement("h264parse")
	if err != nil {
		return nil, fmt.Errorf("video: failed to create h264parse: %w", err)
	}
	mux, err := gst.NewElement("mp4mux")
	if err != nil {
		return nil, fmt.Errorf("video: failed to create mp4mux: %w", err)
	}
	// flush moov data periodically so a crash does not lose the whole file
	mux.SetProperty("fragment-duration", uint(1000))

	sink, err := gst.NewElement("filesink")
	if err != nil {
		return nil, fmt.Errorf("video: failed to create filesink: %w", err)
	}
	sink.SetProperty("location", path)

	pipeline.AddMany(src.Element, parse, mux, sink)
	if err := gst.ElementLinkMany(src.Element, parse, mux, sink); err != nil {
		return nil, fmt.Errorf("video: failed to link recorder pipeline: %w", err)
	}
	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return nil, fmt.Errorf("video: failed to start recorder: %w", err)
	}

	log.Info().Str("file", path).Msg("Recording started")
	return &Recorder{log: log, pipeline: pipeline, src: src, path: path}, nil
}

// Write muxes one raw H.264 unit into the container.
func (r *Recorder) Write(au []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRecorderClosed
	}
	if ret := r.src.PushBuffer(gst.NewBufferFromBytes(au)); ret != gst.FlowOK {
		return fmt.Errorf("video: recorder push returned %v", ret)
	}
	r.written++
	return nil
}

// Close signals end of stream, waits for the muxer to finalise the file and
// releases the pipeline.  Safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.src.EndStream()

	bus := r.pipeline.GetPipelineBus()
	deadline := time.Now().Add(recorderCloseTimeout)
	for time.Now().Before(deadline) {
		msg := bus.TimedPop(100 * time.Millisecond)
		if msg == nil {
			continue
		}
		if msg.Type() == gst.MessageEOS {
			break
		}
	}
	if err := r.pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("video: failed to stop recorder: %w", err)
	}
	r.log.Info().Str("file", r.path).Uint64("units", r.written).Msg("Recording closed")
	return nil
}

// Path returns the target filename.
func (r *Recorder) Path() string {
	return r.path
}
