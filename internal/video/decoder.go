// decoder.go

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
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

const frameChanDepth = 8

// Decoder turns an H.264 stream into a channel of RGBA frames at a fixed
// output size.  The channel is effectively infinite while the stream lives
// and is not restartable once the underlying stream ends.
type Decoder struct {
	log      zerolog.Logger
	pipeline *gst.Pipeline
	src      *app.Source // nil for file playback
	sink     *app.Sink
	frames   chan Frame
	width    int
	height   int
	seq      uint64
	dropped  uint64
}

// NewStreamDecoder builds the live pipeline fed by Feed():
//
//	appsrc → h264parse → avdec_h264 → videoconvert → videoscale → capsfilter → appsink
func NewStreamDecoder(width, height int, log zerolog.Logger) (*Decoder, error) {
	d, pipeline, err := newDecoder(width, height, log)
	if err != nil {
		return nil, err
	}

	src, err := app.NewAppSrc()
	if err != nil {
		return nil, fmt.Errorf("video: failed to create appsrc: %w", err)
	}
	src.SetProperty("caps", gst.NewCapsFromString("video/x-h264,stream-format=byte-stream,alignment=nal"))
	src.SetProperty("is-live", true)
	src.SetProperty("do-timestamp", true)

	parse, err := gst.NewElement("h264parse")
	if err != nil {
		return nil, fmt.Errorf("video: failed to create h264parse: %w", err)
	}
	dec, err := gst.NewElement("avdec_h264")
	if err != nil {
		return nil, fmt.Errorf("video: failed to create avdec_h264: %w", err)
	}
	dec.SetProperty("max-threads", 0)
	dec.SetProperty("output-corrupt", false)

	convert, scale, caps, err := d.outputTail()
	if err != nil {
		return nil, err
	}

	pipeline.AddMany(src.Element, parse, dec, convert, scale, caps, d.sink.Element)
	if err := gst.ElementLinkMany(src.Element, parse, dec, convert, scale, caps, d.sink.Element); err != nil {
		return nil, fmt.Errorf("video: failed to link decode pipeline: %w", err)
	}

	d.src = src
	return d, nil
}

// NewFileDecoder builds a dry-run pipeline that plays a local recording as
// if it were the drone feed:
//
//	filesrc → decodebin → videoconvert → videoscale → capsfilter → appsink
func NewFileDecoder(path string, width, height int, log zerolog.Logger) (*Decoder, error) {
	if path == "" {
		return nil, errors.New("video: dry-run playback needs a filename")
	}
	d, pipeline, err := newDecoder(width, height, log)
	if err != nil {
		return nil, err
	}

	filesrc, err := gst.NewElement("filesrc")
	if err != nil {
		return nil, fmt.Errorf("video: failed to create filesrc: %w", err)
	}
	filesrc.SetProperty("location", path)

	decodebin, err := gst.NewElement("decodebin")
	if err != nil {
		return nil, fmt.Errorf("video: failed to create decodebin: %w", err)
	}

	convert, scale, caps, err := d.outputTail()
	if err != nil {
		return nil, err
	}

	pipeline.AddMany(filesrc, decodebin, convert, scale, caps, d.sink.Element)
	if err := filesrc.Link(decodebin); err != nil {
		return nil, fmt.Errorf("video: failed to link filesrc: %w", err)
	}
	if err := gst.ElementLinkMany(convert, scale, caps, d.sink.Element); err != nil {
		return nil, fmt.Errorf("video: failed to link decode tail: %w", err)
	}

	// decodebin pads appear once the demuxer has sniffed the container
	decodebin.Connect("pad-added", func(self *gst.Element, srcPad *gst.Pad) {
		sinkPad := convert.GetStaticPad("sink")
		if sinkPad == nil || sinkPad.IsLinked() {
			return
		}
		if ret := srcPad.Link(sinkPad); ret != gst.PadLinkOK {
			log.Error().Str("pad", srcPad.GetName()).Msg("Could not link decodebin pad")
		}
	})

	return d, nil
}

func newDecoder(width, height int, log zerolog.Logger) (*Decoder, *gst.Pipeline, error) {
	gst.Init(nil)
	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, nil, fmt.Errorf("video: failed to create pipeline: %w", err)
	}
	sink, err := app.NewAppSink()
	if err != nil {
		return nil, nil, fmt.Errorf("video: failed to create appsink: %w", err)
	}
	sink.SetProperty("sync", false)
	sink.SetProperty("max-buffers", 1)
	sink.SetProperty("drop", true)

	return &Decoder{
		log:      log,
		pipeline: pipeline,
		sink:     sink,
		frames:   make(chan Frame, frameChanDepth),
		width:    width,
		height:   height,
	}, pipeline, nil
}

// outputTail creates the convert/scale/caps elements locking the output to
// tightly packed RGBA at the configured size.
func (d *Decoder) outputTail() (convert, scale, caps *gst.Element, err error) {
	convert, err = gst.NewElement("videoconvert")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("video: failed to create videoconvert: %w", err)
	}
	convert.SetProperty("n-threads", 0)

	scale, err = gst.NewElement("videoscale")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("video: failed to create videoscale: %w", err)
	}

	caps, err = gst.NewElement("capsfilter")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("video: failed to create capsfilter: %w", err)
	}
	caps.SetProperty("caps", gst.NewCapsFromString(fmt.Sprintf(
		"video/x-raw,format=RGBA,width=%d,height=%d", d.width, d.height,
	)))
	return convert, scale, caps, nil
}

// Start registers the frame callback and sets the pipeline playing.  The
// returned channel never closes; frames are dropped rather than queued when
// the consumer falls behind.
func (d *Decoder) Start() (<-chan Frame, error) {
	d.sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: d.onNewSample,
	})
	if err := d.pipeline.SetState(gst.StatePlaying); err != nil {
		return nil, fmt.Errorf("video: failed to start decode pipeline: %w", err)
	}
	return d.frames, nil
}

func (d *Decoder) onNewSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}
	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return gst.FlowOK
	}
	// GStreamer reuses the buffer after this callback returns
	pix := make([]byte, len(data))
	copy(pix, data)
	buffer.Unmap()

	frame := Frame{
		Seq:       atomic.AddUint64(&d.seq, 1),
		Timestamp: time.Now(),
		Width:     d.width,
		Height:    d.height,
		Data:      pix,
	}
	select {
	case d.frames <- frame:
	default:
		atomic.AddUint64(&d.dropped, 1)
	}
	return gst.FlowOK
}

// Feed pushes one raw H.264 unit from the drone into the pipeline.  It is a
// no-op for file playback, which feeds itself.
func (d *Decoder) Feed(au []byte) error {
	if d.src == nil {
		return nil
	}
	if ret := d.src.PushBuffer(gst.NewBufferFromBytes(au)); ret != gst.FlowOK {
		return fmt.Errorf("video: appsrc push returned %v", ret)
	}
	return nil
}

// Dropped returns how many decoded frames were discarded unconsumed.
func (d *Decoder) Dropped() uint64 {
	return atomic.LoadUint64(&d.dropped)
}

// Stop ends the stream and releases the pipeline.
func (d *Decoder) Stop() {
	if d.src != nil {
		d.src.EndStream()
	}
	if err := d.pipeline.SetState(gst.StateNull); err != nil {
		d.log.Warn().Err(err).Msg("Could not stop decode pipeline")
	}
}
