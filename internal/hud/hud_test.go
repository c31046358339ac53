// hud_test.go

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

package hud

import (
	"bytes"
	"fmt"
	"image"
	"testing"

	"github.com/SMerrony/tello"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellopilot/tellopilot/internal/state"
)

func renderLine(l Line, fd tello.FlightData, st *state.State) string {
	return fmt.Sprintf(l.Format, l.Source(fd, st))
}

func TestLineFormats(t *testing.T) {
	st := state.New(30)
	fd := tello.FlightData{
		Height:            25, // decimetres
		NorthSpeed:        3,
		EastSpeed:         4,
		BatteryPercentage: 87,
		WifiStrength:      90,
	}

	out := make([]string, len(Lines))
	for i, l := range Lines {
		out[i] = renderLine(l, fd, st)
	}

	assert.Equal(t, "ALT  2.5m", out[0])
	assert.Equal(t, "SPD  5.0m/s", out[1])
	assert.Equal(t, "BAT  87%", out[2])
	assert.Equal(t, "NET  90%", out[3])
	assert.Equal(t, "CMD  30%", out[4])
	assert.Equal(t, "REC off", out[5])
}

func TestRecordingLineShowsElapsed(t *testing.T) {
	st := state.New(30)
	st.ToggleRecording("out.mp4")

	var recLine Line
	for _, l := range Lines {
		if l.Format == "REC %s" {
			recLine = l
		}
	}
	require.NotNil(t, recLine.Source)
	assert.Regexp(t, `^REC \d{2}:\d{2}$`, renderLine(recLine, tello.FlightData{}, st))
}

func TestComposeMarksFramebuffer(t *testing.T) {
	r := NewRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 320, 240))
	blank := make([]byte, len(dst.Pix))
	copy(blank, dst.Pix)

	r.Compose(dst, tello.FlightData{BatteryPercentage: 50}, state.New(30))
	assert.False(t, bytes.Equal(blank, dst.Pix), "HUD drew nothing")
}

func TestHelpPageCoversSurface(t *testing.T) {
	r := NewRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 640, 480))

	r.HelpPage(dst, []string{"W    move forward (hold)", "Esc  quit"})

	// corner pixel far from any text carries the help background
	px := dst.RGBAAt(639, 479)
	assert.EqualValues(t, 16, px.R)
	assert.EqualValues(t, 16, px.G)
	assert.EqualValues(t, 32, px.B)
	assert.EqualValues(t, 255, px.A)
}
