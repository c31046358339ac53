// hud.go

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

// Package hud composites the telemetry overlay and the help page onto the
// display framebuffer.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/SMerrony/tello"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tellopilot/tellopilot/internal/state"
)

const (
	hudLeft    = 8
	hudTop     = 16
	lineHeight = 16
)

// Source resolves one HUD value from live telemetry and client state.
type Source func(fd tello.FlightData, st *state.State) interface{}

// Line is one HUD row: a printf format and the source feeding it.
type Line struct {
	Format string
	Source Source
}

// Lines is the HUD configuration, read every frame and drawn top-left in
// declaration order.
var Lines = []Line{
	{"ALT %4.1fm", func(fd tello.FlightData, _ *state.State) interface{} {
		return float32(fd.Height) / 10
	}},
	{"SPD %4.1fm/s", func(fd tello.FlightData, _ *state.State) interface{} {
		return math.Sqrt(float64(fd.NorthSpeed)*float64(fd.NorthSpeed) +
			float64(fd.EastSpeed)*float64(fd.EastSpeed))
	}},
	{"BAT %3d%%", func(fd tello.FlightData, _ *state.State) interface{} {
		return fd.BatteryPercentage
	}},
	{"NET %3d%%", func(fd tello.FlightData, _ *state.State) interface{} {
		return fd.WifiStrength
	}},
	{"CMD %3d%%", func(_ tello.FlightData, st *state.State) interface{} {
		return st.Speed()
	}},
	{"REC %s", func(_ tello.FlightData, st *state.State) interface{} {
		from, active := st.RecordingSince()
		if !active {
			return "off"
		}
		el := time.Since(from).Round(time.Second)
		return fmt.Sprintf("%02d:%02d", int(el.Minutes()), int(el.Seconds())%60)
	}},
}

// Renderer owns the font resource for the process lifetime.
type Renderer struct {
	face font.Face
	text *image.Uniform
	back *image.Uniform
}

// NewRenderer returns a renderer using the built-in 7x13 face.
func NewRenderer() *Renderer {
	return &Renderer{
		face: basicfont.Face7x13,
		text: image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		back: image.NewUniform(color.RGBA{R: 16, G: 16, B: 32, A: 255}),
	}
}

// Compose formats every configured line and stacks them onto dst at the
// top-left corner, after the frame has been blitted.
func (r *Renderer) Compose(dst *image.RGBA, fd tello.FlightData, st *state.State) {
	y := hudTop
	for _, l := range Lines {
		r.drawString(dst, hudLeft, y, fmt.Sprintf(l.Format, l.Source(fd, st)))
		y += lineHeight
	}
}

func (r *Renderer) drawString(dst *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  r.text,
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
