// scale_test.go

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
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitRect(t *testing.T) {
	tests := []struct {
		name           string
		ow, oh, dw, dh int
		want           image.Rectangle
	}{
		{"same size", 960, 720, 960, 720, image.Rect(0, 0, 960, 720)},
		{"wider display pillarboxes", 960, 720, 1280, 720, image.Rect(160, 0, 1120, 720)},
		{"taller display letterboxes", 960, 720, 960, 1080, image.Rect(0, 180, 960, 900)},
		{"upscale", 480, 360, 960, 720, image.Rect(0, 0, 960, 720)},
		{"downscale", 1920, 1440, 960, 720, image.Rect(0, 0, 960, 720)},
		{"odd margin rounds toward zero", 100, 100, 103, 100, image.Rect(1, 0, 101, 100)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FitRect(tc.ow, tc.oh, tc.dw, tc.dh))
		})
	}
}

func TestFitRectNeverOverflows(t *testing.T) {
	dims := []int{1, 7, 100, 720, 960, 1279, 1920}
	for _, ow := range dims {
		for _, oh := range dims {
			for _, dw := range dims {
				for _, dh := range dims {
					r := FitRect(ow, oh, dw, dh)
					assert.GreaterOrEqual(t, r.Min.X, 0)
					assert.GreaterOrEqual(t, r.Min.Y, 0)
					assert.LessOrEqual(t, r.Max.X, dw)
					assert.LessOrEqual(t, r.Max.Y, dh)
				}
			}
		}
	}
}

func TestFitRectDegenerateDims(t *testing.T) {
	assert.True(t, FitRect(0, 720, 1280, 720).Empty())
	assert.True(t, FitRect(960, 0, 1280, 720).Empty())
	assert.True(t, FitRect(960, 720, 0, 720).Empty())
	assert.True(t, FitRect(960, 720, 1280, -1).Empty())
}

func TestDrawFitClearsMargins(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 20))
	// poison the framebuffer so stale pixels would show
	for i := range dst.Pix {
		dst.Pix[i] = 0x7f
	}

	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetRGBA(x, y, white)
		}
	}

	DrawFit(dst, src)

	r := FitRect(10, 10, 40, 20)
	require.Equal(t, image.Rect(10, 0, 30, 20), r)

	// margins are black, the fitted area carries the source
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, dst.RGBAAt(0, 10))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, dst.RGBAAt(39, 10))
	assert.Equal(t, white, dst.RGBAAt(20, 10))
}
