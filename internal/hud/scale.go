// scale.go

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
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// FitRect returns where an ow by oh source lands on a dw by dh surface:
// scaled by min(dw/ow, dh/oh) so neither dimension overflows, then centred
// with the leftover margin split evenly (rounded toward zero).
func FitRect(ow, oh, dw, dh int) image.Rectangle {
	if ow <= 0 || oh <= 0 || dw <= 0 || dh <= 0 {
		return image.Rectangle{}
	}
	sx := float64(dw) / float64(ow)
	sy := float64(dh) / float64(oh)
	s := sx
	if sy < s {
		s = sy
	}
	sw := int(float64(ow) * s)
	sh := int(float64(oh) * s)
	ox := (dw - sw) / 2
	oy := (dh - sh) / 2
	return image.Rect(ox, oy, ox+sw, oy+sh)
}

// DrawFit clears dst to black and blits src into the fitted rectangle.
func DrawFit(dst *image.RGBA, src image.Image) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.Black, image.Point{}, draw.Src)
	sb := src.Bounds()
	r := FitRect(sb.Dx(), sb.Dy(), b.Dx(), b.Dy())
	if r.Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, r, src, sb, xdraw.Src, nil)
}
