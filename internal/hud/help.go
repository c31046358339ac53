// help.go

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
)

// HelpPage paints a full-surface help screen over dst, suppressing both the
// video frame and the HUD while the help key is held.
func (r *Renderer) HelpPage(dst *image.RGBA, lines []string) {
	draw.Draw(dst, dst.Bounds(), r.back, image.Point{}, draw.Src)
	r.drawString(dst, hudLeft, hudTop, "tellopilot keyboard controls")
	y := hudTop + 2*lineHeight
	for _, l := range lines {
		r.drawString(dst, hudLeft, y, l)
		y += lineHeight
	}
	r.drawString(dst, hudLeft, y+lineHeight, "release H to return to the video feed")
}
