// drone.go

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

// Package drone narrows the tello library to the surface the cockpit
// actually flies with, so command handlers can be exercised against a fake.
package drone

import "github.com/SMerrony/tello"

// Drone is the flight-control surface used by the command dispatcher.
// *tello.Tello satisfies it.
type Drone interface {
	TakeOff()
	Land()
	PalmLand()
	Hover()
	TakePicture() error

	// Motion commands take a speed percentage 0..100; zero stops the motion.
	Forward(pct int)
	Backward(pct int)
	Left(pct int)
	Right(pct int)
	Up(pct int)
	Down(pct int)
	Clockwise(pct int)
	Anticlockwise(pct int)
}

var _ Drone = (*tello.Tello)(nil)
