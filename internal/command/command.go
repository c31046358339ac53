// command.go

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

// Package command maps physical key events onto drone commands.  The static
// binding table is inverted once at startup into a (key, direction) lookup;
// a command bound without a press handler is a configuration error caught
// before any input is processed.
package command

// Command enumerates everything a key can ask the cockpit to do.
type Command int

const (
	CmdForward Command = iota
	CmdBackward
	CmdLeft
	CmdRight
	CmdUp
	CmdDown
	CmdClockwise
	CmdCounterClockwise
	CmdTakeOff
	CmdLand
	CmdPalmLand
	CmdHover
	CmdTakePicture
	CmdRecord
	CmdFaster
	CmdSlower
	CmdHelp
	CmdQuit

	numCommands
)

var commandNames = [numCommands]string{
	CmdForward:          "forward",
	CmdBackward:         "backward",
	CmdLeft:             "left",
	CmdRight:            "right",
	CmdUp:               "up",
	CmdDown:             "down",
	CmdClockwise:        "clockwise",
	CmdCounterClockwise: "counter-clockwise",
	CmdTakeOff:          "takeoff",
	CmdLand:             "land",
	CmdPalmLand:         "palm-land",
	CmdHover:            "hover",
	CmdTakePicture:      "take-picture",
	CmdRecord:           "record",
	CmdFaster:           "faster",
	CmdSlower:           "slower",
	CmdHelp:             "help",
	CmdQuit:             "quit",
}

func (c Command) String() string {
	if c < 0 || c >= numCommands {
		return "unknown"
	}
	return commandNames[c]
}
