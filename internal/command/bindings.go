// bindings.go

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

package command

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Binding associates a command with the physical keys that fire it.
// Help is the line shown on the help overlay and by -keyhelp.
type Binding struct {
	Cmd  Command
	Keys []fyne.KeyName
	Help string
}

// Bindings is the static binding table for the process lifetime.  Order here
// is the order on the help page.
var Bindings = []Binding{
	{CmdForward, []fyne.KeyName{fyne.KeyW}, "move forward (hold)"},
	{CmdBackward, []fyne.KeyName{fyne.KeyS}, "move backward (hold)"},
	{CmdLeft, []fyne.KeyName{fyne.KeyA}, "move left (hold)"},
	{CmdRight, []fyne.KeyName{fyne.KeyD}, "move right (hold)"},
	{CmdUp, []fyne.KeyName{fyne.KeySpace, fyne.KeyUp}, "climb (hold)"},
	{CmdDown, []fyne.KeyName{desktop.KeyShiftLeft, desktop.KeyShiftRight, fyne.KeyDown}, "descend (hold)"},
	{CmdCounterClockwise, []fyne.KeyName{fyne.KeyQ, fyne.KeyLeft}, "yaw left (hold)"},
	{CmdClockwise, []fyne.KeyName{fyne.KeyE, fyne.KeyRight}, "yaw right (hold)"},
	{CmdTakeOff, []fyne.KeyName{fyne.KeyTab}, "take off"},
	{CmdLand, []fyne.KeyName{fyne.KeyBackspace}, "land"},
	{CmdPalmLand, []fyne.KeyName{fyne.KeyP}, "palm land"},
	{CmdHover, []fyne.KeyName{fyne.KeyZ}, "hover (zero all sticks)"},
	{CmdTakePicture, []fyne.KeyName{fyne.KeyReturn, fyne.KeyEnter}, "take picture"},
	{CmdRecord, []fyne.KeyName{fyne.KeyR}, "start/stop video recording"},
	{CmdFaster, []fyne.KeyName{fyne.KeyPlus, fyne.KeyEqual}, "increase speed"},
	{CmdSlower, []fyne.KeyName{fyne.KeyMinus}, "decrease speed"},
	{CmdHelp, []fyne.KeyName{fyne.KeyH}, "show this help (hold)"},
	{CmdQuit, []fyne.KeyName{fyne.KeyEscape}, "quit"},
}

// HelpLines renders the binding table as display lines, one per command.
func HelpLines() []string {
	lines := make([]string, 0, len(Bindings))
	for _, b := range Bindings {
		keys := make([]string, len(b.Keys))
		for i, k := range b.Keys {
			keys[i] = string(k)
		}
		lines = append(lines, fmt.Sprintf("%-32s %s", strings.Join(keys, " / "), b.Help))
	}
	return lines
}

// KeyHelp is the plain-text keyboard mapping printed by -keyhelp.
func KeyHelp() string {
	var sb strings.Builder
	sb.WriteString("tellopilot keyboard control mapping\n\n")
	for _, l := range HelpLines() {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
