// dispatch_test.go

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
	"errors"
	"fmt"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellopilot/tellopilot/internal/state"
)

// fakeDrone records every flight command in call order.
type fakeDrone struct {
	calls      []string
	pictureErr error
}

func (f *fakeDrone) call(s string) { f.calls = append(f.calls, s) }

func (f *fakeDrone) TakeOff()  { f.call("takeoff") }
func (f *fakeDrone) Land()     { f.call("land") }
func (f *fakeDrone) PalmLand() { f.call("palm-land") }
func (f *fakeDrone) Hover()    { f.call("hover") }
func (f *fakeDrone) TakePicture() error {
	f.call("take-picture")
	return f.pictureErr
}

func (f *fakeDrone) Forward(pct int)       { f.call(fmt.Sprintf("forward(%d)", pct)) }
func (f *fakeDrone) Backward(pct int)      { f.call(fmt.Sprintf("backward(%d)", pct)) }
func (f *fakeDrone) Left(pct int)          { f.call(fmt.Sprintf("left(%d)", pct)) }
func (f *fakeDrone) Right(pct int)         { f.call(fmt.Sprintf("right(%d)", pct)) }
func (f *fakeDrone) Up(pct int)            { f.call(fmt.Sprintf("up(%d)", pct)) }
func (f *fakeDrone) Down(pct int)          { f.call(fmt.Sprintf("down(%d)", pct)) }
func (f *fakeDrone) Clockwise(pct int)     { f.call(fmt.Sprintf("cw(%d)", pct)) }
func (f *fakeDrone) Anticlockwise(pct int) { f.call(fmt.Sprintf("ccw(%d)", pct)) }

func newTestDispatcher(t *testing.T, st *state.State, opts Options) (*Dispatcher, *fakeDrone) {
	t.Helper()
	fd := &fakeDrone{}
	opts.Log = zerolog.Nop()
	disp, err := NewDispatcher(fd, st, opts)
	require.NoError(t, err)
	return disp, fd
}

func TestHoldToMove(t *testing.T) {
	st := state.New(30)
	disp, fd := newTestDispatcher(t, st, Options{})

	disp.KeyDown(fyne.KeyW)
	disp.KeyUp(fyne.KeyW)
	assert.Equal(t, []string{"forward(30)", "forward(0)"}, fd.calls)
}

func TestMotionUsesCurrentSpeed(t *testing.T) {
	st := state.New(30)
	disp, fd := newTestDispatcher(t, st, Options{})

	disp.KeyDown(fyne.KeyPlus) // 40
	disp.KeyDown(fyne.KeyA)
	disp.KeyUp(fyne.KeyA)
	assert.Equal(t, []string{"left(40)", "left(0)"}, fd.calls)
}

func TestAlternateKeysShareACommand(t *testing.T) {
	st := state.New(30)
	disp, fd := newTestDispatcher(t, st, Options{})

	disp.KeyDown(fyne.KeySpace)
	disp.KeyUp(fyne.KeySpace)
	disp.KeyDown(fyne.KeyUp)
	disp.KeyUp(fyne.KeyUp)
	assert.Equal(t, []string{"up(30)", "up(0)", "up(30)", "up(0)"}, fd.calls)

	fd.calls = nil
	disp.KeyDown(desktop.KeyShiftLeft)
	disp.KeyUp(desktop.KeyShiftLeft)
	assert.Equal(t, []string{"down(30)", "down(0)"}, fd.calls)
}

func TestOneShotCommands(t *testing.T) {
	st := state.New(30)
	disp, fd := newTestDispatcher(t, st, Options{})

	disp.KeyDown(fyne.KeyTab)
	disp.KeyUp(fyne.KeyTab) // no release handler, must not fire anything
	disp.KeyDown(fyne.KeyBackspace)
	disp.KeyDown(fyne.KeyP)
	disp.KeyDown(fyne.KeyZ)
	disp.KeyDown(fyne.KeyReturn)
	assert.Equal(t, []string{"takeoff", "land", "palm-land", "hover", "take-picture"}, fd.calls)
}

func TestTakePictureFailureDoesNotStopDispatch(t *testing.T) {
	st := state.New(30)
	disp, fd := newTestDispatcher(t, st, Options{})
	fd.pictureErr = errors.New("picture request refused")

	disp.KeyDown(fyne.KeyReturn)
	disp.KeyDown(fyne.KeyTab)
	assert.Equal(t, []string{"take-picture", "takeoff"}, fd.calls)
}

func TestUnboundKeyIsIgnored(t *testing.T) {
	st := state.New(30)
	disp, fd := newTestDispatcher(t, st, Options{})

	disp.KeyDown(fyne.KeyF1)
	disp.KeyUp(fyne.KeyF1)
	disp.KeyDown(fyne.KeyX)
	assert.Empty(t, fd.calls)
}

func TestSpeedKeys(t *testing.T) {
	st := state.New(30)
	disp, _ := newTestDispatcher(t, st, Options{})

	disp.KeyDown(fyne.KeyPlus)
	assert.Equal(t, 40, st.Speed())
	disp.KeyDown(fyne.KeyEqual) // unshifted plus on most layouts
	assert.Equal(t, 50, st.Speed())
	disp.KeyDown(fyne.KeyMinus)
	disp.KeyDown(fyne.KeyMinus)
	assert.Equal(t, 30, st.Speed())
}

func TestRecordKeyTogglesWithTimestampedName(t *testing.T) {
	st := state.New(30)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	disp, _ := newTestDispatcher(t, st, Options{
		VideoPattern: "tello-2006-01-02_150405.mp4",
		Now:          func() time.Time { return fixed },
	})

	disp.KeyDown(fyne.KeyR)
	path, want := st.RecordingRequest()
	require.True(t, want)
	assert.Equal(t, "tello-2024-06-01_120000.mp4", path)

	disp.KeyDown(fyne.KeyR)
	_, want = st.RecordingRequest()
	assert.False(t, want)
}

func TestHelpKeyHoldsOverlay(t *testing.T) {
	st := state.New(30)
	disp, _ := newTestDispatcher(t, st, Options{})

	disp.KeyDown(fyne.KeyH)
	assert.True(t, st.HelpVisible())
	disp.KeyUp(fyne.KeyH)
	assert.False(t, st.HelpVisible())
}

func TestQuitKeyCallsQuit(t *testing.T) {
	st := state.New(30)
	quits := 0
	disp, fd := newTestDispatcher(t, st, Options{Quit: func() { quits++ }})

	disp.KeyDown(fyne.KeyEscape)
	assert.Equal(t, 1, quits)
	assert.Empty(t, fd.calls)
}

func TestBuildTableRejectsMissingPressHandler(t *testing.T) {
	h := map[Command]handlers{
		CmdForward: {press: func() {}},
	}
	bindings := []Binding{
		{CmdForward, []fyne.KeyName{fyne.KeyW}, "move forward (hold)"},
		{CmdLand, []fyne.KeyName{fyne.KeyBackspace}, "land"},
	}
	_, err := buildTable(bindings, h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no press handler")
	assert.Contains(t, err.Error(), `"land"`)
}

func TestEveryBindingHasAHandler(t *testing.T) {
	st := state.New(30)
	fd := &fakeDrone{}
	_, err := NewDispatcher(fd, st, Options{Log: zerolog.Nop()})
	assert.NoError(t, err)
}
