package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-logic/internal/config"
	"github.com/ha1tch/fsm-logic/internal/logging"
	"github.com/ha1tch/fsm-logic/pkg/expr"
	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/geom"
)

func TestViewMapping(t *testing.T) {
	v := view{center: geom.Vec(100, 50), cellWidth: 8, w: 80, h: 24}
	tests := []struct {
		p    geom.Vector
		x, y int
	}{
		{geom.Vec(100, 50), 40, 12},
		{geom.Vec(108, 50), 41, 12},
		{geom.Vec(100, 66), 40, 13},
		{geom.Vec(20, 2), 30, 9},
	}
	for _, tt := range tests {
		x, y := v.toCell(tt.p)
		if x != tt.x || y != tt.y {
			t.Errorf("toCell(%v) = (%d, %d), want (%d, %d)", tt.p, x, y, tt.x, tt.y)
		}
		if got := v.toLayout(tt.x, tt.y); got != tt.p {
			t.Errorf("toLayout(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.p)
		}
	}
}

// toggleMachine flips between S0 and S1 whenever a is set.
func toggleMachine(complete bool) (*fsm.FSM, *fsm.State, *fsm.State) {
	s0 := fsm.NewState("S0").SetNumber(0).At(0, 0).SetOutput("Y", false)
	s1 := fsm.NewState("S1").SetNumber(1).At(200, 0).SetOutput("Y", true)
	f := fsm.New(s0, s1)
	f.Transition(s0, s1, expr.MustParse("a"))
	f.Transition(s1, s0, expr.MustParse("a"))
	if complete {
		f.Transition(s0, s0, expr.MustParse("!a"))
		f.Transition(s1, s1, expr.MustParse("!a"))
	}
	return f, s0, s1
}

func newTestViewer(t *testing.T, f *fsm.FSM) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 25)
	return NewViewer(screen, f, "toggle", config.DefaultConfig(), logging.NewNop()), screen
}

func screenText(s tcell.Screen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewer_Draw(t *testing.T) {
	f, _, _ := toggleMachine(true)
	v, screen := newTestViewer(t, f)

	v.Draw()
	screen.Show()
	text := screenText(screen)

	assert.Contains(t, text, "S0")
	assert.Contains(t, text, "S1")
	assert.Contains(t, text, "Y=1")
	assert.Contains(t, text, "2 states, 4 transitions")
}

func TestViewer_Quit(t *testing.T) {
	f, _, _ := toggleMachine(true)
	v, _ := newTestViewer(t, f)

	assert.False(t, v.HandleEvent(key('c')))
	assert.True(t, v.HandleEvent(key('q')))
	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestViewer_DragHoldsStateDuringRelax(t *testing.T) {
	f, s0, _ := toggleMachine(true)
	v, _ := newTestViewer(t, f)

	x, y := v.view().toCell(s0.Position())
	v.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	require.Equal(t, fsm.Movable(s0), v.dragging)

	v.HandleEvent(tcell.NewEventMouse(x-5, y, tcell.Button1, tcell.ModNone))
	want := v.view().toLayout(x-5, y)
	assert.Equal(t, want, s0.Position())

	v.HandleEvent(tcell.NewEventInterrupt(nil))
	assert.Equal(t, want, s0.Position(), "dragged state must not move")

	v.HandleEvent(tcell.NewEventMouse(x-5, y, tcell.ButtonNone, tcell.ModNone))
	assert.Nil(t, v.dragging)
}

func TestViewer_PauseStopsRelax(t *testing.T) {
	f, _, _ := toggleMachine(true)
	v, _ := newTestViewer(t, f)
	before := f.Transitions()[0].Position()

	v.HandleEvent(key(' '))
	require.True(t, v.paused)
	v.HandleEvent(tcell.NewEventInterrupt(nil))
	assert.Equal(t, before, f.Transitions()[0].Position())
}

func TestViewer_TruthTable(t *testing.T) {
	f, _, _ := toggleMachine(true)
	v, screen := newTestViewer(t, f)

	v.HandleEvent(key('t'))
	require.True(t, v.showTable)
	require.NotNil(t, v.table)
	assert.Equal(t, 4, v.table.Rows())

	v.Draw()
	screen.Show()
	assert.Contains(t, screenText(screen), "Q0_n+1")

	v.HandleEvent(key('t'))
	assert.False(t, v.showTable)
}

func TestViewer_TruthTableError(t *testing.T) {
	f, _, _ := toggleMachine(false)
	v, _ := newTestViewer(t, f)

	v.HandleEvent(key('t'))
	assert.False(t, v.showTable)
	assert.True(t, v.isError)
	assert.Contains(t, v.message, "no transition from S0")
}

func TestViewer_DeleteHovered(t *testing.T) {
	f, _, s1 := toggleMachine(true)
	v, _ := newTestViewer(t, f)

	x, y := v.view().toCell(s1.Position())
	v.HandleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
	require.Equal(t, fsm.Movable(s1), v.hover)

	v.HandleEvent(key('d'))
	assert.Len(t, f.States(), 1)
	assert.Len(t, f.Transitions(), 1, "only the S0 loop remains")
	assert.Nil(t, v.hover)
}

func TestViewer_Circle(t *testing.T) {
	f, s0, _ := toggleMachine(true)
	v, _ := newTestViewer(t, f)

	v.HandleEvent(key('c'))
	assert.NotEqual(t, geom.Vec(0, 0), s0.Position())
	assert.Equal(t, "arranged on circle", v.message)
}

func TestViewer_Layered(t *testing.T) {
	f, s0, s1 := toggleMachine(true)
	v, _ := newTestViewer(t, f)

	v.HandleEvent(key('l'))
	assert.Equal(t, 0.0, s0.Position().Y)
	assert.Greater(t, s1.Position().Y, s0.Position().Y)
	assert.Equal(t, "arranged in layers", v.message)
}
