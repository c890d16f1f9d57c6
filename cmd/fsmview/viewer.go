package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-logic/internal/config"
	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/geom"
	"github.com/ha1tch/fsm-logic/pkg/truthtable"
)

// Viewer shows a machine in the terminal and keeps relaxing its layout
// while the user drags states and transition labels around.
type Viewer struct {
	screen tcell.Screen
	fsm    *fsm.FSM
	cfg    *config.Config
	logger *slog.Logger
	name   string

	center     geom.Vector
	cellWidth  float64
	moveStates bool
	paused     bool

	mouseDown bool
	dragging  fsm.Movable // held in place by Relax while dragged
	hover     fsm.Movable

	showTable bool
	table     *truthtable.Table
	message   string
	isError   bool
}

// NewViewer creates a viewer for f drawing on screen.
func NewViewer(screen tcell.Screen, f *fsm.FSM, name string, cfg *config.Config, logger *slog.Logger) *Viewer {
	v := &Viewer{
		screen:     screen,
		fsm:        f,
		cfg:        cfg,
		logger:     logger,
		name:       name,
		cellWidth:  cfg.Viewer.CellWidth,
		moveStates: cfg.Layout.MoveStates,
	}
	v.centerOnMachine()
	return v
}

func (v *Viewer) centerOnMachine() {
	lo, hi := v.fsm.Bounds()
	v.center = lo.Mid(hi)
}

func (v *Viewer) view() view {
	w, h := v.screen.Size()
	// last row is the status bar
	return view{center: v.center, cellWidth: v.cellWidth, w: w, h: h - 1}
}

// Tick runs one layout step unless paused.
func (v *Viewer) Tick() {
	if v.paused {
		return
	}
	moved := v.fsm.Relax(v.cfg.Layout.Dt, v.moveStates, v.dragging)
	v.logger.Debug("tick", "displacement", moved)
}

// HandleEvent processes one event and reports whether the viewer should
// quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventInterrupt:
		v.Tick()
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.center = v.center.Add(geom.Vec(0, -4*v.cellWidth))
	case tcell.KeyDown:
		v.center = v.center.Add(geom.Vec(0, 4*v.cellWidth))
	case tcell.KeyLeft:
		v.center = v.center.Add(geom.Vec(-4*v.cellWidth, 0))
	case tcell.KeyRight:
		v.center = v.center.Add(geom.Vec(4*v.cellWidth, 0))
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		v.deleteHovered()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'c':
			v.fsm.Circle()
			v.centerOnMachine()
			v.setMessage("arranged on circle", false)
		case 'l':
			v.fsm.Layered()
			v.centerOnMachine()
			v.setMessage("arranged in layers", false)
		case 'r':
			v.fsm.ToRaster()
			v.setMessage("snapped to grid", false)
		case 'm':
			v.moveStates = !v.moveStates
			v.setMessage(fmt.Sprintf("move states: %v", v.moveStates), false)
		case ' ':
			v.paused = !v.paused
		case 'f':
			v.centerOnMachine()
		case '+', '=':
			v.cellWidth = max(1, v.cellWidth/1.25)
		case '-':
			v.cellWidth *= 1.25
		case 't':
			v.toggleTable()
		case 'd':
			v.deleteHovered()
		}
	}
	return false
}

func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := v.view().toLayout(x, y)
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !v.mouseDown:
		v.mouseDown = true
		v.dragging = v.fsm.HitTest(pos)
		if v.dragging != nil {
			v.logger.Debug("drag start", "element", fmt.Sprint(v.dragging))
		}
	case pressed && v.dragging != nil:
		v.dragging.SetPosition(pos)
	case !pressed && v.mouseDown:
		v.mouseDown = false
		v.dragging = nil
	}
	v.hover = v.fsm.HitTest(pos)
}

func (v *Viewer) deleteHovered() {
	if v.hover == nil {
		return
	}
	v.fsm.Remove(v.hover)
	v.setMessage(fmt.Sprintf("removed %v", v.hover), false)
	v.hover = nil
	v.dragging = nil
	v.table = nil
}

func (v *Viewer) toggleTable() {
	v.showTable = !v.showTable
	if !v.showTable {
		return
	}

	table, err := v.fsm.CreateTruthTableWith(v.cfg.SynthesisOptions(v.logger))
	if err != nil {
		v.showTable = false
		var se *fsm.SynthesisError
		if errors.As(err, &se) && errors.Is(err, fsm.ErrNoTransition) {
			v.setMessage(fmt.Sprintf("no transition from %s for %s", se.State, se.Input), true)
		} else {
			v.setMessage(err.Error(), true)
		}
		return
	}
	v.table = table
}

func (v *Viewer) setMessage(msg string, isError bool) {
	v.message = msg
	v.isError = isError
}

// Draw renders the current frame.
func (v *Viewer) Draw() {
	v.screen.Clear()
	c := &canvas{screen: v.screen, view: v.view()}

	highlight := v.dragging
	if highlight == nil {
		highlight = v.hover
	}
	v.fsm.DrawTo(c, highlight)

	if v.showTable && v.table != nil {
		v.drawTable()
	}
	v.drawStatus()
}

func (v *Viewer) drawTable() {
	lines := strings.Split(strings.TrimRight(v.table.Markdown(), "\n"), "\n")
	w, h := v.screen.Size()
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	x := max(0, w-width-1)
	for i, l := range lines {
		if i >= h-1 {
			break
		}
		drawString(v.screen, x, i, l+strings.Repeat(" ", width-len(l)), styleDefault.Reverse(true))
	}
}

func (v *Viewer) drawStatus() {
	w, h := v.screen.Size()
	style := styleStatus
	text := fmt.Sprintf(" %s | %d states, %d transitions | c circle  l layers  r raster  m move  t table  space pause  q quit",
		v.name, len(v.fsm.States()), len(v.fsm.Transitions()))
	if v.paused {
		text = " [paused]" + text
	}
	if v.message != "" {
		text = " " + v.message + " |" + text
		if v.isError {
			style = styleError
		}
	}
	drawString(v.screen, 0, h-1, text+strings.Repeat(" ", max(0, w-len(text))), style)
}
