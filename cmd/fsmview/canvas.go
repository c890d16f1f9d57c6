package main

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/geom"
)

var (
	styleDefault    = tcell.StyleDefault
	styleState      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleTransition = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleText       = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHighlight  = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleStatus     = tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)
	styleError      = tcell.StyleDefault.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite)
)

// view maps layout coordinates to terminal cells. Cells are about twice as
// tall as they are wide, so a row spans two cell widths.
type view struct {
	center    geom.Vector // layout point shown in the middle of the canvas
	cellWidth float64     // layout units per column
	w, h      int
}

func (v view) toCell(p geom.Vector) (int, int) {
	d := p.Sub(v.center)
	x := int(math.Round(d.X/v.cellWidth)) + v.w/2
	y := int(math.Round(d.Y/(2*v.cellWidth))) + v.h/2
	return x, y
}

func (v view) toLayout(x, y int) geom.Vector {
	return v.center.Add(geom.Vec(
		float64(x-v.w/2)*v.cellWidth,
		float64(y-v.h/2)*2*v.cellWidth,
	))
}

// canvas is an fsm.Graphic drawing into a tcell screen.
type canvas struct {
	screen tcell.Screen
	view   view
}

func (c *canvas) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= c.view.w || y >= c.view.h {
		return
	}
	c.screen.SetContent(x, y, r, nil, style)
}

func (c *canvas) style(s fsm.Style) tcell.Style {
	switch s {
	case fsm.StyleState:
		return styleState
	case fsm.StyleText:
		return styleText
	case fsm.StyleHighlight:
		return styleHighlight
	default:
		return styleTransition
	}
}

// DrawCircle implements fsm.Graphic.
func (c *canvas) DrawCircle(center geom.Vector, r float64, style fsm.Style) {
	// Enough samples for one per cell along the circumference
	n := max(12, int(2*math.Pi*r/c.view.cellWidth))
	for _, p := range geom.SampleCircle(center, r, n) {
		x, y := c.view.toCell(p)
		c.set(x, y, 'o', c.style(style))
	}
}

// DrawPolyline implements fsm.Graphic.
func (c *canvas) DrawPolyline(pts []geom.Vector, style fsm.Style) {
	st := c.style(style)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		steps := max(1, int(math.Ceil(b.Dist(a)/(c.view.cellWidth/2))))
		for j := 0; j <= steps; j++ {
			x, y := c.view.toCell(a.Add(b.Sub(a).Mul(float64(j) / float64(steps))))
			c.set(x, y, '·', st)
		}
	}
}

// DrawText implements fsm.Graphic. Text is centred on pos.
func (c *canvas) DrawText(pos geom.Vector, text string, style fsm.Style) {
	x, y := c.view.toCell(pos)
	runes := []rune(text)
	x -= len(runes) / 2
	for i, r := range runes {
		c.set(x+i, y, r, c.style(style))
	}
}

// drawString writes text at a cell position, clipped to the screen.
func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	w, h := s.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		if x >= 0 {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
