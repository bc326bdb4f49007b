// Package render draws a station layout on a terminal character canvas.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

const (
	// StationRadius is the radius of the station boundary in metres.
	StationRadius = 19.5
	// PlotLimit bounds both axes, in metres.
	PlotLimit = 24.0

	defaultWidth  = 49
	defaultHeight = 25

	glyphAntenna      = '+'
	glyphBoundary     = '.'
	glyphCardinal     = ':'
	glyphNorth        = 'N'
	glyphPrincipal    = '*'
	glyphPrincipalTip = 'o'

	colorAntenna   = "33"  // blue
	colorBoundary  = "245" // gray
	colorCardinal  = "201" // magenta
	colorPrincipal = "34"  // green
	colorEmpty     = "236"
)

// Options selects the optional overlays. Zero Width or Height uses a 49x25
// canvas, which keeps the axes roughly square in a terminal.
type Options struct {
	Plain     bool
	Boundary  bool
	Cardinal  bool
	Principal bool
	Width     int
	Height    int
}

type canvas struct {
	width, height int
	cells         [][]rune
	colors        [][]lipgloss.Color
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.cells = make([][]rune, height)
	c.colors = make([][]lipgloss.Color, height)
	for y := range c.cells {
		c.cells[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
			c.colors[y][x] = colorEmpty
		}
	}
	return c
}

// cell maps a local East-North position to a canvas cell. Positions beyond
// PlotLimit are clipped.
func (c *canvas) cell(e, n float64) (int, int, bool) {
	if math.Abs(e) > PlotLimit || math.Abs(n) > PlotLimit {
		return 0, 0, false
	}
	x := int(math.Round((e + PlotLimit) / (2 * PlotLimit) * float64(c.width-1)))
	y := int(math.Round((PlotLimit - n) / (2 * PlotLimit) * float64(c.height-1)))
	return x, y, true
}

func (c *canvas) set(e, n float64, glyph rune, color lipgloss.Color) {
	if x, y, ok := c.cell(e, n); ok {
		c.cells[y][x] = glyph
		c.colors[y][x] = color
	}
}

// line draws from the origin to (e, n).
func (c *canvas) line(e, n float64, glyph rune, color lipgloss.Color) {
	length := math.Hypot(e, n)
	steps := int(math.Ceil(length / 0.25))
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		c.set(e*f, n*f, glyph, color)
	}
}

func (c *canvas) render(plain bool) string {
	var b strings.Builder
	for y := range c.cells {
		if plain {
			b.WriteString(strings.TrimRight(string(c.cells[y]), " "))
		} else {
			for x, r := range c.cells[y] {
				b.WriteString(lipgloss.NewStyle().Foreground(c.colors[y][x]).Render(string(r)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Title returns the plot title for a layout.
func Title(layout models.Layout) string {
	return fmt.Sprintf("Station %s (rotation: %s deg)", layout.DisplayName, formatDeg(layout.RotationDeg))
}

func formatDeg(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%g", v)
}

// Plot draws the antennas of layout as '+' markers on the East-North plane,
// East to the right and North up, both axes spanning ±PlotLimit metres.
func Plot(layout models.Layout, opts Options) string {
	width, height := opts.Width, opts.Height
	if width <= 1 {
		width = defaultWidth
	}
	if height <= 1 {
		height = defaultHeight
	}
	c := newCanvas(width, height)

	if opts.Boundary {
		for deg := 0; deg < 360; deg++ {
			a := float64(deg) * math.Pi / 180
			c.set(StationRadius*math.Cos(a), StationRadius*math.Sin(a), glyphBoundary, colorBoundary)
		}
	}

	var legend []string
	if opts.Cardinal {
		c.line(0, StationRadius, glyphCardinal, colorCardinal)
		c.set(0, StationRadius, glyphNorth, colorCardinal)
		legend = append(legend, fmt.Sprintf("%c Cardinal direction", glyphNorth))
	}
	if opts.Principal {
		a := -(layout.RotationDeg - 90) * math.Pi / 180
		e, n := StationRadius*math.Cos(a), StationRadius*math.Sin(a)
		c.line(e, n, glyphPrincipal, colorPrincipal)
		c.set(e, n, glyphPrincipalTip, colorPrincipal)
		legend = append(legend, fmt.Sprintf("%c Principal direction", glyphPrincipalTip))
	}

	for _, p := range layout.Local {
		c.set(p.E, p.N, glyphAntenna, colorAntenna)
	}

	title := Title(layout)
	footer := fmt.Sprintf("X (m) east, Y (m) north, %g to %g m", -PlotLimit, PlotLimit)
	if !opts.Plain {
		title = lipgloss.NewStyle().Bold(true).Render(title)
		footer = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBoundary)).Render(footer)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(c.render(opts.Plain))
	b.WriteString(footer)
	b.WriteByte('\n')
	if len(legend) > 0 {
		b.WriteString(strings.Join(legend, "   "))
		b.WriteByte('\n')
	}
	return b.String()
}
