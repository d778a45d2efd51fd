package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mobil-koeln/roamly/internal/geometry"
	"github.com/mobil-koeln/roamly/internal/output"
)

type mapCellType int

const (
	mapCellEmpty mapCellType = iota
	mapCellTrail
	mapCellStart
	mapCellMarker
	mapCellSelected
	mapCellVehicle
)

type mapCell struct {
	ch    rune
	ctype mapCellType
}

type gridPoint struct {
	col int
	row int
}

// projection maps the camera box onto a width x height character grid
type projection struct {
	b          geometry.Bounds
	scale      float64
	xOff, yOff float64
	width      int
	height     int
}

func newProjection(b geometry.Bounds, width, height int) projection {
	latSpan := b.MaxLat - b.MinLat
	lngSpan := b.MaxLng - b.MinLng

	// Terminal cells are about twice as tall as wide
	xScale := float64(width-1) / lngSpan
	yScale := float64(height-1) / latSpan * 2.0
	scale := math.Min(xScale, yScale)

	usedWidth := scale * lngSpan
	usedHeight := scale * latSpan / 2.0
	return projection{
		b:      b,
		scale:  scale,
		xOff:   (float64(width-1) - usedWidth) / 2,
		yOff:   (float64(height-1) - usedHeight) / 2,
		width:  width,
		height: height,
	}
}

func (p projection) point(lat, lng float64) gridPoint {
	return gridPoint{
		col: int(math.Round((lng-p.b.MinLng)*p.scale + p.xOff)),
		row: int(math.Round((p.b.MaxLat-lat)*p.scale/2.0 + p.yOff)),
	}
}

func (p projection) inside(g gridPoint) bool {
	return g.row >= 0 && g.row < p.height && g.col >= 0 && g.col < p.width
}

// renderRouteMap draws markers, the route trail and the vehicle
func renderRouteMap(s *Scene, selectedID int, width, height int) string {
	if width < 3 || height < 3 {
		return ""
	}

	proj := newProjection(s.camera, width, height)

	grid := make([][]mapCell, height)
	for r := 0; r < height; r++ {
		grid[r] = make([]mapCell, width)
		for c := 0; c < width; c++ {
			grid[r][c] = mapCell{ch: ' ', ctype: mapCellEmpty}
		}
	}
	set := func(g gridPoint, cell mapCell) {
		if proj.inside(g) {
			grid[g.row][g.col] = cell
		}
	}

	if s.route && len(s.trail) > 0 {
		pen := newPen(0)
		if s.style.Dashed() {
			// one cell on, two off, like the "5, 10" dash array
			pen = newPen(3)
		}
		for i := 0; i < len(s.trail)-1; i++ {
			a := proj.point(s.trail[i].Lat, s.trail[i].Lng)
			b := proj.point(s.trail[i+1].Lat, s.trail[i+1].Lng)
			bresenhamLine(grid, a.col, a.row, b.col, b.row, pen)
		}
		if len(s.trail) == 1 {
			a := proj.point(s.trail[0].Lat, s.trail[0].Lng)
			bresenhamLine(grid, a.col, a.row, a.col, a.row, pen)
		}
		start := s.trail[0]
		set(proj.point(start.Lat, start.Lng), mapCell{ch: '○', ctype: mapCellStart})
	}

	for _, d := range s.markers {
		ct, ch := mapCellMarker, '●'
		if d.ID == selectedID {
			ct, ch = mapCellSelected, '◉'
		}
		set(proj.point(d.End.Lat, d.End.Lng), mapCell{ch: ch, ctype: ct})
	}

	if v := s.vehicle; v != nil {
		ch := []rune(output.HeadingArrow(v.heading))[0]
		if s.landed {
			ch = '◎'
		}
		set(proj.point(v.pos.Lat, v.pos.Lng), mapCell{ch: ch, ctype: mapCellVehicle})
	}

	trailStyle := lipgloss.NewStyle().Foreground(colorGray)
	if s.style.Color != "" {
		trailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(s.style.Color))
	}
	startStyle := lipgloss.NewStyle().Foreground(colorGray)
	markerStyle := lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	vehicleStyle := lipgloss.NewStyle().Foreground(colorWhite).Bold(true)

	var b strings.Builder
	for r := 0; r < height; r++ {
		var line strings.Builder
		for c := 0; c < width; c++ {
			ch := string(grid[r][c].ch)
			switch grid[r][c].ctype {
			case mapCellTrail:
				line.WriteString(trailStyle.Render(ch))
			case mapCellStart:
				line.WriteString(startStyle.Render(ch))
			case mapCellMarker:
				line.WriteString(markerStyle.Render(ch))
			case mapCellSelected:
				line.WriteString(selectedStyle.Render(ch))
			case mapCellVehicle:
				line.WriteString(vehicleStyle.Render(ch))
			default:
				line.WriteString(ch)
			}
		}
		b.WriteString(line.String())
		if r < height-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// pen carries the dash phase across the segments of one trail
type pen struct {
	dash         int
	count        int
	lastX, lastY int
}

// newPen draws every dash-th cell, or every cell when dash is 0
func newPen(dash int) *pen {
	return &pen{dash: dash, lastX: math.MinInt, lastY: math.MinInt}
}

// bresenhamLine draws a line between two points on the grid using Bresenham's algorithm.
func bresenhamLine(grid [][]mapCell, x0, y0, x1, y1 int, p *pen) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		// consecutive path points often share a cell
		if x0 != p.lastX || y0 != p.lastY {
			p.lastX, p.lastY = x0, y0
			draw := p.dash == 0 || p.count%p.dash == 0
			p.count++
			if draw && y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) {
				if grid[y0][x0].ctype == mapCellEmpty {
					grid[y0][x0] = mapCell{ch: '·', ctype: mapCellTrail}
				}
			}
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
