package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mobil-koeln/roamly/internal/geometry"
	"github.com/mobil-koeln/roamly/internal/models"
)

// TableOptions configures the table output
type TableOptions struct {
	Colors *Colors
	// ShowDescription prints the description under each destination
	ShowDescription bool
	// Every prints only every n-th path point, 0 or 1 prints all
	Every int
}

func (o TableOptions) colors() *Colors {
	if o.Colors == nil {
		return NewColors(ColorNever)
	}
	return o.Colors
}

var arrows = [8]string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}

// HeadingArrow maps an icon heading in degrees (0 north, 90 east) to the
// nearest of eight arrows
func HeadingArrow(heading float64) string {
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return "·"
	}
	h := math.Mod(heading, 360)
	if h < 0 {
		h += 360
	}
	return arrows[int(math.Round(h/45))%8]
}

// RenderDestinations renders destinations as a formatted table
func RenderDestinations(w io.Writer, destinations []models.Destination, opts TableOptions) {
	if len(destinations) == 0 {
		_, _ = fmt.Fprintln(w, "No destinations found.")
		return
	}

	c := opts.colors()

	_, _ = fmt.Fprintf(w, "%s\n", c.Header("%4s  %-5s  %-24s  %-16s  %s", "ID", "KIND", "NAME", "DATE", "ROUTE"))

	for _, d := range destinations {
		name := d.Name
		if len([]rune(name)) > 24 {
			name = string([]rune(name)[:23]) + "…"
		}
		date := d.Date
		if len([]rune(date)) > 16 {
			date = string([]rune(date)[:16])
		}

		_, _ = fmt.Fprintf(w, "%4d  %s  %s  %s  %s %s %s\n",
			d.ID,
			c.FormatKind(d.Kind),
			c.Name("%s", padRight(name, 24)),
			c.Date("%s", padRight(date, 16)),
			c.Coord("%s", d.Start.String()),
			c.Muted("→"),
			c.Coord("%s", d.End.String()),
		)

		if opts.ShowDescription && d.Description != "" {
			_, _ = fmt.Fprintf(w, "      %s\n", c.Muted("%s", d.Description))
		}
	}
}

// RenderPath renders the animation path of a destination with the heading
// the vehicle icon has when arriving at each point
func RenderPath(w io.Writer, d models.Destination, points []models.Coordinate, opts TableOptions) {
	c := opts.colors()

	_, _ = fmt.Fprintf(w, "%s %s %s\n",
		c.Header("Route:"),
		c.Name("%s", d.Name),
		c.Muted("(%s, %d points)", d.Kind.Label(), len(points)),
	)
	if len(points) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)

	every := opts.Every
	if every < 1 {
		every = 1
	}

	for i, p := range points {
		last := i == len(points)-1
		if i%every != 0 && !last {
			continue
		}

		heading := 90.0
		if i > 0 {
			heading = geometry.Rotation(points[i-1], p)
		}

		symbol := "├"
		if i == 0 {
			symbol = "┌"
		} else if last {
			symbol = "└"
		}

		_, _ = fmt.Fprintf(w, "%s %4d  %s  %s %s\n",
			c.Muted(symbol),
			i,
			c.Coord("%9.4f %9.4f", p.Lat, p.Lng),
			c.Heading("%s", HeadingArrow(heading)),
			c.Muted("%7.1f°", heading),
		)
	}
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
