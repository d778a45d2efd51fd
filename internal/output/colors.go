package output

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mobil-koeln/roamly/internal/models"
)

// ColorMode represents the color output mode
type ColorMode int

const (
	// ColorAuto enables colors if output is a TTY
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever disables colors
	ColorNever
)

type sprintf = func(format string, a ...interface{}) string

// Colors holds the color functions for different output types
type Colors struct {
	Plane   sprintf
	Train   sprintf
	Car     sprintf
	Name    sprintf
	Date    sprintf
	Coord   sprintf
	Heading sprintf
	Status  sprintf
	Header  sprintf
	Muted   sprintf
	Warn    sprintf
}

// NewColors creates a new Colors instance based on the color mode
func NewColors(mode ColorMode) *Colors {
	useColors := false
	switch mode {
	case ColorAlways:
		useColors = true
		color.NoColor = false
	case ColorNever:
		useColors = false
	case ColorAuto:
		useColors = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	if !useColors {
		noColor := func(format string, a ...interface{}) string {
			if len(a) == 0 {
				return format
			}
			return fmt.Sprintf(format, a...)
		}
		return &Colors{
			Plane:   noColor,
			Train:   noColor,
			Car:     noColor,
			Name:    noColor,
			Date:    noColor,
			Coord:   noColor,
			Heading: noColor,
			Status:  noColor,
			Header:  noColor,
			Muted:   noColor,
			Warn:    noColor,
		}
	}

	// closest 16-color matches for the trail colors
	return &Colors{
		Plane:   color.New(color.FgCyan, color.Bold).SprintfFunc(),
		Train:   color.New(color.FgRed, color.Bold).SprintfFunc(),
		Car:     color.New(color.FgGreen, color.Bold).SprintfFunc(),
		Name:    color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Date:    color.New(color.FgYellow).SprintfFunc(),
		Coord:   color.New(color.FgMagenta).SprintfFunc(),
		Heading: color.New(color.FgCyan).SprintfFunc(),
		Status:  color.New(color.FgGreen, color.Bold).SprintfFunc(),
		Header:  color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Muted:   color.New(color.FgHiBlack).SprintfFunc(),
		Warn:    color.New(color.FgYellow, color.Bold).SprintfFunc(),
	}
}

// Kind returns the color function for a vehicle kind
func (c *Colors) Kind(k models.VehicleKind) sprintf {
	switch k {
	case models.KindTrain:
		return c.Train
	case models.KindCar:
		return c.Car
	default:
		return c.Plane
	}
}

// FormatKind renders a kind label padded to 5 characters
func (c *Colors) FormatKind(k models.VehicleKind) string {
	return c.Kind(k)("%-5s", string(k))
}

// ParseColorMode parses a color mode string
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}
