package output

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
)

func toPoint(c models.Coordinate) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// PathFeatures builds a collection with the route as a LineString styled by
// vehicle kind, plus start and destination points
func PathFeatures(d models.Destination, points []models.Coordinate) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(points))
	for _, p := range points {
		line = append(line, toPoint(p))
	}

	style := journey.StyleFor(d.Kind)
	route := geojson.NewFeature(line)
	route.ID = d.ID
	route.Properties["name"] = d.Name
	route.Properties["kind"] = string(d.Kind)
	route.Properties["stroke"] = style.Color
	if style.Dashed() {
		route.Properties["dashArray"] = style.Dash
	}
	fc.Append(route)

	start := geojson.NewFeature(toPoint(d.Start))
	start.Properties["role"] = "start"
	fc.Append(start)

	end := geojson.NewFeature(toPoint(d.End))
	end.Properties["role"] = "destination"
	end.Properties["name"] = d.Name
	end.Properties["date"] = d.Date
	fc.Append(end)

	return fc
}

// DestinationFeatures builds one point feature per destination
func DestinationFeatures(destinations []models.Destination) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, d := range destinations {
		f := geojson.NewFeature(toPoint(d.End))
		f.ID = d.ID
		f.Properties["name"] = d.Name
		f.Properties["kind"] = string(d.Kind)
		f.Properties["date"] = d.Date
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON encodes fc followed by a newline
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
