package hexes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"hexmap/internal/geom"
)

// LoadGeoJSON reads a FeatureCollection (or a single Feature) of Polygon
// hexes. The id comes from the hex_id or id property, falling back to the
// feature id; count comes from the count property. GeoJSON positions are
// [lon, lat] and are swapped into Coord order.
func LoadGeoJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON is LoadGeoJSON on an in-memory document.
func ParseGeoJSON(data []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("hexes: %w", err)
	}

	parsePoint := func(v any) (c geom.Coord, ok bool) {
		if a, ok := v.([]any); ok && len(a) >= 2 {
			lon, lerr := number(a[0])
			lat, aerr := number(a[1])
			if lerr == nil && aerr == nil {
				return geom.Coord{lat, lon}, true
			}
		}
		return geom.Coord{}, false
	}
	// every position must parse; dropping one would draw a different shape
	parseRing := func(v any) ([]geom.Coord, error) {
		arr, ok := v.([]any)
		if !ok {
			return nil, errors.New("polygon ring is not an array")
		}
		ring := make([]geom.Coord, 0, len(arr))
		for j, el := range arr {
			c, ok := parsePoint(el)
			if !ok {
				return nil, fmt.Errorf("vertex %d is not a [lon, lat] pair: %v", j, el)
			}
			ring = append(ring, c)
		}
		return ring, nil
	}
	// outer ring of a Polygon, or of the first polygon of a MultiPolygon
	outerRing := func(g map[string]any) ([]geom.Coord, error) {
		gt, _ := g["type"].(string)
		coords, _ := g["coordinates"].([]any)
		switch gt {
		case "Polygon":
		case "MultiPolygon":
			if len(coords) == 0 {
				return nil, errors.New("empty multipolygon")
			}
			coords, _ = coords[0].([]any)
		default:
			return nil, fmt.Errorf("unsupported geometry %q", gt)
		}
		if len(coords) == 0 {
			return nil, errors.New("polygon has no rings")
		}
		return parseRing(coords[0])
	}

	var features []any
	switch t, _ := raw["type"].(string); t {
	case "FeatureCollection":
		features, _ = raw["features"].([]any)
	case "Feature":
		features = []any{raw}
	default:
		return nil, fmt.Errorf("hexes: unsupported geojson type %q", t)
	}

	recs := make([]Record, 0, len(features))
	for i, f := range features {
		fm, ok := f.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("hexes: feature %d is not an object", i)
		}
		g, ok := fm["geometry"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("hexes: feature %d has no geometry", i)
		}
		ring, err := outerRing(g)
		if err != nil {
			return nil, fmt.Errorf("hexes: feature %d: %w", i, err)
		}
		props, _ := fm["properties"].(map[string]any)
		id := props["hex_id"]
		if id == nil {
			id = props["id"]
		}
		if id == nil {
			id = fm["id"]
		}
		cn, _ := props["count"].(json.Number)
		count, err := parseCount(cn)
		if err != nil {
			return nil, fmt.Errorf("hexes: feature %d: %w", i, err)
		}
		recs = append(recs, Record{ID: idString(id), Count: count, Corners: ring})
	}
	return FromRecords(recs), nil
}

func number(v any) (float64, error) {
	switch t := v.(type) {
	case json.Number:
		return t.Float64()
	case float64:
		return t, nil
	}
	return 0, fmt.Errorf("not a number: %v", v)
}
