// Package export provides canvases that write the hex overlay to files
// instead of a screen.
package export

import (
	"encoding/json"
	"io"

	"hexmap/internal/geom"
	"hexmap/internal/overlay"
)

// FeatureCollection is the subset of GeoJSON the overlay produces.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one hex polygon.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry holds a single-ring Polygon in [lon, lat] order.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Properties carries the label and the style a web map needs to draw the hex.
type Properties struct {
	HexID       string  `json:"hex_id"`
	Count       int     `json:"count"`
	Label       string  `json:"label"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	Opacity     float64 `json:"opacity"`
	StrokeWidth int     `json:"stroke_width"`
	StrokeStyle string  `json:"stroke_style"`
}

// GeoJSON collects polygons into a FeatureCollection.
type GeoJSON struct {
	fc FeatureCollection
}

func NewGeoJSON() *GeoJSON {
	return &GeoJSON{fc: FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}}
}

func (g *GeoJSON) AddPolygon(ring []geom.Coord, st overlay.Style, meta overlay.Metadata) {
	coords := make([][2]float64, len(ring))
	for i, c := range ring {
		coords[i] = [2]float64{c.Lon(), c.Lat()}
	}
	g.fc.Features = append(g.fc.Features, Feature{
		Type:     "Feature",
		Geometry: Geometry{Type: "Polygon", Coordinates: [][][2]float64{coords}},
		Properties: Properties{
			HexID:       meta.ID,
			Count:       meta.Count,
			Label:       meta.Label,
			Fill:        st.FillColor.Hex(),
			Stroke:      st.StrokeColor.Hex(),
			Opacity:     st.Opacity,
			StrokeWidth: st.StrokeWidth,
			StrokeStyle: string(st.StrokeStyle),
		},
	})
}

// Bytes encodes the collection.
func (g *GeoJSON) Bytes() ([]byte, error) {
	return json.Marshal(g.fc)
}

// WriteTo writes the encoded collection to w.
func (g *GeoJSON) WriteTo(w io.Writer) (int64, error) {
	b, err := g.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}
