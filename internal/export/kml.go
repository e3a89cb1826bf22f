package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"hexmap/internal/geom"
	"hexmap/internal/overlay"
)

type kmlDoc struct {
	XMLName  xml.Name  `xml:"kml"`
	NS       string    `xml:"xmlns,attr"`
	Document kmlFolder `xml:"Document"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Styles     []kmlStyle     `xml:"Style"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlStyle struct {
	ID        string       `xml:"id,attr"`
	LineStyle kmlLineStyle `xml:"LineStyle"`
	PolyStyle kmlPolyStyle `xml:"PolyStyle"`
}

type kmlLineStyle struct {
	Color string `xml:"color"`
	Width int    `xml:"width"`
}

type kmlPolyStyle struct {
	Color string `xml:"color"`
}

type kmlPlacemark struct {
	Name        string     `xml:"name"`
	Description string     `xml:"description"`
	StyleURL    string     `xml:"styleUrl"`
	Polygon     kmlPolygon `xml:"Polygon"`
}

type kmlPolygon struct {
	Outer kmlRing `xml:"outerBoundaryIs>LinearRing"`
}

type kmlRing struct {
	Coordinates string `xml:"coordinates"`
}

// KML collects polygons into a KML document. KML has no dash patterns, so the
// stroke style is not carried.
type KML struct {
	doc    kmlDoc
	styles map[string]bool
}

func NewKML(name string) *KML {
	return &KML{
		doc: kmlDoc{
			NS:       "http://www.opengis.net/kml/2.2",
			Document: kmlFolder{Name: name},
		},
		styles: map[string]bool{},
	}
}

func (k *KML) AddPolygon(ring []geom.Coord, st overlay.Style, meta overlay.Metadata) {
	fill := kmlColor(st.FillColor, st.Opacity)
	stroke := kmlColor(st.StrokeColor, st.Opacity)
	id := "hex-" + fill + "-" + stroke + "-" + strconv.Itoa(st.StrokeWidth)
	if !k.styles[id] {
		k.styles[id] = true
		k.doc.Document.Styles = append(k.doc.Document.Styles, kmlStyle{
			ID:        id,
			LineStyle: kmlLineStyle{Color: stroke, Width: st.StrokeWidth},
			PolyStyle: kmlPolyStyle{Color: fill},
		})
	}
	// KML coordinates are "lon,lat" tuples separated by spaces
	tuples := make([]string, len(ring))
	for i, c := range ring {
		tuples[i] = strconv.FormatFloat(c.Lon(), 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat(), 'f', -1, 64)
	}
	k.doc.Document.Placemarks = append(k.doc.Document.Placemarks, kmlPlacemark{
		Name:        meta.ID,
		Description: meta.Label,
		StyleURL:    "#" + id,
		Polygon:     kmlPolygon{Outer: kmlRing{Coordinates: strings.Join(tuples, " ")}},
	})
}

// WriteTo writes the indented document with an XML header.
func (k *KML) WriteTo(w io.Writer) (int64, error) {
	b, err := xml.MarshalIndent(k.doc, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, xml.Header)
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(append(b, '\n'))
	return int64(n + m), err
}

// kmlColor encodes c as aabbggrr with alpha from opacity.
func kmlColor(c overlay.RGB, opacity float64) string {
	a := uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
	return fmt.Sprintf("%02x%02x%02x%02x", a, c.B, c.G, c.R)
}
