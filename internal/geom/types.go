package geom

import "math"

// Coord is a geographic position stored as (lat, lon), the order the hex
// pipeline and the map page both use.
type Coord [2]float64

func (c Coord) Lat() float64 { return c[0] }
func (c Coord) Lon() float64 { return c[1] }

// BBox is an extent in map axes: X is longitude, Y is latitude.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a non-zero area.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Center returns the middle of the box as a Coord.
func (b BBox) Center() Coord {
	return Coord{(b.MinY + b.MaxY) / 2, (b.MinX + b.MaxX) / 2}
}

// BBoxOf returns the extent of all coordinates in rings.
func BBoxOf(rings ...[]Coord) BBox {
	var bbox BBox
	first := true
	for _, ring := range rings {
		for _, c := range ring {
			lon, lat := c.Lon(), c.Lat()
			if first {
				bbox = BBox{MinX: lon, MinY: lat, MaxX: lon, MaxY: lat}
				first = false
				continue
			}
			if lon < bbox.MinX {
				bbox.MinX = lon
			}
			if lat < bbox.MinY {
				bbox.MinY = lat
			}
			if lon > bbox.MaxX {
				bbox.MaxX = lon
			}
			if lat > bbox.MaxY {
				bbox.MaxY = lat
			}
		}
	}
	return bbox
}

// Union returns the smallest box covering b and o. An invalid zero box is
// treated as empty.
func (b BBox) Union(o BBox) BBox {
	if b == (BBox{}) {
		return o
	}
	if o == (BBox{}) {
		return b
	}
	return BBox{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}
