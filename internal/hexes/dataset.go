// Package hexes holds the precomputed hex grid consumed by the overlay
// renderer, and the loaders for the formats the grid pipeline produces.
package hexes

import "hexmap/internal/geom"

// Dataset is the hex grid as four index-aligned columns. Row i of every
// column describes the same hex. Corner0 only carries the cardinality and
// may be nil when a loader has no such column.
type Dataset struct {
	Corner0 []geom.Coord
	Corners [][]geom.Coord
	HexID   []string
	Count   []int
}

// Record is one row of a Dataset.
type Record struct {
	ID      string
	Count   int
	Corners []geom.Coord
}

// FromRecords builds an aligned Dataset from rows.
func FromRecords(recs []Record) *Dataset {
	d := &Dataset{
		Corner0: make([]geom.Coord, 0, len(recs)),
		Corners: make([][]geom.Coord, 0, len(recs)),
		HexID:   make([]string, 0, len(recs)),
		Count:   make([]int, 0, len(recs)),
	}
	for _, r := range recs {
		var c0 geom.Coord
		if len(r.Corners) > 0 {
			c0 = r.Corners[0]
		}
		d.Corner0 = append(d.Corner0, c0)
		d.Corners = append(d.Corners, r.Corners)
		d.HexID = append(d.HexID, r.ID)
		d.Count = append(d.Count, r.Count)
	}
	return d
}

// Len returns the number of hexes, taken from Corner0 like the map page did,
// falling back to Corners when Corner0 is absent.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	if d.Corner0 != nil {
		return len(d.Corner0)
	}
	return len(d.Corners)
}

// Aligned reports whether every column has Len() rows.
func (d *Dataset) Aligned() bool {
	n := d.Len()
	if d == nil {
		return true
	}
	return len(d.Corners) == n && len(d.HexID) == n && len(d.Count) == n
}

// Record returns row i. It panics when i is out of range of any column.
func (d *Dataset) Record(i int) Record {
	return Record{ID: d.HexID[i], Count: d.Count[i], Corners: d.Corners[i]}
}

// BBox returns the extent of all hex corners.
func (d *Dataset) BBox() geom.BBox {
	if d == nil {
		return geom.BBox{}
	}
	return geom.BBoxOf(d.Corners...)
}
