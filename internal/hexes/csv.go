package hexes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"hexmap/internal/geom"
)

// LoadCSV reads hexes from a CSV with a header row.
// Column detection (case-insensitive): hex_id|id, count, wkt|geometry|polygon.
// The geometry column holds a WKT POLYGON in lon/lat order.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV on a reader.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("hexes: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("hexes: empty csv")
	}
	idxID, idxCount, idxGeom := -1, -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "hex_id", "id":
			if idxID == -1 {
				idxID = i
			}
		case "count":
			if idxCount == -1 {
				idxCount = i
			}
		case "wkt", "geometry", "polygon":
			if idxGeom == -1 {
				idxGeom = i
			}
		}
	}
	if idxID == -1 || idxCount == -1 || idxGeom == -1 {
		return nil, errors.New("hexes: csv needs hex_id, count and wkt columns")
	}

	out := make([]Record, 0, len(recs)-1)
	for n, row := range recs[1:] {
		line := n + 2
		count, err := strconv.Atoi(strings.TrimSpace(row[idxCount]))
		if err != nil {
			return nil, fmt.Errorf("hexes: csv line %d: bad count: %w", line, err)
		}
		ring, err := geom.ParsePolygonWKT(row[idxGeom])
		if err != nil {
			return nil, fmt.Errorf("hexes: csv line %d: %w", line, err)
		}
		out = append(out, Record{ID: strings.TrimSpace(row[idxID]), Count: count, Corners: ring})
	}
	return FromRecords(out), nil
}
