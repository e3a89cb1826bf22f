package geom

import (
	"errors"
	"strconv"
	"strings"
)

// ParsePolygonWKT parses POLYGON((x y, ...), ...) and returns its outer ring.
// WKT tuples are "lon lat"; the result is in Coord order. Holes are dropped.
func ParsePolygonWKT(wkt string) ([]Coord, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	if !strings.HasPrefix(strings.ToUpper(s), "POLYGON") {
		return nil, errors.New("unsupported wkt type")
	}
	i := strings.Index(s, "((")
	j := strings.LastIndex(s, "))")
	if i < 0 || j <= i {
		return nil, errors.New("wkt polygon: invalid")
	}
	rings := s[i+2 : j]
	// normalize spaces around ring separators
	rings = strings.ReplaceAll(rings, "), (", "),(")
	rings = strings.ReplaceAll(rings, ") , (", "),(")
	outer := strings.Split(rings, "),(")[0]

	var out []Coord
	for _, tup := range strings.Split(outer, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			return nil, errors.New("wkt polygon: bad tuple " + strconv.Quote(tup))
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			return nil, errors.New("wkt polygon: bad tuple " + strconv.Quote(tup))
		}
		out = append(out, Coord{y, x})
	}
	return out, nil
}
