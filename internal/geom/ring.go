package geom

// Closed returns ring with its first vertex repeated at the end when the
// last vertex differs. The input is never modified.
func Closed(ring []Coord) []Coord {
	out := make([]Coord, len(ring), len(ring)+1)
	copy(out, ring)
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

// DistinctCount returns the number of distinct vertices in ring.
func DistinctCount(ring []Coord) int {
	seen := make(map[Coord]struct{}, len(ring))
	for _, c := range ring {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Contains reports whether p lies inside ring (even-odd rule).
func Contains(ring []Coord, p Coord) bool {
	in := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat() > p.Lat()) != (b.Lat() > p.Lat()) {
			x := (b.Lon()-a.Lon())*(p.Lat()-a.Lat())/(b.Lat()-a.Lat()) + a.Lon()
			if p.Lon() < x {
				in = !in
			}
		}
	}
	return in
}
