package tui

import (
	"fmt"

	"hexmap/internal/geom"
	"hexmap/internal/overlay"
)

type hexPolygon struct {
	ring  []geom.Coord
	bbox  geom.BBox
	style overlay.Style
	meta  overlay.Metadata
}

// layer is the terminal map canvas. Model copies share it by pointer so a
// render pass started in one Update is visible to the next View.
type layer struct {
	polys []hexPolygon
	bbox  geom.BBox

	ready   bool
	pending func()

	// outcome of the last render pass
	status string
	err    error
}

func newLayer() *layer { return &layer{} }

// AddPolygon appends a hex; later polygons draw on top.
func (l *layer) AddPolygon(ring []geom.Coord, st overlay.Style, meta overlay.Metadata) {
	bb := geom.BBoxOf(ring)
	l.polys = append(l.polys, hexPolygon{ring: ring, bbox: bb, style: st, meta: meta})
	l.bbox = l.bbox.Union(bb)
}

// OnReady runs fn once the terminal size is known, immediately if it already is.
func (l *layer) OnReady(fn func()) {
	if l.ready {
		fn()
		return
	}
	l.pending = fn
}

// markReady is called on the first window size message.
func (l *layer) markReady() {
	if l.ready {
		return
	}
	l.ready = true
	if fn := l.pending; fn != nil {
		l.pending = nil
		fn()
	}
}

// reset drops all polygons before a new pass. Readiness is kept.
func (l *layer) reset() {
	l.polys = nil
	l.bbox = geom.BBox{}
	l.pending = nil
	l.status, l.err = "", nil
}

func (l *layer) report(name string, n int, err error) {
	l.err = err
	if err != nil {
		l.status = "render error: " + err.Error()
		return
	}
	l.status = fmt.Sprintf("loaded: %s  hexes=%d", name, n)
}

// hit returns the topmost hex containing c.
func (l *layer) hit(c geom.Coord) (hexPolygon, bool) {
	for i := len(l.polys) - 1; i >= 0; i-- {
		p := l.polys[i]
		if c.Lon() < p.bbox.MinX || c.Lon() > p.bbox.MaxX || c.Lat() < p.bbox.MinY || c.Lat() > p.bbox.MaxY {
			continue
		}
		if geom.Contains(p.ring, c) {
			return p, true
		}
	}
	return hexPolygon{}, false
}
