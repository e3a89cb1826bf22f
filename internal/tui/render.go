package tui

import (
	"math"
	"sort"
	"strings"

	"hexmap/internal/geom"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	var lo layout
	lo.contentH = max(4, m.height-headerHeight-footerHeight)
	lo.contentW = max(10, m.width)
	side := 0
	if m.showSidebar {
		side = sidebarWidth + 1
	}
	lo.mapW = max(10, lo.contentW-side-1)
	lo.mapH = lo.contentH
	lo.mapX = side
	lo.mapY = headerHeight
	return lo
}

// projection maps coordinates onto the braille microgrid (2x4 pixels per
// cell) through spherical Mercator, keeping the layer extent's aspect.
type projection struct {
	cx, cy     float64 // extent center in Mercator radians
	scale      float64 // micro pixels per radian
	wMic, hMic int
	offX, offY int // pan in micro pixels
}

func (m Model) projection(w, h int) (projection, bool) {
	bb := m.layer.bbox
	if !bb.Valid() || w <= 1 || h <= 1 {
		return projection{}, false
	}
	x0, x1 := bb.MinX*math.Pi/180, bb.MaxX*math.Pi/180
	y0, y1 := geom.MercatorY(bb.MinY), geom.MercatorY(bb.MaxY)
	p := projection{
		cx:   (x0 + x1) / 2,
		cy:   (y0 + y1) / 2,
		wMic: w * 2,
		hMic: h * 4,
		offX: m.offsetX * 2,
		offY: m.offsetY * 4,
	}
	p.scale = math.Min(float64(p.wMic-1)/(x1-x0), float64(p.hMic-1)/(y1-y0)) * m.zoom
	return p, true
}

// micro projects a coordinate to micro pixel coordinates.
func (p projection) micro(c geom.Coord) (int, int) {
	x := c.Lon()*math.Pi/180 - p.cx
	y := geom.MercatorY(c.Lat()) - p.cy
	mx := int(math.Round(float64(p.wMic)/2+x*p.scale)) + p.offX
	my := int(math.Round(float64(p.hMic)/2-y*p.scale)) + p.offY
	return mx, my
}

// cell returns the coordinate under the middle of a map cell.
func (p projection) cell(cx, cy int) geom.Coord {
	mx := float64(cx*2+1-p.offX) - float64(p.wMic)/2
	my := float64(cy*4+2-p.offY) - float64(p.hMic)/2
	lon := (mx/p.scale + p.cx) * 180 / math.Pi
	lat := geom.InverseMercatorY(p.cy - my/p.scale)
	return geom.Coord{lat, lon}
}

// cellToCoord converts a map cell back to a coordinate using the current view.
func (m Model) cellToCoord(cx, cy, w, h int) (geom.Coord, bool) {
	p, ok := m.projection(w, h)
	if !ok {
		return geom.Coord{}, false
	}
	return p.cell(cx, cy), true
}

func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)
	p, ok := m.projection(w, h)
	if ok {
		for _, hp := range m.layer.polys {
			ring := make([][2]int, 0, len(hp.ring))
			for _, c := range hp.ring {
				mx, my := p.micro(c)
				ring = append(ring, [2]int{mx, my})
			}
			if len(ring) < 3 {
				continue
			}
			fillRing(br, ring, fillColor(hp.style))
			stroke := hp.style.StrokeColor.Hex()
			on, off := dashPattern(hp.style.StrokeStyle)
			for i := 0; i+1 < len(ring); i++ {
				a, b := ring[i], ring[i+1]
				for k := 0; k < max(1, hp.style.StrokeWidth); k++ {
					br.drawLineMicro(a[0]+k, a[1], b[0]+k, b[1], stroke, on, off)
				}
			}
		}
	}
	if m.hovering && m.hoverHex != "" {
		br.mark(m.hoverCellX, m.hoverCellY, '◯', hoverFg)
	}
	return strings.Join(br.toLines(), "\n")
}

// fillRing fills a closed ring on the microgrid with the even-odd rule.
func fillRing(br *brailleBuf, ring [][2]int, color string) {
	hMic := br.h * 4
	var xs []int
	for yMic := 0; yMic < hMic; yMic++ {
		xs = xs[:0]
		for i := 0; i+1 < len(ring); i++ {
			a, b := ring[i], ring[i+1]
			if a[1] == b[1] {
				continue
			}
			y0, y1 := a[1], b[1]
			x0, x1 := a[0], b[0]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0, x1 := clipSpan(xs[i], xs[i+1], br.w*2)
			for xMic := x0; xMic <= x1; xMic++ {
				br.setPixel(xMic, yMic, color)
			}
		}
	}
}

// clipSpan limits a scanline span to the wMic pixels on screen. An empty
// result has x0 > x1.
func clipSpan(x0, x1, wMic int) (int, int) {
	return max(0, x0), min(x1, wMic-1)
}
